package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/dnd"
	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/render/term"
	"github.com/matzehuels/kale/pkg/store"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

var (
	paneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	paneDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editFieldStyle = lipgloss.NewStyle().Foreground(colorWhite).Underline(true)
)

// editCommand creates the edit command, the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [NAME]",
		Short: "Edit a stored function in the terminal",
		Long: `Edit a stored function in the terminal.

The function (default "main") is created when missing and saved after every
edit. Below it sits a read-only palette: drag nodes from it, or within the
function, with the mouse. Hold alt while dragging to copy instead of move.

Keys: ctrl+c quits, ctrl+w switches between function and palette, ? toggles
help. Every other key goes to the focused editor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultFunction
			if len(args) == 1 {
				name = args[0]
			}
			return c.runEdit(cmd.Context(), name)
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, name string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	fn, err := getOrCreate(ctx, st, name)
	if err != nil {
		return err
	}
	t := term.Theme()
	if c.themePath != "" {
		if t, err = c.loadTheme(); err != nil {
			return err
		}
	}

	// The terminal belongs to the editor; keep log lines out of it.
	c.Logger.SetOutput(io.Discard)

	m, err := newEditModel(ctx, st, c.Logger, t, fn)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	return err
}

// getOrCreate loads name, creating an empty function when it is missing.
func getOrCreate(ctx context.Context, st store.Store, name string) (*store.Function, error) {
	fn, err := st.Get(ctx, name)
	if err == nil {
		return fn, nil
	}
	if !errors.Is(err, errors.ErrCodeFunctionNotFound) {
		return nil, err
	}
	tree := expr.Expr(expr.NewBlank(expr.EmptyHint))
	if err := st.Put(ctx, name, tree); err != nil {
		return nil, err
	}
	return &store.Function{Name: name, Tree: tree}, nil
}

// paletteTree is the read-only drag source below the edited function.
func paletteTree() expr.Expr {
	return expr.NewList(
		expr.NewCall("if", expr.NewBlank("cond"), expr.NewBlank("then"), expr.NewBlank("else")),
		expr.NewCall("let", expr.NewVariable("x"), expr.NewBlank("value")),
		expr.NewCall("print", expr.NewBlank("")),
		expr.NewCall("add", expr.NewLiteral(expr.Number, "1"), expr.NewLiteral(expr.Number, "2")),
		expr.NewLiteral(expr.Text, "text"),
		expr.NewLiteral(expr.Symbol, "key"),
	)
}

// =============================================================================
// editModel - two editors sharing a drag controller and clipboard
// =============================================================================

type (
	savedMsg struct {
		name string
		err  error
	}
	openedMsg struct {
		fn  *store.Function
		err error
	}
)

// editModel is the bubbletea model of the terminal editor. It is a pointer
// model: the editors call back into it from their change and open hooks.
type editModel struct {
	ctx    context.Context
	st     store.Store
	logger *log.Logger
	theme  *theme.Theme
	styles term.Styles
	cell   geom.Size

	drag    *dnd.Controller
	clip    *editor.Clipboard
	main    *editor.Editor
	palette *editor.Editor
	focus   *editor.Editor

	changed *expr.Expr // tree to save after the current message
	opening string     // function requested by the open action
	status  string
	err     error
	help    bool
}

func newEditModel(ctx context.Context, st store.Store, logger *log.Logger, t *theme.Theme, fn *store.Function) (*editModel, error) {
	cell := textmetrics.DefaultCell
	m := &editModel{
		ctx:    ctx,
		st:     st,
		logger: logger,
		theme:  t,
		styles: term.DefaultStyles(t),
		cell:   cell,
		drag:   dnd.NewController(dnd.NewRegistry(), dnd.WithThreshold(cell.W)),
		clip:   editor.NewClipboard(editor.DefaultClipboardSize),
	}
	var err error
	if m.main, err = m.newEditor(fn.Name, fn.Tree, false); err != nil {
		return nil, err
	}
	if m.palette, err = m.newEditor("palette", paletteTree(), true); err != nil {
		m.main.Close()
		return nil, err
	}
	m.focus = m.main
	m.place()
	return m, nil
}

func (m *editModel) newEditor(name string, tree expr.Expr, frozen bool) (*editor.Editor, error) {
	return editor.New(tree,
		editor.WithName(name),
		editor.WithContext(m.ctx),
		editor.WithLogger(m.logger),
		editor.WithTheme(m.theme),
		editor.WithMeasurer(textmetrics.NewMono(m.cell)),
		editor.WithFrozen(frozen),
		editor.WithClipboard(m.clip),
		editor.WithDragController(m.drag),
		editor.WithOnChange(m.onChange),
		editor.WithOpenFunc(func(fn string) { m.opening = fn }),
	)
}

func (m *editModel) onChange(name string, tree expr.Expr) {
	if m.main != nil && name == m.main.Name() {
		m.changed = &tree
	}
}

// rows is the height of an editor's layout in cells.
func (m *editModel) rows(e *editor.Editor) int {
	return int(math.Ceil(e.Layout().Size.H / m.cell.H))
}

// place sets the editor origins to where View draws them: a title row, the
// function, a gap and a title row, then the palette.
func (m *editModel) place() {
	m.main.SetOrigin(geom.V(0, m.cell.H))
	m.palette.SetOrigin(geom.V(0, float64(m.rows(m.main)+3)*m.cell.H))
}

// pixel maps a terminal cell to the centre of that cell in drag coordinates.
func (m *editModel) pixel(col, row int) geom.Vec {
	return geom.V((float64(col)+0.5)*m.cell.W, (float64(row)+0.5)*m.cell.H)
}

// editorAt returns the editor whose layout covers p.
func (m *editModel) editorAt(p geom.Vec) *editor.Editor {
	for _, e := range []*editor.Editor{m.main, m.palette} {
		r := geom.Rect{Pos: e.Origin(), Size: e.Layout().Size}
		if r.Contains(p) {
			return e
		}
	}
	return nil
}

func (m *editModel) Init() tea.Cmd {
	return nil
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, done := m.key(msg.String()); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "saved " + msg.name
		}
		return m, nil
	case openedMsg:
		m.openFunction(msg)
		return m, nil
	}
	m.place()
	return m, m.followUp()
}

// key handles a key press. done is set when the key ended the update.
func (m *editModel) key(k string) (tea.Cmd, bool) {
	_, editing := m.focus.Editing()
	_, popover := m.focus.Popover()
	inline := editing || popover

	switch {
	case k == "ctrl+c":
		return tea.Quit, true
	case k == "ctrl+w":
		if m.focus == m.main {
			m.focus = m.palette
		} else {
			m.focus = m.main
		}
		return nil, true
	case k == "?" && !inline:
		m.help = !m.help
		return nil, true
	case k == "esc" && !inline && m.drag.State() != dnd.Idle:
		m.drag.Cancel()
		return nil, true
	}

	m.err = nil
	bound, err := m.focus.HandleKey(k)
	switch {
	case err != nil:
		m.err = err
	case !bound:
		m.status = fmt.Sprintf("%q is not bound", k)
	default:
		m.status = ""
	}
	return nil, false
}

func (m *editModel) mouse(msg tea.MouseMsg) {
	p := m.pixel(msg.X, msg.Y)
	m.drag.SetModifier(msg.Alt)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		e := m.editorAt(p)
		if e == nil {
			return
		}
		m.focus = e
		if e.Click(p.Sub(e.Origin())) {
			e.StartDrag(e.Selection(), p)
		}
	case tea.MouseActionMotion:
		m.drag.Move(p, msg.Button == tea.MouseButtonLeft)
		for _, e := range []*editor.Editor{m.main, m.palette} {
			e.HoverAt(p.Sub(e.Origin()))
		}
	case tea.MouseActionRelease:
		dragging := m.drag.State() == dnd.Dragging
		if eff := m.drag.Release(); dragging && eff == dnd.Reject {
			m.status = "nothing accepted the drop"
		}
	}
}

// followUp returns the commands an update left behind: saving a changed
// function and loading one the open action asked for.
func (m *editModel) followUp() tea.Cmd {
	var cmds []tea.Cmd
	if m.changed != nil {
		name, tree := m.main.Name(), *m.changed
		m.changed = nil
		cmds = append(cmds, func() tea.Msg {
			return savedMsg{name: name, err: m.st.Put(m.ctx, name, tree)}
		})
	}
	if m.opening != "" {
		name := m.opening
		m.opening = ""
		cmds = append(cmds, func() tea.Msg {
			fn, err := getOrCreate(m.ctx, m.st, name)
			return openedMsg{fn: fn, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// openFunction swaps the edited function for a loaded one.
func (m *editModel) openFunction(msg openedMsg) {
	if msg.err != nil {
		m.err = msg.err
		return
	}
	e, err := m.newEditor(msg.fn.Name, msg.fn.Tree, false)
	if err != nil {
		m.err = err
		return
	}
	m.main.Close()
	m.main, m.focus = e, e
	m.status = "opened " + msg.fn.Name
	m.place()
}

func (m *editModel) View() string {
	var b strings.Builder

	b.WriteString(m.title(m.main, m.main.Name()))
	b.WriteString("\n")
	b.WriteString(m.canvas(m.main))
	b.WriteString("\n\n")
	b.WriteString(m.title(m.palette, "palette"))
	b.WriteString("\n")
	b.WriteString(m.canvas(m.palette))
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())

	if m.help {
		b.WriteString("\n\n")
		b.WriteString(helpText(m.focus.Menu(m.focus.Selection())))
	}
	return b.String()
}

func (m *editModel) title(e *editor.Editor, name string) string {
	if e == m.focus {
		return paneTitleStyle.Render("▸ " + name)
	}
	return paneDimStyle.Render("  " + name)
}

func (m *editModel) canvas(e *editor.Editor) string {
	res := e.Layout()
	c := term.Rasterize(res, m.cell)
	for _, h := range e.Highlights() {
		if r, ok := res.Rect(h.ID); ok {
			c.Highlight(r, h.Kind)
		}
	}
	return c.Render(m.styles)
}

func (m *editModel) statusLine() string {
	if ed, ok := m.focus.Editing(); ok {
		field := "value"
		if ed.Field == editor.FieldComment {
			field = "comment"
		}
		return paneDimStyle.Render(field+": ") + editFieldStyle.Render(ed.Value+" ") +
			paneDimStyle.Render("  enter keep · esc stop")
	}
	if _, ok := m.focus.Popover(); ok {
		return paneDimStyle.Render("make: f call · v variable · g text · m number · esc cancel")
	}
	if p, ok := m.drag.Preview(); ok {
		verb := "move"
		if !p.WillMove {
			verb = "copy"
		}
		return paneDimStyle.Render(fmt.Sprintf("%s %s", verb, expr.Format(p.Node)))
	}
	if m.err != nil {
		return styleIconError.Render(iconError) + " " + errors.UserMessage(m.err)
	}
	if m.status != "" {
		return paneDimStyle.Render(m.status)
	}
	return paneDimStyle.Render("? help · ctrl+w switch · ctrl+c quit")
}

// helpText lists the menu of the selected node with its keys.
func helpText(items []editor.MenuItem) string {
	var b strings.Builder
	for _, it := range items {
		switch {
		case it.Separator:
			b.WriteString("\n")
			continue
		case it.Hidden:
			continue
		}
		line := fmt.Sprintf("%-10s %s", it.Key, it.Label)
		if it.Enabled {
			b.WriteString(line)
		} else {
			b.WriteString(paneDimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
