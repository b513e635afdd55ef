// Package editor is the host side of a structural editing surface.
//
// An [Editor] owns one canonical tree, the current selection and the layout
// derived from the tree. Every command produces a new tree through the edit
// algebra in package expr, lays it out, and only then swaps it in: if layout
// fails, the editor keeps its previous tree and geometry.
//
// After each edit the selection is repaired with [nav.Repair], so it always
// names a node of the current tree.
//
// Editors are not safe for concurrent use. A host serializes calls, either
// by running them on one event loop (the terminal editor) or behind a lock
// (the HTTP API).
package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kale/pkg/dnd"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/nav"
	"github.com/matzehuels/kale/pkg/observability"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

// maxHistory bounds the undo stack.
const maxHistory = 100

// Editor is one editing surface over a named tree.
type Editor struct {
	id       uuid.UUID
	name     string
	ctx      context.Context
	logger   *log.Logger
	theme    *theme.Theme
	measurer textmetrics.Measurer
	origin   geom.Vec

	frozen       bool
	foldComments bool
	debug        bool

	tree   expr.Expr
	result *layout.Result
	sel    expr.ID

	hover     expr.ID
	droppable expr.ID
	popover   expr.ID
	editing   *Editing

	undo, redo []expr.Expr

	clipboard *Clipboard
	drag      *dnd.Controller
	onChange  func(name string, tree expr.Expr)
	onOpen    func(fn string)
}

// Option configures an Editor.
type Option func(*Editor)

// WithName sets the name of the edited function.
func WithName(name string) Option { return func(e *Editor) { e.name = name } }

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option { return func(e *Editor) { e.ctx = ctx } }

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option { return func(e *Editor) { e.logger = l } }

// WithTheme sets the layout theme.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithMeasurer sets the text-measurement collaborator.
func WithMeasurer(m textmetrics.Measurer) Option { return func(e *Editor) { e.measurer = m } }

// WithFrozen makes the surface read-only: edits and drops are refused, but
// nodes can still be selected and dragged out as copies.
func WithFrozen(frozen bool) Option { return func(e *Editor) { e.frozen = frozen } }

// WithClipboard shares a clipboard between editors.
func WithClipboard(c *Clipboard) Option { return func(e *Editor) { e.clipboard = c } }

// WithOnChange registers a callback run after every committed edit.
func WithOnChange(fn func(name string, tree expr.Expr)) Option {
	return func(e *Editor) { e.onChange = fn }
}

// WithOpenFunc registers the handler of the open-definition action.
func WithOpenFunc(fn func(fn string)) Option { return func(e *Editor) { e.onOpen = fn } }

// WithDragController makes the editor a drop target of c and lets it start
// drags. [Editor.Close] unregisters it.
func WithDragController(c *dnd.Controller) Option { return func(e *Editor) { e.drag = c } }

// New creates an editor over tree and lays it out. A nil tree starts with a
// single blank. The root is selected initially.
func New(tree expr.Expr, opts ...Option) (*Editor, error) {
	e := &Editor{
		id:       uuid.New(),
		name:     "main",
		ctx:      context.Background(),
		logger:   log.Default(),
		theme:    theme.Default(),
		measurer: textmetrics.NewMono(textmetrics.DefaultCell),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clipboard == nil {
		e.clipboard = NewClipboard(DefaultClipboardSize)
	}
	if tree == nil {
		tree = expr.NewBlank(expr.EmptyHint)
	}
	res, err := e.compute(tree)
	if err != nil {
		return nil, err
	}
	e.tree, e.result, e.sel = tree, res, tree.Meta().ID
	if e.drag != nil {
		e.drag.Registry().Add(e)
	}
	return e, nil
}

// Close unregisters the editor from its drag controller.
func (e *Editor) Close() {
	if e.drag != nil {
		e.drag.Registry().Remove(e)
	}
}

// ID returns the surface's unique id.
func (e *Editor) ID() uuid.UUID { return e.id }

// Name returns the name of the edited function.
func (e *Editor) Name() string { return e.name }

// Tree returns the current tree.
func (e *Editor) Tree() expr.Expr { return e.tree }

// Layout returns the layout of the current tree.
func (e *Editor) Layout() *layout.Result { return e.result }

// Selection returns the selected node.
func (e *Editor) Selection() expr.ID { return e.sel }

// Frozen reports whether the surface is read-only.
func (e *Editor) Frozen() bool { return e.frozen }

// FoldingComments reports whether comments are hidden.
func (e *Editor) FoldingComments() bool { return e.foldComments }

// Debug reports whether the debug overlay is on.
func (e *Editor) Debug() bool { return e.debug }

// Clipboard returns the editor's clipboard.
func (e *Editor) Clipboard() *Clipboard { return e.clipboard }

// Origin is the editor's top-left corner in drag coordinates.
func (e *Editor) Origin() geom.Vec { return e.origin }

// SetOrigin moves the editor in drag coordinates.
func (e *Editor) SetOrigin(p geom.Vec) { e.origin = p }

// Select moves the selection to id. Unknown ids are ignored.
func (e *Editor) Select(id expr.ID) bool {
	if !expr.Contains(e.tree, id) {
		return false
	}
	e.setSelection(id)
	return true
}

// Navigate moves the selection with fn. It reports false, leaving the
// selection alone, when fn finds no target.
func (e *Editor) Navigate(fn nav.SelectFn) bool {
	next, ok := fn(e.tree, e.sel, e.result.Areas)
	if !ok {
		return false
	}
	e.setSelection(next)
	return true
}

// Click selects the innermost node under p, given in editor coordinates.
func (e *Editor) Click(p geom.Vec) bool {
	id, ok := e.result.HitTest(p)
	if !ok {
		return false
	}
	e.setSelection(id)
	return true
}

// HoverAt sets the hover highlight to the node under p, or clears it.
func (e *Editor) HoverAt(p geom.Vec) {
	id, _ := e.result.HitTest(p)
	e.hover = id
}

func (e *Editor) setSelection(id expr.ID) {
	if id == e.sel {
		return
	}
	e.sel = id
	observability.Editor().OnSelect(e.ctx, e.id.String(), id.String())
}

func (e *Editor) compute(tree expr.Expr) (*layout.Result, error) {
	start := time.Now()
	res, err := layout.Compute(tree, layout.Context{
		Theme:        e.theme,
		Measurer:     e.measurer,
		Frozen:       e.frozen,
		FoldComments: e.foldComments,
	})
	nodes := 0
	if res != nil {
		nodes = len(res.Areas)
	}
	observability.Editor().OnLayout(e.ctx, e.id.String(), nodes, time.Since(start), err)
	return res, err
}

// relayout recomputes geometry after a view setting changed.
func (e *Editor) relayout() error {
	res, err := e.compute(e.tree)
	if err != nil {
		return err
	}
	e.result = res
	return nil
}

// commit swaps in next as the editor's tree. want, when non-zero and present
// in next, becomes the selection; otherwise the old selection is repaired.
func (e *Editor) commit(action Action, next expr.Expr, want expr.ID) error {
	return e.swap(action, next, want, e.tree)
}

// swap installs next. base is the tree pushed on the undo stack, or nil for
// undo and redo themselves.
func (e *Editor) swap(action Action, next expr.Expr, want expr.ID, base expr.Expr) error {
	old := e.tree
	if next != old {
		res, err := e.compute(next)
		if err != nil {
			e.logger.Warn("edit discarded", "editor", e.name, "action", action, "err", err)
			return err
		}
		e.tree, e.result = next, res
	}

	if want != 0 && expr.Contains(e.tree, want) {
		e.setSelection(want)
	} else {
		e.setSelection(nav.Repair(old, e.tree, e.sel))
	}
	e.prune()

	changed := e.tree != old
	if base != nil {
		changed = e.tree != base
		if changed {
			e.undo = append(e.undo, base)
			if len(e.undo) > maxHistory {
				e.undo = e.undo[1:]
			}
			e.redo = nil
		}
	}

	e.logger.Debug("edit", "editor", e.name, "action", action, "changed", changed, "tree", expr.Format(e.tree))
	observability.Editor().OnEdit(e.ctx, e.id.String(), string(action), changed)
	if changed && e.onChange != nil {
		e.onChange(e.name, e.tree)
	}
	return nil
}

// live installs next without touching history, for in-progress value edits.
func (e *Editor) live(next expr.Expr) error {
	res, err := e.compute(next)
	if err != nil {
		return err
	}
	e.tree, e.result = next, res
	return nil
}

// prune drops transient state that refers to nodes no longer in the tree.
func (e *Editor) prune() {
	ix := expr.NewIndex(e.tree)
	if !ix.Contains(e.hover) {
		e.hover = 0
	}
	if !ix.Contains(e.droppable) {
		e.droppable = 0
	}
	if !ix.Contains(e.popover) {
		e.popover = 0
	}
	if e.editing != nil && !ix.Contains(e.editing.Target) {
		e.editing = nil
	}
}

// remove deletes id. Deleting the root leaves a hinted blank.
func (e *Editor) remove(action Action, id expr.ID) error {
	return e.commit(action, expr.Delete(e.tree, id), 0)
}

// Undo restores the tree before the last edit.
func (e *Editor) Undo() (bool, error) {
	if len(e.undo) == 0 {
		return false, nil
	}
	prev := e.undo[len(e.undo)-1]
	cur := e.tree
	if err := e.swap(ActionUndo, prev, 0, nil); err != nil {
		return false, err
	}
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, cur)
	return true, nil
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() (bool, error) {
	if len(e.redo) == 0 {
		return false, nil
	}
	next := e.redo[len(e.redo)-1]
	cur := e.tree
	if err := e.swap(ActionRedo, next, 0, nil); err != nil {
		return false, err
	}
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, cur)
	return true, nil
}

// Replace swaps in a whole new tree, e.g. after loading from a store. It is
// recorded for undo like any edit.
func (e *Editor) Replace(tree expr.Expr) error {
	if tree == nil {
		tree = expr.NewBlank(expr.EmptyHint)
	}
	return e.commit(ActionLoad, tree, tree.Meta().ID)
}
