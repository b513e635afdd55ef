package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/theme"
)

// Styles maps glyph roles and highlights to terminal styles.
type Styles struct {
	Roles      map[layout.Role]lipgloss.Style
	Disabled   lipgloss.Style
	Highlights map[editor.HighlightKind]lipgloss.Style
}

// DefaultStyles derives terminal styles from the theme colours.
func DefaultStyles(t *theme.Theme) Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	cs := t.Colours
	return Styles{
		Roles: map[layout.Role]lipgloss.Style{
			layout.RoleCall:       fg(cs.Call),
			layout.RoleVariable:   fg(cs.Variable),
			layout.RoleLiteral:    fg(cs.Literal),
			layout.RoleComment:    fg(cs.Comment),
			layout.RoleBlank:      fg(cs.BlankText).Background(lipgloss.Color(cs.BlankFill)),
			layout.RoleUnderline:  fg(cs.Underline),
			layout.RoleListRuler:  fg(cs.ListRuler),
			layout.RoleDecoration: fg(cs.Decoration),
		},
		Disabled: fg(cs.Disabled),
		Highlights: map[editor.HighlightKind]lipgloss.Style{
			editor.HighlightHover:     lipgloss.NewStyle().Underline(true),
			editor.HighlightSelection: lipgloss.NewStyle().Background(lipgloss.Color(cs.SelectionStroke)).Foreground(lipgloss.Color(cs.Background)),
			editor.HighlightContext:   lipgloss.NewStyle().Background(lipgloss.Color(cs.ContextStroke)),
			editor.HighlightDroppable: lipgloss.NewStyle().Background(lipgloss.Color(cs.DroppableStroke)).Foreground(lipgloss.Color(cs.Background)),
		},
	}
}

func (s Styles) style(g Glyph) lipgloss.Style {
	st := s.Roles[g.Role]
	if g.Disabled {
		st = s.Disabled
	}
	if g.Style.Bold {
		st = st.Bold(true)
	}
	if g.Style.Italic {
		st = st.Italic(true)
	}
	if g.Highlighted {
		if h, ok := s.Highlights[g.Highlight]; ok {
			if h.GetUnderline() {
				st = st.Underline(true)
			}
			if bg := h.GetBackground(); bg != (lipgloss.NoColor{}) {
				st = st.Background(bg)
			}
			if fg := h.GetForeground(); fg != (lipgloss.NoColor{}) {
				st = st.Foreground(fg)
			}
		}
	}
	return st
}

// Render draws the canvas with styles, one line per row. Runs of cells with
// the same look are styled together.
func (c *Canvas) Render(s Styles) string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var cur Glyph
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(s.style(cur).Render(run.String()))
				run.Reset()
			}
		}
		for j, g := range row {
			if g.cont {
				continue
			}
			if j == 0 || !sameLook(g, cur) {
				flush()
				cur = g
			}
			if g.Rune == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(g.Rune)
			}
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameLook(a, b Glyph) bool {
	return a.Role == b.Role && a.Style == b.Style && a.Disabled == b.Disabled &&
		a.Highlighted == b.Highlighted && a.Highlight == b.Highlight
}
