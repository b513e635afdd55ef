// Package term rasterizes a layout into terminal cells.
//
// The layout must have been computed with a [textmetrics.Mono] measurer whose
// cell matches the one given to [Rasterize]; every text command then starts
// on a cell boundary. [Theme] returns layout parameters tuned so that lines,
// underlines and call affordances land on distinct rows and columns.
//
//	t := term.Theme()
//	res, _ := layout.Compute(tree, layout.Context{Theme: t, Measurer: textmetrics.NewMono(term.Cell)})
//	c := term.Rasterize(res, term.Cell)
//	c.Highlight(rect, editor.HighlightSelection)
//	fmt.Println(c.Render(term.DefaultStyles(t)))
package term

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

// Cell is the pixel size the terminal theme assumes for one character.
var Cell = textmetrics.DefaultCell

const (
	runeUnderline = '─'
	runeRuler     = '│'
	runeCircle    = '∘'
	runeComment   = '*'
)

// Theme returns the default theme adjusted for terminal cells: two cells of
// line spacing, one cell for the create-circle and one cell of blank padding.
func Theme() *theme.Theme {
	t := theme.Default()
	t.FontSize = Cell.H
	t.Layout.LineSpacing = 2 * Cell.W
	t.CreateCircle.MaxRadius = Cell.W
	t.Blank.Padding = geom.Pad(0, Cell.W)
	return t
}

// Glyph is one terminal cell.
type Glyph struct {
	Rune     rune
	Role     layout.Role
	Style    textmetrics.Style
	Disabled bool
	// Highlight is the last highlight covering the cell, if Highlighted.
	Highlight   editor.HighlightKind
	Highlighted bool
	// cont marks the second column of a wide rune.
	cont bool
}

// Canvas is a grid of glyphs.
type Canvas struct {
	cell  geom.Size
	cols  int
	rows  int
	cells [][]Glyph
}

// NewCanvas returns an empty canvas of cols by rows cells.
func NewCanvas(cols, rows int, cell geom.Size) *Canvas {
	c := &Canvas{cell: cell, cols: cols, rows: rows, cells: make([][]Glyph, rows)}
	for i := range c.cells {
		c.cells[i] = make([]Glyph, cols)
	}
	return c
}

// Rasterize draws the commands of res. Text wins over lines and decorations
// drawn in the same cell.
func Rasterize(res *layout.Result, cell geom.Size) *Canvas {
	cols := int(math.Ceil(res.Size.W / cell.W))
	rows := int(math.Ceil(res.Size.H / cell.H))
	c := NewCanvas(cols, rows, cell)

	for _, cmd := range res.Commands {
		if p, ok := cmd.(layout.Pill); ok {
			c.fill(p.Rect, Glyph{Rune: ' ', Role: layout.RoleBlank})
		}
	}
	for _, cmd := range res.Commands {
		switch cmd := cmd.(type) {
		case layout.Line:
			c.line(cmd)
		case layout.Circle:
			col, row := c.pos(cmd.Center)
			c.setIfEmpty(col, row, Glyph{Rune: runeCircle, Role: layout.RoleDecoration})
		}
	}
	for _, cmd := range res.Commands {
		if t, ok := cmd.(layout.Text); ok {
			c.text(t)
		}
	}
	return c
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// At returns the glyph at col, row. Cells outside the canvas are empty.
func (c *Canvas) At(col, row int) Glyph {
	if !c.inside(col, row) {
		return Glyph{}
	}
	return c.cells[row][col]
}

// Highlight marks every cell touched by r, given in layout coordinates.
func (c *Canvas) Highlight(r geom.Rect, kind editor.HighlightKind) {
	c0, r0 := c.pos(r.Pos)
	c1 := int(math.Ceil(r.Right()/c.cell.W)) - 1
	r1 := int(math.Ceil(r.Bottom()/c.cell.H)) - 1
	for row := max(r0, 0); row <= min(r1, c.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, c.cols-1); col++ {
			c.cells[row][col].Highlight = kind
			c.cells[row][col].Highlighted = true
		}
	}
}

// Lines returns the canvas as plain text without trailing spaces.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for i, row := range c.cells {
		var b strings.Builder
		for _, g := range row {
			if g.cont {
				continue
			}
			if g.Rune == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(g.Rune)
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

// String joins [Canvas.Lines] with newlines.
func (c *Canvas) String() string { return strings.Join(c.Lines(), "\n") }

func (c *Canvas) pos(p geom.Vec) (col, row int) {
	return int(math.Floor(p.X / c.cell.W)), int(math.Floor(p.Y / c.cell.H))
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *Canvas) setIfEmpty(col, row int, g Glyph) {
	if c.inside(col, row) && c.cells[row][col].Rune == 0 {
		c.cells[row][col] = g
	}
}

func (c *Canvas) fill(r geom.Rect, g Glyph) {
	c0, r0 := c.pos(r.Pos)
	c1 := int(math.Ceil(r.Right()/c.cell.W)) - 1
	r1 := int(math.Ceil(r.Bottom()/c.cell.H)) - 1
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if c.inside(col, row) {
				c.cells[row][col] = g
			}
		}
	}
}

func (c *Canvas) line(l layout.Line) {
	g := Glyph{Role: l.Role, Disabled: l.Disabled}
	if l.From.Y == l.To.Y {
		g.Rune = runeUnderline
		c0, row := c.pos(l.From)
		c1 := int(math.Ceil(l.To.X/c.cell.W)) - 1
		for col := c0; col <= c1; col++ {
			c.setIfEmpty(col, row, g)
		}
		return
	}
	g.Rune = runeRuler
	col, r0 := c.pos(l.From)
	r1 := int(math.Ceil(l.To.Y/c.cell.H)) - 1
	for row := r0; row <= r1; row++ {
		c.setIfEmpty(col, row, g)
	}
}

func (c *Canvas) text(t layout.Text) {
	col, row := c.pos(t.Pos)
	if !c.inside(0, row) {
		return
	}
	for _, r := range t.Text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if r == '\u00a0' {
			r = ' '
		}
		if c.inside(col, row) {
			c.cells[row][col] = Glyph{Rune: r, Role: t.Role, Style: t.Style, Disabled: t.Disabled}
		}
		for i := 1; i < w; i++ {
			if c.inside(col+i, row) {
				c.cells[row][col+i] = Glyph{Role: t.Role, cont: true}
			}
		}
		col += w
	}
	if t.CommentMark {
		c.setIfEmpty(col, row, Glyph{Rune: runeComment, Role: layout.RoleComment})
	}
}
