package layout

import (
	"math"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
)

// Underline is a pending decoration under an inline call's arguments.
// Offset and Length are horizontal; the vertical position is only known
// once the enclosing layout is materialized.
type Underline struct {
	Offset float64
	Length float64
	Level  int
}

// Area is the hit box of one node. Children are the areas of the node's
// descendants that were laid out inside it.
type Area struct {
	ID       expr.ID
	Rect     geom.Rect
	Inline   bool
	Children []*Area
}

// Pending is a layout whose underlines have not been placed yet.
type Pending struct {
	Size       geom.Size
	Commands   []Command
	Areas      []*Area
	Underlines []Underline
	Inline     bool
}

// Final is a layout with every decoration turned into draw commands.
type Final struct {
	Size     geom.Size
	Commands []Command
	Areas    []*Area
	Inline   bool
}

// Pending converts a final layout back into a pending one without
// underlines, so it can be stacked again.
func (f Final) Pending() Pending {
	return Pending{Size: f.Size, Commands: f.Commands, Areas: f.Areas, Inline: f.Inline}
}

// MaxLevel returns the deepest underline level, or 0 without underlines.
func (p Pending) MaxLevel() int {
	level := 0
	for _, u := range p.Underlines {
		level = max(level, u.Level)
	}
	return level
}

// Materialize places the pending underlines of p below its content, each
// level gap pixels further down, grows the height to include them and sets
// the height of every inline area to the new height.
func Materialize(p Pending, gap float64) Final {
	f := Final{
		Size:     p.Size,
		Commands: append([]Command(nil), p.Commands...),
		Areas:    cloneAreas(p.Areas),
		Inline:   p.Inline,
	}
	for _, u := range p.Underlines {
		y := p.Size.H + float64(u.Level)*gap
		f.Commands = append(f.Commands, Line{
			From: geom.V(u.Offset, y),
			To:   geom.V(u.Offset+u.Length, y),
			Role: RoleUnderline,
		})
	}
	f.Size.H += float64(p.MaxLevel()) * gap
	setInlineHeight(f.Areas, f.Size.H)
	return f
}

func setInlineHeight(areas []*Area, h float64) {
	for _, a := range areas {
		if !a.Inline {
			continue
		}
		a.Rect.Size.H = h
		setInlineHeight(a.Children, h)
	}
}

func cloneAreas(areas []*Area) []*Area {
	if areas == nil {
		return nil
	}
	out := make([]*Area, len(areas))
	for i, a := range areas {
		c := *a
		c.Children = cloneAreas(a.Children)
		out[i] = &c
	}
	return out
}

func translateAreas(areas []*Area, d geom.Vec) []*Area {
	out := make([]*Area, len(areas))
	for i, a := range areas {
		c := *a
		c.Rect = a.Rect.Translate(d)
		c.Children = translateAreas(a.Children, d)
		out[i] = &c
	}
	return out
}

// translate moves every command, area and underline of p by d.
func translate(p Pending, d geom.Vec) Pending {
	if d == (geom.Vec{}) {
		return p
	}
	out := Pending{Size: p.Size, Inline: p.Inline}
	out.Commands = make([]Command, len(p.Commands))
	for i, c := range p.Commands {
		out.Commands[i] = c.Translate(d)
	}
	out.Areas = translateAreas(p.Areas, d)
	out.Underlines = make([]Underline, len(p.Underlines))
	for i, u := range p.Underlines {
		u.Offset += d.X
		out.Underlines[i] = u
	}
	return out
}

// hstack places layouts left to right with gap between them, top aligned.
func hstack(gap float64, items ...Pending) Pending {
	if len(items) == 1 {
		return items[0]
	}
	var out Pending
	x := 0.0
	for i, it := range items {
		if i > 0 {
			x += gap
		}
		moved := translate(it, geom.V(x, 0))
		out.Commands = append(out.Commands, moved.Commands...)
		out.Areas = append(out.Areas, moved.Areas...)
		out.Underlines = append(out.Underlines, moved.Underlines...)
		x += it.Size.W
		out.Size.H = math.Max(out.Size.H, it.Size.H)
	}
	out.Size.W = x
	return out
}

// vstack places layouts top to bottom with gap between them, left aligned.
func vstack(gap float64, items ...Pending) Pending {
	if len(items) == 1 {
		return items[0]
	}
	var out Pending
	y := 0.0
	for i, it := range items {
		if i > 0 {
			y += gap
		}
		moved := translate(it, geom.V(0, y))
		out.Commands = append(out.Commands, moved.Commands...)
		out.Areas = append(out.Areas, moved.Areas...)
		out.Underlines = append(out.Underlines, moved.Underlines...)
		y += it.Size.H
		out.Size.W = math.Max(out.Size.W, it.Size.W)
	}
	out.Size.H = y
	return out
}
