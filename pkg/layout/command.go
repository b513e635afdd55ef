package layout

import (
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/textmetrics"
)

// Role classifies a draw command so renderers can pick colours.
type Role int

const (
	RoleCall Role = iota
	RoleVariable
	RoleLiteral
	RoleComment
	RoleBlank
	RoleUnderline
	RoleListRuler
	RoleDecoration
)

var roleNames = [...]string{"call", "variable", "literal", "comment", "blank", "underline", "list-ruler", "decoration"}

// String implements fmt.Stringer.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Command is a single draw instruction in root coordinates.
type Command interface {
	// Owner is the node that produced the command.
	Owner() expr.ID
	// Bounds is the rectangle the command paints into.
	Bounds() geom.Rect
	// Translate returns the command moved by d.
	Translate(d geom.Vec) Command
}

// Text draws a string with its top-left corner at Pos.
type Text struct {
	ID          expr.ID
	Pos         geom.Vec
	Size        geom.Size
	Text        string
	Style       textmetrics.Style
	Role        Role
	Disabled    bool
	Title       string // tooltip, usually the node's comment
	CommentMark bool   // draw a superscript comment indicator
}

// Line draws a straight segment.
type Line struct {
	ID       expr.ID
	From, To geom.Vec
	Role     Role
	Disabled bool
}

// Pill draws the rounded background of a blank.
type Pill struct {
	ID     expr.ID
	Rect   geom.Rect
	Radius float64
}

// Circle draws the create-argument affordance after a call name.
type Circle struct {
	ID     expr.ID
	Center geom.Vec
	Radius float64
}

func (c Text) Owner() expr.ID   { return c.ID }
func (c Line) Owner() expr.ID   { return c.ID }
func (c Pill) Owner() expr.ID   { return c.ID }
func (c Circle) Owner() expr.ID { return c.ID }

func (c Text) Bounds() geom.Rect { return geom.Rect{Pos: c.Pos, Size: c.Size} }
func (c Pill) Bounds() geom.Rect { return c.Rect }

func (c Line) Bounds() geom.Rect {
	return geom.Rect{Pos: c.From}.Union(geom.Rect{Pos: c.To})
}

func (c Circle) Bounds() geom.Rect {
	return geom.R(c.Center.X-c.Radius, c.Center.Y-c.Radius, 2*c.Radius, 2*c.Radius)
}

func (c Text) Translate(d geom.Vec) Command {
	c.Pos = c.Pos.Add(d)
	return c
}

func (c Line) Translate(d geom.Vec) Command {
	c.From, c.To = c.From.Add(d), c.To.Add(d)
	return c
}

func (c Pill) Translate(d geom.Vec) Command {
	c.Rect = c.Rect.Translate(d)
	return c
}

func (c Circle) Translate(d geom.Vec) Command {
	c.Center = c.Center.Add(d)
	return c
}
