// Package geom provides the small set of 2-D primitives shared by layout,
// navigation and drag-and-drop: points and offsets ([Vec]), extents ([Size]),
// axis-aligned rectangles ([Rect]) and four-sided insets ([Padding]).
//
// Coordinates follow screen conventions: x grows to the right and y grows
// downward. All values are plain float64 structs and every operation returns
// a new value.
package geom

import "math"

// Vec is a point or an offset.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec          { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec          { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec    { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64           { return math.Hypot(v.X, v.Y) }
func (v Vec) Distance(o Vec) float64 { return v.Sub(o).Len() }

// Size is a width and height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h float64) Size { return Size{W: w, H: h} }

// Vec converts the size into an offset.
func (s Size) Vec() Vec { return Vec{s.W, s.H} }

// Pad grows the size by the padding on every side.
func (s Size) Pad(p Padding) Size {
	return Size{s.W + p.Left + p.Right, s.H + p.Top + p.Bottom}
}

// Max returns the component-wise maximum of two sizes.
func (s Size) Max(o Size) Size {
	return Size{math.Max(s.W, o.W), math.Max(s.H, o.H)}
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Pos  Vec  `json:"pos"`
	Size Size `json:"size"`
}

// R builds a rectangle from its top-left corner and size.
func R(x, y, w, h float64) Rect { return Rect{Pos: Vec{x, y}, Size: Size{w, h}} }

// FromSize is a rectangle with the given size at the origin.
func FromSize(s Size) Rect { return Rect{Size: s} }

func (r Rect) Left() float64    { return r.Pos.X }
func (r Rect) Top() float64     { return r.Pos.Y }
func (r Rect) Right() float64   { return r.Pos.X + r.Size.W }
func (r Rect) Bottom() float64  { return r.Pos.Y + r.Size.H }
func (r Rect) Width() float64   { return r.Size.W }
func (r Rect) Height() float64  { return r.Size.H }
func (r Rect) CenterX() float64 { return r.Pos.X + r.Size.W/2 }
func (r Rect) CenterY() float64 { return r.Pos.Y + r.Size.H/2 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec { return Vec{r.CenterX(), r.CenterY()} }

// BottomRight returns the corner opposite to Pos.
func (r Rect) BottomRight() Vec { return r.Pos.Add(r.Size.Vec()) }

// Translate moves the rectangle by an offset.
func (r Rect) Translate(d Vec) Rect { return Rect{r.Pos.Add(d), r.Size} }

// WithSize returns the rectangle with its size replaced.
func (r Rect) WithSize(s Size) Rect { return Rect{r.Pos, s} }

// Pad grows the rectangle outward by p, keeping its content in place.
func (r Rect) Pad(p Padding) Rect {
	return Rect{Vec{r.Pos.X - p.Left, r.Pos.Y - p.Top}, r.Size.Pad(p)}
}

// Contains reports whether the point lies inside the rectangle. The top and
// left edges are inclusive, the bottom and right edges exclusive, so adjacent
// rectangles never both contain a point.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.Left(), o.Left())
	top := math.Min(r.Top(), o.Top())
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return R(left, top, right-left, bottom-top)
}

// OverlapsY reports whether the vertical extents of r and o intersect.
func (r Rect) OverlapsY(o Rect) bool {
	return r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// OverlapsX reports whether the horizontal extents of r and o intersect.
func (r Rect) OverlapsX(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right()
}

// Padding is an inset for each side of a box.
type Padding struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Pad builds a padding CSS-style: one value for every side, two values for
// (vertical, horizontal), four values for (top, right, bottom, left).
func Pad(v ...float64) Padding {
	switch len(v) {
	case 1:
		return Padding{v[0], v[0], v[0], v[0]}
	case 2:
		return Padding{v[0], v[1], v[0], v[1]}
	case 4:
		return Padding{v[0], v[1], v[2], v[3]}
	}
	return Padding{}
}

// TopLeft is the offset from the padded box's corner to its content.
func (p Padding) TopLeft() Vec { return Vec{p.Left, p.Top} }

// Combined is the total horizontal and vertical padding.
func (p Padding) Combined() Size { return Size{p.Left + p.Right, p.Top + p.Bottom} }
