// Package nav answers "what is left, right, up or down of this node" for
// keyboard-driven selection, and repairs a selection after an edit.
//
// Every [SelectFn] is pure. It returns false when there is nowhere to go, and
// it tolerates a current node missing from the area map by falling back to
// tree structure alone.
package nav

import (
	"math"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/layout"
)

// SelectFn computes the next selection from the current one.
type SelectFn func(root expr.Expr, cur expr.ID, areas layout.AreaMap) (expr.ID, bool)

// RightSmart moves to the next node in pre-order that neither contains nor is
// contained by cur. Nodes on the same visual line to the right win, nearest
// edge first; ties and nodes on other lines fall back to pre-order distance.
func RightSmart(root expr.Expr, cur expr.ID, areas layout.AreaMap) (expr.ID, bool) {
	return horizontal(root, cur, areas, 1)
}

// LeftSmart is the mirror image of [RightSmart].
func LeftSmart(root expr.Expr, cur expr.ID, areas layout.AreaMap) (expr.ID, bool) {
	return horizontal(root, cur, areas, -1)
}

// UpSmart moves to the node whose centre is strictly above cur's. Nodes
// spanning cur's horizontal centre come first; among those the nearest row
// wins, then the innermost node. Without such a node the horizontally
// nearest one is taken.
func UpSmart(root expr.Expr, cur expr.ID, areas layout.AreaMap) (expr.ID, bool) {
	return vertical(root, cur, areas, -1)
}

// DownSmart is the mirror image of [UpSmart].
func DownSmart(root expr.Expr, cur expr.ID, areas layout.AreaMap) (expr.ID, bool) {
	return vertical(root, cur, areas, 1)
}

// LeftSiblingSmart moves to the previous sibling without wrapping.
func LeftSiblingSmart(root expr.Expr, cur expr.ID, _ layout.AreaMap) (expr.ID, bool) {
	return siblingStep(root, cur, -1)
}

// RightSiblingSmart moves to the next sibling without wrapping.
func RightSiblingSmart(root expr.Expr, cur expr.ID, _ layout.AreaMap) (expr.ID, bool) {
	return siblingStep(root, cur, 1)
}

// Parent moves to the structural parent.
func Parent(root expr.Expr, cur expr.ID, _ layout.AreaMap) (expr.ID, bool) {
	p, ok := expr.ParentOf(root, cur)
	if !ok {
		return 0, false
	}
	return p.Meta().ID, true
}

// NextBlank moves to the next blank in pre-order, wrapping around. If cur is
// the only blank it is returned; without any blank there is no target.
func NextBlank(root expr.Expr, cur expr.ID, _ layout.AreaMap) (expr.ID, bool) {
	ix := expr.NewIndex(root)
	nodes := ix.Nodes()
	start := 0
	if pos, ok := ix.Order(cur); ok {
		start = pos + 1
	}
	for k := range nodes {
		n := nodes[(start+k)%len(nodes)]
		if _, ok := n.(*expr.Blank); ok {
			return n.Meta().ID, true
		}
	}
	return 0, false
}

func siblingStep(root expr.Expr, cur expr.ID, dir int) (expr.ID, bool) {
	sibs, i := expr.Siblings(root, cur)
	j := i + dir
	if i < 0 || j < 0 || j >= len(sibs) {
		return 0, false
	}
	return sibs[j].Meta().ID, true
}

type hCandidate struct {
	id       expr.ID
	sameLine bool
	gap      float64
	order    int
}

func (c hCandidate) better(o hCandidate) bool {
	if c.sameLine != o.sameLine {
		return c.sameLine
	}
	if c.sameLine && c.gap != o.gap {
		return c.gap < o.gap
	}
	return c.order < o.order
}

func horizontal(root expr.Expr, cur expr.ID, areas layout.AreaMap, dir int) (expr.ID, bool) {
	ix := expr.NewIndex(root)
	pos, ok := ix.Order(cur)
	if !ok {
		return 0, false
	}
	curRect, hasGeom := areas[cur]
	nodes := ix.Nodes()

	var best hCandidate
	found := false
	for j := pos + dir; j >= 0 && j < len(nodes); j += dir {
		n := nodes[j]
		id := n.Meta().ID
		if ix.Related(cur, id) {
			continue
		}
		c := hCandidate{id: id, order: (j - pos) * dir}
		if r, ok := areas[id]; hasGeom && ok && r.OverlapsY(curRect) {
			if dir > 0 && r.CenterX() > curRect.CenterX() {
				c.sameLine, c.gap = true, math.Max(0, r.Left()-curRect.Right())
			} else if dir < 0 && r.CenterX() < curRect.CenterX() {
				c.sameLine, c.gap = true, math.Max(0, curRect.Left()-r.Right())
			}
		}
		if !found || c.better(best) {
			best, found = c, true
		}
	}
	return best.id, found
}

type vCandidate struct {
	id    expr.ID
	gap   float64 // distance between facing edges, 0 if they overlap
	dx    float64 // distance from cur's centre to the candidate's extent
	dy    float64 // distance between centres
	width float64
	order int
}

func (c vCandidate) better(o vCandidate) bool {
	switch {
	case (c.dx == 0) != (o.dx == 0):
		return c.dx == 0
	case c.gap != o.gap:
		return c.gap < o.gap
	case c.dx != o.dx:
		return c.dx < o.dx
	case c.dy != o.dy:
		return c.dy < o.dy
	case c.width != o.width:
		return c.width < o.width
	}
	return c.order < o.order
}

func vertical(root expr.Expr, cur expr.ID, areas layout.AreaMap, dir int) (expr.ID, bool) {
	curRect, ok := areas[cur]
	if !ok {
		return siblingStep(root, cur, dir)
	}
	ix := expr.NewIndex(root)
	if !ix.Contains(cur) {
		return 0, false
	}
	cx, cy := curRect.CenterX(), curRect.CenterY()

	var best vCandidate
	found := false
	for order, n := range ix.Nodes() {
		id := n.Meta().ID
		r, ok := areas[id]
		if !ok || ix.Related(cur, id) {
			continue
		}
		dy := r.CenterY() - cy
		if float64(dir)*dy <= 0 {
			continue
		}
		gap := r.Top() - curRect.Bottom()
		if dir < 0 {
			gap = curRect.Top() - r.Bottom()
		}
		dx := 0.0
		switch {
		case cx < r.Left():
			dx = r.Left() - cx
		case cx > r.Right():
			dx = cx - r.Right()
		}
		c := vCandidate{id: id, gap: math.Max(0, gap), dx: dx, dy: math.Abs(dy), width: r.Width(), order: order}
		if !found || c.better(best) {
			best, found = c, true
		}
	}
	return best.id, found
}
