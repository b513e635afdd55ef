package editor

import (
	"github.com/matzehuels/kale/pkg/dnd"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
)

// DropMode is how a dropped node joins the tree.
type DropMode int

const (
	// DropReplace replaces a blank.
	DropReplace DropMode = iota
	// DropChild inserts as the first child of a call or list.
	DropChild
	// DropSibling inserts after a leaf.
	DropSibling
)

func (m DropMode) String() string {
	switch m {
	case DropReplace:
		return "replace"
	case DropChild:
		return "child"
	default:
		return "sibling"
	}
}

// dropTarget finds the node under corner p (drag coordinates) that would
// take node. Drops into the dragged node itself are refused.
func (e *Editor) dropTarget(p geom.Vec, node expr.Expr) (expr.ID, DropMode, bool) {
	if e.frozen {
		return 0, 0, false
	}
	at, ok := e.result.HitTest(p.Sub(e.origin))
	if !ok {
		return 0, 0, false
	}
	if node != nil && expr.Contains(node, at) {
		return 0, 0, false
	}
	target, _ := expr.Find(e.tree, at)
	switch target.(type) {
	case *expr.Blank:
		return at, DropReplace, true
	case *expr.Call, *expr.List:
		return at, DropChild, true
	default:
		return at, DropSibling, true
	}
}

// DragUpdate shows which node would take a drop at p. The dragged node's own
// subtree is never highlighted.
func (e *Editor) DragUpdate(p *geom.Vec) {
	e.droppable = 0
	if p == nil {
		return
	}
	if at, _, ok := e.dropTarget(*p, e.dragged()); ok {
		e.droppable = at
	}
}

// dragged is the node of the drag in progress on the editor's controller.
func (e *Editor) dragged() expr.Expr {
	if e.drag == nil {
		return nil
	}
	if pv, ok := e.drag.Preview(); ok {
		return pv.Node
	}
	return nil
}

// AcceptDrop inserts a copy of node, with fresh identities, at the target
// under p and selects it. The source removes the original if this returns
// Move and the gesture was a move.
func (e *Editor) AcceptDrop(p geom.Vec, node expr.Expr) dnd.Effect {
	at, mode, ok := e.dropTarget(p, node)
	if !ok {
		return dnd.Reject
	}
	x := expr.ResetIDs(node)
	var next expr.Expr
	want := x.Meta().ID
	switch mode {
	case DropReplace:
		next, want = expr.ReplaceFresh(e.tree, at, x), at
	case DropChild:
		next = expr.InsertChild(e.tree, at, x, false)
	default:
		next = expr.InsertSibling(e.tree, at, x, true)
	}
	if err := e.commit(ActionDrop, next, want); err != nil {
		return dnd.Reject
	}
	e.droppable = 0
	return dnd.Move
}

// StartDrag records a press at pointer (drag coordinates) on node id. It
// reports false without a drag controller or for unknown nodes.
func (e *Editor) StartDrag(id expr.ID, pointer geom.Vec) bool {
	if e.drag == nil {
		return false
	}
	node, ok := expr.Find(e.tree, id)
	if !ok {
		return false
	}
	rect, ok := e.result.Rect(id)
	if !ok {
		return false
	}
	src := dnd.Source{
		Node:   node,
		Start:  pointer,
		Corner: e.origin.Add(rect.Pos),
	}
	if !e.frozen {
		src.OnAccepted = func() { _ = e.remove(ActionDragOut, id) }
	}
	e.drag.Press(src)
	return true
}

var _ dnd.Listener = (*Editor)(nil)
