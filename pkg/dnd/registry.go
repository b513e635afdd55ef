package dnd

import (
	"slices"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
)

// Effect is a drop target's answer to a drop.
type Effect int

const (
	Reject Effect = iota
	Copy
	Move
)

func (e Effect) String() string {
	switch e {
	case Copy:
		return "copy"
	case Move:
		return "move"
	default:
		return "reject"
	}
}

// Listener is a drop target, typically one per visible editor surface.
type Listener interface {
	// DragUpdate shows where the dragged node's corner would land. A nil
	// point clears any indicator.
	DragUpdate(p *geom.Vec)

	// AcceptDrop offers node at corner p. Returning Reject passes the node
	// on to the next listener.
	AcceptDrop(p geom.Vec, node expr.Expr) Effect
}

// Registry holds drop targets in registration order. Listeners must be
// comparable, which pointer receivers are. A Registry is not safe for
// concurrent use; it belongs to the event loop that owns its Controller.
type Registry struct {
	listeners []Listener
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends l. Adding a listener twice keeps its first position.
func (r *Registry) Add(l Listener) {
	if !slices.Contains(r.listeners, l) {
		r.listeners = append(r.listeners, l)
	}
}

// Remove drops l if present.
func (r *Registry) Remove(l Listener) {
	if i := slices.Index(r.listeners, l); i >= 0 {
		r.listeners = slices.Delete(r.listeners, i, i+1)
	}
}

// Len reports the number of registered listeners.
func (r *Registry) Len() int { return len(r.listeners) }

func (r *Registry) broadcast(p *geom.Vec) {
	for _, l := range slices.Clone(r.listeners) {
		l.DragUpdate(p)
	}
}

// offer polls listeners in order and stops at the first that does not reject.
func (r *Registry) offer(p geom.Vec, node expr.Expr) Effect {
	for _, l := range slices.Clone(r.listeners) {
		if e := l.AcceptDrop(p, node); e != Reject {
			return e
		}
	}
	return Reject
}
