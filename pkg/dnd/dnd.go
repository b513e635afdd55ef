// Package dnd implements the drag-and-drop gesture shared by editor surfaces.
//
// A gesture moves through three states. Idle has no gesture. PendingDrag has
// a pointer press on a node but no motion beyond the threshold, so it may
// still turn out to be a click. Dragging tracks the pointer, shows a preview
// and broadcasts the would-be drop point to every registered [Listener].
//
// On release the listeners are polled in registration order and the first
// one that does not reject takes the node. The surface the node came from is
// told to remove it only after a listener accepted a move, so a drop that
// nobody takes never loses the node.
package dnd

import (
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/observability"
)

// DefaultThreshold is the pointer travel, in pixels, that turns a press into
// a drag.
const DefaultThreshold = 4

// State is the phase of the current gesture.
type State int

const (
	Idle State = iota
	PendingDrag
	Dragging
)

func (s State) String() string {
	switch s {
	case PendingDrag:
		return "pending"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Source describes a press that may become a drag.
type Source struct {
	Node   expr.Expr
	Start  geom.Vec // pointer position at press
	Corner geom.Vec // top-left corner of the node's area, same coordinates

	// OnUpdate reports whether a drop would move (true) or copy the node.
	OnUpdate func(willMove bool)
	// OnAccepted runs when a listener accepted a move.
	OnAccepted func()
	// OnEnd runs when a started drag concludes, accepted or not.
	OnEnd func()
}

// Preview is what a host draws while dragging.
type Preview struct {
	Node     expr.Expr
	Corner   geom.Vec
	WillMove bool
}

// Controller runs the gesture state machine. Feed it pointer events from a
// single event loop.
type Controller struct {
	registry  *Registry
	threshold float64

	state    State
	src      Source
	delta    geom.Vec
	pos      geom.Vec
	modifier bool
	willMove bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold sets the drag threshold. Non-positive values are ignored.
func WithThreshold(px float64) Option {
	return func(c *Controller) {
		if px > 0 {
			c.threshold = px
		}
	}
}

// NewController returns an idle controller delivering drops to reg.
func NewController(reg *Registry, opts ...Option) *Controller {
	if reg == nil {
		reg = NewRegistry()
	}
	c := &Controller{registry: reg, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the listeners this controller delivers to.
func (c *Controller) Registry() *Registry { return c.registry }

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// WillMove reports whether a drop right now would move rather than copy.
func (c *Controller) WillMove() bool { return c.willMove }

// Preview returns the dragged node and where to draw it. ok is false unless
// dragging.
func (c *Controller) Preview() (Preview, bool) {
	if c.state != Dragging {
		return Preview{}, false
	}
	return Preview{Node: c.src.Node, Corner: c.corner(), WillMove: c.willMove}, true
}

// Press records a possible drag. Any gesture in progress is cancelled first.
func (c *Controller) Press(src Source) {
	if c.state != Idle {
		c.Cancel()
	}
	c.src = src
	c.pos = src.Start
	c.state = PendingDrag
}

// Move handles pointer motion. primary reports whether the primary button is
// still held; if it is not, the gesture is cancelled.
func (c *Controller) Move(p geom.Vec, primary bool) {
	if c.state == Idle {
		return
	}
	if !primary {
		c.Cancel()
		return
	}
	switch c.state {
	case PendingDrag:
		if c.src.Start.Distance(p) <= c.threshold {
			return
		}
		c.delta = c.src.Corner.Sub(p)
		c.pos = p
		c.state = Dragging
		c.setWillMove(!c.modifier)
		observability.Drag().OnDragStart(c.src.Node.Meta().ID.String())
	case Dragging:
		c.pos = p
		corner := c.corner()
		c.registry.broadcast(&corner)
	}
}

// SetModifier records whether the copy modifier is held. Holding it turns a
// move into a copy without changing the pointer path.
func (c *Controller) SetModifier(held bool) {
	c.modifier = held
	if c.state == Dragging {
		c.setWillMove(!held)
	}
}

// Release ends the gesture at the last pointer position. A pending press is
// simply forgotten. A drag is offered to the listeners and the winning
// effect returned.
func (c *Controller) Release() Effect {
	if c.state != Dragging {
		c.reset()
		return Reject
	}
	src, willMove := c.src, c.willMove
	effect := c.registry.offer(c.corner(), src.Node)
	if effect == Move && willMove && src.OnAccepted != nil {
		src.OnAccepted()
	}
	observability.Drag().OnDrop(src.Node.Meta().ID.String(), effect.String())
	c.finish(src)
	return effect
}

// Cancel abandons the gesture without offering the node to anyone.
func (c *Controller) Cancel() {
	if c.state != Dragging {
		c.reset()
		return
	}
	src := c.src
	observability.Drag().OnDragCancel(src.Node.Meta().ID.String())
	c.finish(src)
}

func (c *Controller) finish(src Source) {
	if src.OnEnd != nil {
		src.OnEnd()
	}
	c.reset()
	c.registry.broadcast(nil)
}

func (c *Controller) setWillMove(v bool) {
	c.willMove = v
	if c.src.OnUpdate != nil {
		c.src.OnUpdate(v)
	}
}

func (c *Controller) corner() geom.Vec { return c.pos.Add(c.delta) }

func (c *Controller) reset() {
	c.state = Idle
	c.src = Source{}
	c.delta = geom.Vec{}
	c.willMove = false
}
