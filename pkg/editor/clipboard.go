package editor

import (
	"sync"

	"github.com/matzehuels/kale/pkg/expr"
)

// DefaultClipboardSize matches the ten paste keys.
const DefaultClipboardSize = 10

// Clipboard is a most-recent-first ring of copied subtrees shared by
// editors. It is safe for concurrent use.
type Clipboard struct {
	mu    sync.Mutex
	items []expr.Expr
	max   int
}

// NewClipboard returns a clipboard holding at most max entries.
func NewClipboard(max int) *Clipboard {
	if max <= 0 {
		max = DefaultClipboardSize
	}
	return &Clipboard{max: max}
}

// Add puts x at the front, evicting the oldest entry when full.
func (c *Clipboard) Add(x expr.Expr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]expr.Expr{x}, c.items...)
	if len(c.items) > c.max {
		c.items = c.items[:c.max]
	}
}

// Use returns entry i and moves it to the front.
func (c *Clipboard) Use(i int) (expr.Expr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	x := c.items[i]
	copy(c.items[1:i+1], c.items[:i])
	c.items[0] = x
	return x, true
}

// Items returns the entries, most recent first.
func (c *Clipboard) Items() []expr.Expr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]expr.Expr(nil), c.items...)
}

// Len returns the number of entries.
func (c *Clipboard) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
