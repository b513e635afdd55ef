package editor

import (
	"slices"

	"github.com/matzehuels/kale/pkg/expr"
)

// HighlightKind selects the style of a highlight.
type HighlightKind int

const (
	HighlightHover HighlightKind = iota
	HighlightSelection
	HighlightContext
	HighlightDroppable
)

func (k HighlightKind) String() string {
	switch k {
	case HighlightHover:
		return "hover"
	case HighlightSelection:
		return "selection"
	case HighlightContext:
		return "context"
	default:
		return "droppable"
	}
}

// Highlight marks a node for the renderer.
type Highlight struct {
	ID   expr.ID
	Kind HighlightKind
}

// Highlights returns the highlights to draw, in drawing order. Containers
// come before the nodes they contain so inner highlights stay visible, and
// the droppable highlight always comes last.
func (e *Editor) Highlights() []Highlight {
	var hs []Highlight
	if e.hover != 0 {
		hs = append(hs, Highlight{e.hover, HighlightHover})
	}
	hs = append(hs, Highlight{e.sel, HighlightSelection})
	if e.popover != 0 {
		hs = append(hs, Highlight{e.popover, HighlightContext})
	}

	ix := expr.NewIndex(e.tree)
	hs = slices.DeleteFunc(hs, func(h Highlight) bool { return !ix.Contains(h.ID) })
	slices.SortStableFunc(hs, func(a, b Highlight) int {
		switch {
		case a.ID == b.ID:
			return 0
		case ix.IsAncestor(a.ID, b.ID):
			return -1
		case ix.IsAncestor(b.ID, a.ID):
			return 1
		}
		return 0
	})

	if e.droppable != 0 && ix.Contains(e.droppable) {
		hs = append(hs, Highlight{e.droppable, HighlightDroppable})
	}
	return hs
}
