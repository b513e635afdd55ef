package layout

import (
	"sort"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
)

// AreaMap maps node identities to rectangles in root coordinates. It is
// derived from one layout pass and is stale after the next edit.
type AreaMap map[expr.ID]geom.Rect

func (m AreaMap) collect(a *Area) {
	m[a.ID] = a.Rect
	for _, c := range a.Children {
		m.collect(c)
	}
}

// Rect returns the rectangle of id.
func (m AreaMap) Rect(id expr.ID) (geom.Rect, bool) {
	r, ok := m[id]
	return r, ok
}

// Rect returns the rectangle of id.
func (r *Result) Rect(id expr.ID) (geom.Rect, bool) { return r.Areas.Rect(id) }

// HitTest returns the innermost node whose area contains p.
func (r *Result) HitTest(p geom.Vec) (expr.ID, bool) {
	if r.Root == nil || !r.Root.Rect.Contains(p) {
		return 0, false
	}
	a := r.Root
	for {
		var next *Area
		for _, c := range a.Children {
			if c.Rect.Contains(p) {
				next = c
			}
		}
		if next == nil {
			return a.ID, true
		}
		a = next
	}
}

// Walk visits every area, parents before children.
func (r *Result) Walk(fn func(a *Area, depth int)) {
	var rec func(a *Area, depth int)
	rec = func(a *Area, depth int) {
		fn(a, depth)
		for _, c := range a.Children {
			rec(c, depth+1)
		}
	}
	if r.Root != nil {
		rec(r.Root, 0)
	}
}

// AreaEntry is one row of [Result.Entries].
type AreaEntry struct {
	ID     expr.ID   `json:"id"`
	Rect   geom.Rect `json:"rect"`
	Inline bool      `json:"inline,omitempty"`
	Depth  int       `json:"depth"`
}

// Entries lists the area map in pre-order, suitable for serialization.
func (r *Result) Entries() []AreaEntry {
	var out []AreaEntry
	r.Walk(func(a *Area, depth int) {
		out = append(out, AreaEntry{ID: a.ID, Rect: a.Rect, Inline: a.Inline, Depth: depth})
	})
	return out
}

// SortedIDs returns the identities in the map in ascending order.
func (m AreaMap) SortedIDs() []expr.ID {
	ids := make([]expr.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
