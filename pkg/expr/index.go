package expr

import "github.com/matzehuels/kale/pkg/errors"

// Index caches parentage and pre-order positions for one root. It is built
// lazily on the first query and is only valid for the root it was created
// with; after an edit, build a new Index for the new root.
type Index struct {
	root    Expr
	built   bool
	entries map[ID]indexEntry
	order   []Expr
}

type indexEntry struct {
	node   Expr
	parent Expr // nil for the root
	pos    int  // position among the parent's children
	order  int  // pre-order position
	depth  int
}

// NewIndex returns an index over root. Nothing is computed until a query.
func NewIndex(root Expr) *Index {
	return &Index{root: root}
}

// Root returns the tree the index was built for.
func (ix *Index) Root() Expr { return ix.root }

func (ix *Index) build() {
	if ix.built {
		return
	}
	ix.built = true
	ix.entries = make(map[ID]indexEntry)
	var rec func(e, parent Expr, pos, depth int)
	rec = func(e, parent Expr, pos, depth int) {
		ix.entries[e.Meta().ID] = indexEntry{node: e, parent: parent, pos: pos, order: len(ix.order), depth: depth}
		ix.order = append(ix.order, e)
		for i, c := range Children(e) {
			rec(c, e, i, depth+1)
		}
	}
	rec(ix.root, nil, 0, 0)
}

// Len returns the number of nodes.
func (ix *Index) Len() int {
	ix.build()
	return len(ix.order)
}

// Nodes returns every node in pre-order. The slice must not be modified.
func (ix *Index) Nodes() []Expr {
	ix.build()
	return ix.order
}

// Find returns the node with the given identity.
func (ix *Index) Find(id ID) (Expr, bool) {
	ix.build()
	en, ok := ix.entries[id]
	return en.node, ok
}

// Get returns the node with the given identity or a NOT_FOUND error.
func (ix *Index) Get(id ID) (Expr, error) {
	if e, ok := ix.Find(id); ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "node %s not found", id)
}

// Contains reports whether id is in the tree.
func (ix *Index) Contains(id ID) bool {
	_, ok := ix.Find(id)
	return ok
}

// Order returns the pre-order position of id.
func (ix *Index) Order(id ID) (int, bool) {
	ix.build()
	en, ok := ix.entries[id]
	return en.order, ok
}

// Depth returns the nesting depth of id; the root has depth 0.
func (ix *Index) Depth(id ID) (int, bool) {
	ix.build()
	en, ok := ix.entries[id]
	return en.depth, ok
}

// ParentOf returns the parent of id.
func (ix *Index) ParentOf(id ID) (Expr, bool) {
	ix.build()
	en, ok := ix.entries[id]
	if !ok || en.parent == nil {
		return nil, false
	}
	return en.parent, true
}

// Parents returns the ancestors of id, nearest first.
func (ix *Index) Parents(id ID) []Expr {
	var out []Expr
	for p, ok := ix.ParentOf(id); ok; p, ok = ix.ParentOf(p.Meta().ID) {
		out = append(out, p)
	}
	return out
}

// Siblings returns the children of id's parent and the index of id.
func (ix *Index) Siblings(id ID) ([]Expr, int) {
	ix.build()
	en, ok := ix.entries[id]
	if !ok || en.parent == nil {
		return nil, -1
	}
	return Children(en.parent), en.pos
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (ix *Index) IsAncestor(anc, id ID) bool {
	for p, ok := ix.ParentOf(id); ok; p, ok = ix.ParentOf(p.Meta().ID) {
		if p.Meta().ID == anc {
			return true
		}
	}
	return false
}

// Related reports whether a and b are the same node or one contains the
// other.
func (ix *Index) Related(a, b ID) bool {
	return a == b || ix.IsAncestor(a, b) || ix.IsAncestor(b, a)
}
