package expr

import (
	"iter"

	"github.com/matzehuels/kale/pkg/errors"
)

// PreOrder yields every node of the tree rooted at root, parents before
// children and children left to right.
func PreOrder(root Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		walk(root, yield)
	}
}

func walk(e Expr, yield func(Expr) bool) bool {
	if !yield(e) {
		return false
	}
	for _, c := range Children(e) {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// IDs returns the identities of every node in pre-order.
func IDs(root Expr) []ID {
	var ids []ID
	for e := range PreOrder(root) {
		ids = append(ids, e.Meta().ID)
	}
	return ids
}

// Find is the non-failing lookup: it returns the node with the given
// identity and whether it was present.
func Find(root Expr, id ID) (Expr, bool) {
	for e := range PreOrder(root) {
		if e.Meta().ID == id {
			return e, true
		}
	}
	return nil, false
}

// Get returns the node with the given identity or a NOT_FOUND error.
func Get(root Expr, id ID) (Expr, error) {
	if e, ok := Find(root, id); ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "node %s not found", id)
}

// Contains reports whether a node with the given identity is in the tree.
func Contains(root Expr, id ID) bool {
	_, ok := Find(root, id)
	return ok
}

// path returns the chain of nodes from root down to id, inclusive, or nil
// when id is absent.
func path(root Expr, id ID) []Expr {
	var out []Expr
	var rec func(e Expr) bool
	rec = func(e Expr) bool {
		out = append(out, e)
		if e.Meta().ID == id {
			return true
		}
		for _, c := range Children(e) {
			if rec(c) {
				return true
			}
		}
		out = out[:len(out)-1]
		return false
	}
	if rec(root) {
		return out
	}
	return nil
}

// ParentOf returns the structural parent of id. The root and absent
// identities have no parent.
func ParentOf(root Expr, id ID) (Expr, bool) {
	p := path(root, id)
	if len(p) < 2 {
		return nil, false
	}
	return p[len(p)-2], true
}

// Parents returns the ancestors of id, nearest first and the root last.
func Parents(root Expr, id ID) []Expr {
	p := path(root, id)
	if len(p) < 2 {
		return nil
	}
	out := make([]Expr, 0, len(p)-1)
	for i := len(p) - 2; i >= 0; i-- {
		out = append(out, p[i])
	}
	return out
}

// Siblings returns the children of id's parent and the index of id among
// them. The root and absent identities yield (nil, -1).
func Siblings(root Expr, id ID) ([]Expr, int) {
	parent, ok := ParentOf(root, id)
	if !ok {
		return nil, -1
	}
	kids := Children(parent)
	for i, c := range kids {
		if c.Meta().ID == id {
			return kids, i
		}
	}
	return nil, -1
}

// EmptyHint labels the blank that replaces a deleted root.
const EmptyHint = "empty"

// Update returns a new tree in which the subtree rooted at id is replaced by
// f(subtree). When f returns nil the node is deleted: a list left without
// items collapses into a bare [Blank] that keeps the list's identity, while a
// call may keep zero arguments. Deleting the root yields a fresh blank hinted
// [EmptyHint]. If id is not in the tree, root is returned unchanged and f is
// not called.
func Update(root Expr, id ID, f func(Expr) Expr) Expr {
	next, changed := update(root, id, f)
	if !changed {
		return root
	}
	if next == nil {
		next = NewBlank(EmptyHint)
	}
	if debugChecks {
		MustValidate(next)
	}
	return next
}

func update(e Expr, id ID, f func(Expr) Expr) (Expr, bool) {
	if e.Meta().ID == id {
		return f(e), true
	}
	kids := Children(e)
	for i, c := range kids {
		next, ok := update(c, id, f)
		if !ok {
			continue
		}
		items := make([]Expr, 0, len(kids))
		items = append(items, kids[:i]...)
		if next != nil {
			items = append(items, next)
		}
		items = append(items, kids[i+1:]...)
		return rebuild(e, items), true
	}
	return e, false
}

func rebuild(e Expr, items []Expr) Expr {
	switch e := e.(type) {
	case *List:
		items = flatten(items)
		if len(items) == 0 {
			return &Blank{Data: Data{ID: e.ID}}
		}
		c := *e
		c.Items = items
		return &c
	case *Call:
		c := *e
		c.Args = items
		return &c
	}
	return e
}

// Replace returns a new tree with the node id replaced by n.
func Replace(root Expr, id ID, n Expr) Expr {
	return Update(root, id, func(Expr) Expr { return n })
}

// ResetIDs returns a copy of e in which every node has a fresh identity.
// Comments and disabled flags are kept.
func ResetIDs(e Expr) Expr {
	d := e.Meta()
	d.ID = NewID()
	c := e.withData(d)
	if !IsContainer(c) {
		return c
	}
	return UpdateChildren(c, func(xs []Expr) []Expr {
		for i, x := range xs {
			xs[i] = ResetIDs(x)
		}
		return xs
	})
}

// ReplaceID returns a copy of e whose descendants have fresh identities and
// whose root takes the given identity. Substituting a different node while
// keeping the old identity lets the selection follow the edit.
func ReplaceID(e Expr, id ID) Expr {
	c := ResetIDs(e)
	d := c.Meta()
	d.ID = id
	return c.withData(d)
}

// Equal reports whether two trees have the same shape, values, metadata and
// identities.
func Equal(a, b Expr) bool {
	if a.Meta() != b.Meta() {
		return false
	}
	switch a := a.(type) {
	case *List:
		b, ok := b.(*List)
		return ok && equalSlices(a.Items, b.Items)
	case *Call:
		b, ok := b.(*Call)
		return ok && a.Fn == b.Fn && equalSlices(a.Args, b.Args)
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Kind == b.Kind && a.Content == b.Content
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *Blank:
		_, ok := b.(*Blank)
		return ok
	}
	return false
}

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
