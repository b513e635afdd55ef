package expr

import "fmt"

// Visitor handles each node variant. Implementations must cover every
// variant; [Visit] panics on an unknown one.
type Visitor[R any] interface {
	VisitList(*List) R
	VisitCall(*Call) R
	VisitLiteral(*Literal) R
	VisitVariable(*Variable) R
	VisitBlank(*Blank) R
}

// Visit dispatches e to the matching method of v.
func Visit[R any](e Expr, v Visitor[R]) R {
	switch e := e.(type) {
	case *List:
		return v.VisitList(e)
	case *Call:
		return v.VisitCall(e)
	case *Literal:
		return v.VisitLiteral(e)
	case *Variable:
		return v.VisitVariable(e)
	case *Blank:
		return v.VisitBlank(e)
	}
	panic(fmt.Sprintf("expr: unknown node type %T", e))
}

// Children returns the ordered child nodes of e. Leaves have none.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *List:
		return e.Items
	case *Call:
		return e.Args
	}
	return nil
}

// IsContainer reports whether e can hold children (a [List] or [Call]).
func IsContainer(e Expr) bool {
	switch e.(type) {
	case *List, *Call:
		return true
	}
	return false
}

// HasChildren reports whether e currently has at least one child.
func HasChildren(e Expr) bool { return len(Children(e)) > 0 }

// UpdateChildren returns a copy of a container with its children replaced by
// f(children). Lists splice metadata-free nested lists. Leaves are returned
// unchanged and f is not called.
func UpdateChildren(e Expr, f func([]Expr) []Expr) Expr {
	switch e := e.(type) {
	case *List:
		c := *e
		c.Items = flatten(f(cloneSlice(e.Items)))
		return &c
	case *Call:
		c := *e
		c.Args = f(cloneSlice(e.Args))
		return &c
	}
	return e
}

// DataPatch is a partial [Data] update. Nil fields are left untouched. The
// identity is never patched.
type DataPatch struct {
	Comment  *string
	Disabled *bool
}

// AssignToData merges metadata into a copy of e without touching children.
func AssignToData(e Expr, p DataPatch) Expr {
	d := e.Meta()
	if p.Comment != nil {
		d.Comment = *p.Comment
	}
	if p.Disabled != nil {
		d.Disabled = *p.Disabled
	}
	return e.withData(d)
}

// Value is the editable text of a node: a literal's content, a variable's
// name or a call's function name. Blanks and lists have no value.
func Value(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Literal:
		return e.Content, true
	case *Variable:
		return e.Name, true
	case *Call:
		return e.Fn, true
	}
	return "", false
}

// WithValue returns a copy of e with its value replaced. Nodes without a
// value are returned unchanged.
func WithValue(e Expr, v string) Expr {
	switch e := e.(type) {
	case *Literal:
		c := *e
		c.Content = v
		return &c
	case *Variable:
		c := *e
		c.Name = v
		return &c
	case *Call:
		c := *e
		c.Fn = v
		return &c
	}
	return e
}

// Label is a short human-readable description of a node, used in logs and
// diagnostics.
func Label(e Expr) string {
	switch e := e.(type) {
	case *List:
		return fmt.Sprintf("list[%d]", len(e.Items))
	case *Call:
		return fmt.Sprintf("%s(%d)", e.Fn, len(e.Args))
	case *Literal:
		return fmt.Sprintf("%s %q", e.Kind, e.Content)
	case *Variable:
		return e.Name
	case *Blank:
		if e.Comment != "" {
			return "?" + e.Comment
		}
		return "?"
	}
	return fmt.Sprintf("%T", e)
}

func cloneSlice(xs []Expr) []Expr {
	return append([]Expr(nil), xs...)
}
