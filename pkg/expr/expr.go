package expr

import (
	"fmt"
	"sync/atomic"
)

// ID identifies a node. The zero ID is never allocated.
type ID uint64

var lastID atomic.Uint64

// NewID allocates a fresh, process-unique identity.
func NewID() ID { return ID(lastID.Add(1)) }

// String implements fmt.Stringer.
func (id ID) String() string { return fmt.Sprintf("#%d", uint64(id)) }

// Data is the metadata every node carries.
type Data struct {
	ID       ID
	Comment  string // empty means no comment
	Disabled bool
}

// NewData returns metadata with a fresh identity.
func NewData() Data { return Data{ID: NewID()} }

// Commented returns metadata with a fresh identity and the given comment.
func Commented(comment string) Data { return Data{ID: NewID(), Comment: comment} }

// Meta returns the node's metadata. It is promoted into every variant.
func (d Data) Meta() Data { return d }

// HasMeta reports whether the metadata carries a comment or disabled flag.
func (d Data) HasMeta() bool { return d.Comment != "" || d.Disabled }

// Expr is a node of the expression tree.
type Expr interface {
	// Meta returns the node's identity and metadata.
	Meta() Data

	withData(Data) Expr
	sealed()
}

// LiteralKind is the scalar type of a [Literal].
type LiteralKind int

const (
	Text LiteralKind = iota
	Number
	Symbol
)

var literalKindNames = [...]string{"text", "number", "symbol"}

// String implements fmt.Stringer.
func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// ParseLiteralKind is the inverse of [LiteralKind.String].
func ParseLiteralKind(s string) (LiteralKind, bool) {
	for i, name := range literalKindNames {
		if name == s {
			return LiteralKind(i), true
		}
	}
	return 0, false
}

// List is an ordered sequence of expressions evaluated in order.
type List struct {
	Data
	Items []Expr
}

// Call applies the function named Fn to Args.
type Call struct {
	Data
	Fn   string
	Args []Expr
}

// Literal is a scalar written as source text.
type Literal struct {
	Data
	Kind    LiteralKind
	Content string
}

// Variable references a name.
type Variable struct {
	Data
	Name string
}

// Blank is a placeholder for an expression not yet filled in. Its comment, if
// any, is the hint shown as its label.
type Blank struct {
	Data
}

// NewList builds a list with a fresh identity. Nested lists that carry no
// metadata are spliced into the new list.
func NewList(items ...Expr) *List {
	return &List{Data: NewData(), Items: flatten(items)}
}

// NewCall builds a call with a fresh identity.
func NewCall(fn string, args ...Expr) *Call {
	return &Call{Data: NewData(), Fn: fn, Args: args}
}

// NewLiteral builds a literal with a fresh identity.
func NewLiteral(kind LiteralKind, content string) *Literal {
	return &Literal{Data: NewData(), Kind: kind, Content: content}
}

// NewVariable builds a variable with a fresh identity.
func NewVariable(name string) *Variable {
	return &Variable{Data: NewData(), Name: name}
}

// NewBlank builds a blank with a fresh identity and an optional hint.
func NewBlank(hint string) *Blank {
	return &Blank{Data: Commented(hint)}
}

func (e *List) withData(d Data) Expr     { c := *e; c.Data = d; return &c }
func (e *Call) withData(d Data) Expr     { c := *e; c.Data = d; return &c }
func (e *Literal) withData(d Data) Expr  { c := *e; c.Data = d; return &c }
func (e *Variable) withData(d Data) Expr { c := *e; c.Data = d; return &c }
func (e *Blank) withData(d Data) Expr    { c := *e; c.Data = d; return &c }

func (*List) sealed()     {}
func (*Call) sealed()     {}
func (*Literal) sealed()  {}
func (*Variable) sealed() {}
func (*Blank) sealed()    {}

// flatten splices metadata-free lists into their parent sequence.
func flatten(items []Expr) []Expr {
	nested := false
	for _, x := range items {
		if l, ok := x.(*List); ok && !l.HasMeta() {
			nested = true
			break
		}
	}
	if !nested {
		return items
	}
	out := make([]Expr, 0, len(items))
	for _, x := range items {
		if l, ok := x.(*List); ok && !l.HasMeta() {
			out = append(out, l.Items...)
			continue
		}
		out = append(out, x)
	}
	return out
}
