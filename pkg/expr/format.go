package expr

import (
	"strconv"
	"strings"
)

// Format renders a tree as a compact s-expression for logs and tests:
//
//	(do (print "hi" x) (add 1 ?))
//
// Lists print as "do", blanks as "?" (or "?hint"), and disabled nodes are
// prefixed with "#_". Comments are not shown.
func Format(e Expr) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e Expr) {
	if e.Meta().Disabled {
		b.WriteString("#_")
	}
	switch e := e.(type) {
	case *List:
		b.WriteString("(do")
		for _, x := range e.Items {
			b.WriteByte(' ')
			format(b, x)
		}
		b.WriteByte(')')
	case *Call:
		b.WriteByte('(')
		b.WriteString(e.Fn)
		for _, x := range e.Args {
			b.WriteByte(' ')
			format(b, x)
		}
		b.WriteByte(')')
	case *Literal:
		switch e.Kind {
		case Text:
			b.WriteString(strconv.Quote(e.Content))
		case Symbol:
			b.WriteString(e.Content)
			b.WriteByte(':')
		default:
			b.WriteString(e.Content)
		}
	case *Variable:
		b.WriteString(e.Name)
	case *Blank:
		b.WriteByte('?')
		b.WriteString(e.Comment)
	}
}
