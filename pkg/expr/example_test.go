package expr_test

import (
	"fmt"

	"github.com/matzehuels/kale/pkg/expr"
)

func ExampleBarfUp() {
	blank := expr.NewBlank("")
	inner := expr.NewCall("mul", expr.NewVariable("a"), blank)
	root := expr.NewList(expr.NewCall("add", expr.NewLiteral(expr.Number, "1"), inner))

	fmt.Println(expr.Format(root))
	fmt.Println(expr.Format(expr.BarfUp(root, blank.ID)))
	// Output:
	// (do (add 1 (mul a ?)))
	// (do (add 1 (mul a) ?))
}

func ExampleUpdate() {
	x := expr.NewVariable("x")
	root := expr.NewCall("print", x, expr.NewLiteral(expr.Text, "done"))

	next := expr.Update(root, x.ID, func(e expr.Expr) expr.Expr {
		return expr.WithValue(e, "y")
	})

	fmt.Println(expr.Format(root))
	fmt.Println(expr.Format(next))
	// Output:
	// (print x "done")
	// (print y "done")
}
