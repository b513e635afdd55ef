// Package pkg provides the libraries behind Kale, a structural editor for
// expression trees.
//
// # Overview
//
// Kale edits programs as trees. A tree is laid out as nested calls whose
// arguments are underlined, or stacked in a column when they do not fit on a
// line. Keyboard commands move the selection spatially over that layout, and
// subtrees can be dragged between editors. The pkg directory is organized
// into four areas:
//
//  1. Model: [expr] (the tree and its edit algebra), [io] (JSON documents)
//  2. Geometry: [theme], [textmetrics], [layout], [nav], [dnd]
//  3. Hosting: [editor] (selection, actions, key bindings, drops), [store], [cache]
//  4. Output: [render] and its svg, term and dot subpackages
//
// # Architecture
//
// The host owns the canonical tree and recomputes the layout after every
// change:
//
//	  tree ([expr])
//	       ↓
//	[layout] (commands + area map)
//	       ↓          ↘
//	 [render]      [nav] / [dnd]
//	                   ↓
//	          new tree via [expr] edits
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/kale/pkg/expr"
//	    "github.com/matzehuels/kale/pkg/layout"
//	    "github.com/matzehuels/kale/pkg/render/svg"
//	    "github.com/matzehuels/kale/pkg/textmetrics"
//	    "github.com/matzehuels/kale/pkg/theme"
//	)
//
//	tree := expr.NewList(
//	    expr.NewCall("print", expr.NewLiteral(expr.Text, "hi"), expr.NewVariable("x")),
//	)
//	res, err := layout.Compute(tree, layout.Context{
//	    Theme:    theme.Default(),
//	    Measurer: textmetrics.NewMono(textmetrics.DefaultCell),
//	})
//	if err != nil {
//	    return err
//	}
//	out := svg.RenderSVG(res)
//
// Interactive hosts use [editor.Editor], which keeps the tree, the selection
// and the layout in step and maps key presses to actions:
//
//	ed, err := editor.New(tree, editor.WithName("main"))
//	handled, err := ed.HandleKey("tab") // select the next blank
//
// Core packages never log. Hosts observe layouts, edits and drags through
// the hooks in [observability].
//
// [expr]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/expr
// [io]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/io
// [theme]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/theme
// [textmetrics]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/textmetrics
// [layout]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/layout
// [nav]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/nav
// [dnd]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/dnd
// [editor]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/editor
// [editor.Editor]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/editor#Editor
// [store]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/kale/pkg/observability
package pkg
