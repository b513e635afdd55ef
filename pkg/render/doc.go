// Package render turns laid-out expression trees into pictures.
//
// The subpackages share one input, a [layout.Result], except for dot, which
// draws the tree structure itself:
//
//   - [svg] draws the layout's commands, highlights and an optional debug
//     overlay of the area map.
//   - [term] rasterizes a layout measured in terminal cells.
//   - [dot] exports the tree as a Graphviz digraph and renders it.
//
// [ToPDF] and [ToPNG] convert any SVG through the external rsvg-convert tool:
//
//	out := svg.RenderSVG(res, svg.WithTheme(t))
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)
//
// [layout.Result]: github.com/matzehuels/kale/pkg/layout.Result
// [svg]: github.com/matzehuels/kale/pkg/render/svg
// [term]: github.com/matzehuels/kale/pkg/render/term
// [dot]: github.com/matzehuels/kale/pkg/render/dot
package render
