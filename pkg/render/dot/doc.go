// Package dot draws the structure of an expression tree as a Graphviz
// digraph, one box per node and one arrow per parent-child link.
//
// Unlike the SVG sink, which shows the tree the way the editor lays it out,
// this view makes nesting explicit, which helps when debugging edits:
//
//	src := dot.ToDOT(tree, dot.Options{Detailed: true})
//	out, err := dot.RenderSVG(ctx, src)
//
// Disabled nodes are dashed and blanks are drawn as grey ellipses. With
// Detailed set, labels carry the node identity and comment.
//
// # Dependencies
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
