// Package layout converts an expression tree into 2-D geometry.
//
// [Compute] walks the tree with an [expr.Visitor] and produces a [Result]:
// the root size, a flat list of draw [Command] values, the nested [Area]
// tree, and an [AreaMap] from every node identity to its rectangle in root
// coordinates. The computation is a pure function of the tree, the
// [theme.Theme] and the [textmetrics.Measurer] in the [Context].
//
// # Inline and block calls
//
// A call is laid out inline (arguments follow the name on one line) or as a
// block (arguments stacked in a column next to the name). [IsInline] applies
// these rules in order:
//
//  1. no arguments: inline
//  2. any argument laid out as a block: block
//  3. exactly one argument: inline
//  4. combined argument width strictly above the line-break point: block
//  5. deepest argument underline at or above the nesting limit: block
//  6. otherwise: inline
//
// A call with a comment is always drawn as a block, but its name stays
// non-bold when the rules above chose inline.
//
// # Underlines
//
// Inline calls underline their argument span. The underline level is one more
// than the deepest level among the arguments, so nested inline calls produce
// stacked lines. Underlines stay pending on a [Pending] layout until its
// enclosing list or block call calls [Materialize], which turns them into
// line commands, grows the height to fit them, and stretches every inline
// area to the final height.
package layout
