package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the node identity and comment to every label.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT source. Children appear left to
// right in argument order.
func ToDOT(root expr.Expr, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Go\", fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for n := range expr.PreOrder(root) {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeName(n), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for n := range expr.PreOrder(root) {
		for _, c := range expr.Children(n) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(n), nodeName(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(n expr.Expr) string {
	return "n" + strconv.FormatUint(uint64(n.Meta().ID), 10)
}

func fmtLabel(n expr.Expr, detailed bool) string {
	var label string
	switch n := n.(type) {
	case *expr.List:
		label = "do"
	case *expr.Call:
		label = n.Fn
	default:
		label = expr.Format(n)
	}
	if !detailed {
		return label
	}
	parts := []string{label, n.Meta().ID.String()}
	if c := n.Meta().Comment; c != "" {
		if _, blank := n.(*expr.Blank); !blank {
			parts = append(parts, "; "+c)
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n expr.Expr, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch n.(type) {
	case *expr.Blank:
		attrs = append(attrs, "shape=ellipse", "fillcolor=\"#f7f7f7\"", "fontcolor=\"#909090\"")
	case *expr.List:
		attrs = append(attrs, "shape=plain")
	}
	if n.Meta().Disabled {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=\"#cccccc\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one in
// pixels starting at the origin.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
