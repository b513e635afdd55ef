// Package svg draws a [layout.Result] as an SVG document.
//
// Draw commands are emitted in layout order on top of the highlights, so a
// selection never hides the text it marks:
//
//	out := svg.RenderSVG(res,
//	    svg.WithTheme(t),
//	    svg.WithHighlights(ed.Highlights()...),
//	)
//
// [WithDebug] adds the area map as dashed outlines, which is what the
// editor's debug overlay shows.
//
// [layout.Result]: github.com/matzehuels/kale/pkg/layout.Result
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/render"
	"github.com/matzehuels/kale/pkg/theme"
)

const debugStroke = "#ff4d4d"

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	theme      *theme.Theme
	highlights []editor.Highlight
	debug      bool
	margin     float64
	title      string
}

func WithTheme(t *theme.Theme) Option { return func(r *renderer) { r.theme = t } }
func WithDebug() Option               { return func(r *renderer) { r.debug = true } }
func WithMargin(px float64) Option    { return func(r *renderer) { r.margin = px } }
func WithTitle(title string) Option   { return func(r *renderer) { r.title = title } }

// WithHighlights draws hs below the content, in order.
func WithHighlights(hs ...editor.Highlight) Option {
	return func(r *renderer) { r.highlights = hs }
}

// RenderSVG renders res. The document is sized to the layout plus the margin
// on every side.
func RenderSVG(res *layout.Result, opts ...Option) []byte {
	r := renderer{theme: theme.Default(), margin: 10}
	for _, opt := range opts {
		opt(&r)
	}
	t := r.theme
	w, h := res.Size.W+2*r.margin, res.Size.H+2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", t.Colours.Background)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)" font-family="%s" font-size="%.1f">`+"\n",
		r.margin, r.margin, escapeXML(t.FontFamily), t.FontSize)

	for _, hl := range r.highlights {
		r.renderHighlight(&buf, res, hl)
	}
	for _, c := range res.Commands {
		r.renderCommand(&buf, c)
	}
	if r.debug {
		renderDebug(&buf, res)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// RenderPDF renders res as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(res *layout.Result, opts ...Option) ([]byte, error) {
	return render.ToPDF(RenderSVG(res, opts...))
}

// RenderPNG renders res as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(res *layout.Result, scale float64, opts ...Option) ([]byte, error) {
	return render.ToPNG(RenderSVG(res, opts...), scale)
}

func (r *renderer) renderHighlight(buf *bytes.Buffer, res *layout.Result, hl editor.Highlight) {
	rect, ok := res.Rect(hl.ID)
	if !ok {
		return
	}
	t := r.theme
	pad := t.Highlight.Padding
	if res.Root != nil && hl.ID == res.Root.ID {
		pad = t.Highlight.MainPadding
	}
	rect = rect.Pad(pad)

	fill, stroke, width := "none", t.Colours.HoverStroke, 1.0
	switch hl.Kind {
	case editor.HighlightSelection:
		fill, stroke = t.Colours.SelectionFill, t.Colours.SelectionStroke
	case editor.HighlightContext:
		stroke = t.Colours.ContextStroke
	case editor.HighlightDroppable:
		stroke, width = t.Colours.DroppableStroke, 2
	}
	fmt.Fprintf(buf, `    <rect class="highlight %s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		hl.Kind, rect.Left(), rect.Top(), rect.Width(), rect.Height(), t.Highlight.Radius, fill, stroke, width)
}

func (r *renderer) renderCommand(buf *bytes.Buffer, c layout.Command) {
	t := r.theme
	switch c := c.(type) {
	case layout.Text:
		r.renderText(buf, c)
	case layout.Line:
		colour := t.Colours.Underline
		if c.Role == layout.RoleListRuler {
			colour = t.Colours.ListRuler
		}
		if c.Disabled {
			colour = t.Colours.Disabled
		}
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-linecap="round"/>`+"\n",
			c.From.X, c.From.Y, c.To.X, c.To.Y, colour)
	case layout.Pill:
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
			c.Rect.Left(), c.Rect.Top(), c.Rect.Width(), c.Rect.Height(), c.Radius, t.Colours.BlankFill, t.Colours.BlankStroke)
	case layout.Circle:
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>`+"\n",
			c.Center.X, c.Center.Y, c.Radius, t.Colours.Decoration)
	}
}

func (r *renderer) renderText(buf *bytes.Buffer, c layout.Text) {
	attrs := fmt.Sprintf(`x="%.1f" y="%.1f" dominant-baseline="text-before-edge" fill="%s"`,
		c.Pos.X, c.Pos.Y, r.colour(c))
	if c.Style.Italic {
		attrs += ` font-style="italic"`
	}
	if c.Style.Bold {
		attrs += ` font-weight="bold"`
	}
	buf.WriteString("    <text " + attrs + ">")
	if c.Title != "" {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(c.Title))
	}
	buf.WriteString(escapeXML(c.Text))
	buf.WriteString("</text>\n")

	if c.CommentMark {
		mark := geom.V(c.Pos.X+c.Size.W+2, c.Pos.Y+2)
		fmt.Fprintf(buf, `    <circle class="comment-mark" cx="%.1f" cy="%.1f" r="1.5" fill="%s"/>`+"\n",
			mark.X, mark.Y, r.theme.Colours.Comment)
	}
}

func (r *renderer) colour(c layout.Text) string {
	cs := r.theme.Colours
	if c.Disabled {
		return cs.Disabled
	}
	switch c.Role {
	case layout.RoleCall:
		return cs.Call
	case layout.RoleVariable:
		return cs.Variable
	case layout.RoleLiteral:
		return cs.Literal
	case layout.RoleComment:
		return cs.Comment
	case layout.RoleBlank:
		return cs.BlankText
	}
	return cs.Decoration
}

func renderDebug(buf *bytes.Buffer, res *layout.Result) {
	res.Walk(func(a *layout.Area, depth int) {
		fmt.Fprintf(buf, `    <rect class="debug-area" data-id="%d" data-depth="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-dasharray="2 2" stroke-width="0.5"/>`+"\n",
			uint64(a.ID), depth, a.Rect.Left(), a.Rect.Top(), a.Rect.Width(), a.Rect.Height(), debugStroke)
	})
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
