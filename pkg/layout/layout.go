package layout

import (
	"slices"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

const (
	// rulerWidth is the column reserved for a list's vertical ruler.
	rulerWidth = 10
	// rulerX and rulerTop position the ruler inside that column.
	rulerX   = 3
	rulerTop = 5
	// nbsp separates an inline call's name from its arguments.
	nbsp = "\u00a0"
)

// Context holds everything a layout pass depends on besides the tree.
type Context struct {
	Theme    *theme.Theme
	Measurer textmetrics.Measurer

	// Frozen hides the create-argument circles, for read-only surfaces and
	// drag previews.
	Frozen bool
	// FoldComments hides comments; commented calls show an indicator.
	FoldComments bool
}

// Result is the output of a layout pass.
type Result struct {
	Size     geom.Size
	Commands []Command
	Root     *Area
	Areas    AreaMap
}

// Compute lays out the tree rooted at root. It fails only when the measurer
// fails; the tree is never modified.
func Compute(root expr.Expr, ctx Context) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to lay out")
	}
	if ctx.Measurer == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout context has no measurer")
	}
	if ctx.Theme == nil {
		ctx.Theme = theme.Default()
	}
	e := &engine{
		ctx:     ctx,
		t:       ctx.Theme,
		printer: message.NewPrinter(language.English),
	}
	p := e.layout(root, false)
	if e.err != nil {
		return nil, e.err
	}
	f := Materialize(p, e.t.Layout.UnderlineSpacing)
	res := &Result{
		Size:     f.Size,
		Commands: f.Commands,
		Root:     f.Areas[0],
		Areas:    make(AreaMap),
	}
	res.Areas.collect(res.Root)
	return res, nil
}

// IsInline decides whether a call with the given argument layouts is laid
// out on a single line.
func IsInline(t *theme.Theme, args []Pending) bool {
	if len(args) == 0 {
		return true
	}
	for _, a := range args {
		if !a.Inline {
			return false
		}
	}
	if len(args) == 1 {
		return true
	}
	width := 0.0
	level := 0
	for _, a := range args {
		width += a.Size.W
		level = max(level, a.MaxLevel())
	}
	if width > t.Layout.LineBreakPoint {
		return false
	}
	return level < t.Layout.MaxNesting
}

type engine struct {
	ctx     Context
	t       *theme.Theme
	printer *message.Printer
	err     error // first measurement failure; later measurements are skipped
}

func (e *engine) measure(text string, style textmetrics.Style) geom.Size {
	if e.err != nil {
		return geom.Size{}
	}
	size, err := e.ctx.Measurer.Measure(text, style)
	if err != nil {
		e.err = errors.Wrap(errors.ErrCodeMeasureFailed, err, "measure %q", text)
		return geom.Size{}
	}
	return size
}

// layout lays out one node and records its area.
func (e *engine) layout(x expr.Expr, parentDisabled bool) Pending {
	v := visitor{e: e, disabled: parentDisabled || x.Meta().Disabled}
	p := expr.Visit[Pending](x, v)
	area := &Area{
		ID:       x.Meta().ID,
		Rect:     geom.FromSize(p.Size),
		Inline:   p.Inline,
		Children: p.Areas,
	}
	p.Areas = []*Area{area}
	return p
}

type textOpts struct {
	style       textmetrics.Style
	role        Role
	title       string
	commentMark bool
	offset      geom.Vec
}

func (v visitor) text(id expr.ID, s string, o textOpts) Pending {
	size := v.e.measure(s, o.style)
	return Pending{
		Size: size,
		Commands: []Command{Text{
			ID:          id,
			Pos:         o.offset,
			Size:        size,
			Text:        s,
			Style:       o.style,
			Role:        o.role,
			Disabled:    v.disabled,
			Title:       o.title,
			CommentMark: o.commentMark,
		}},
		Inline: true,
	}
}

// comment returns the comment line of x, if it should be shown.
func (v visitor) comment(x expr.Expr) (Pending, bool) {
	d := x.Meta()
	if d.Comment == "" || v.e.ctx.FoldComments {
		return Pending{}, false
	}
	return v.text(d.ID, d.Comment, textOpts{style: textmetrics.Style{Italic: true}, role: RoleComment}), true
}

// withComment stacks the comment of x above body.
func (v visitor) withComment(x expr.Expr, body Pending) Pending {
	if c, ok := v.comment(x); ok {
		return vstack(v.e.t.Layout.LineSpacing, c, body)
	}
	return body
}

type visitor struct {
	e        *engine
	disabled bool
}

func (v visitor) VisitList(l *expr.List) Pending {
	t := v.e.t
	items := make([]Pending, 0, len(l.Items))
	for _, x := range l.Items {
		items = append(items, Materialize(v.e.layout(x, v.disabled), t.Layout.UnderlineSpacing).Pending())
	}
	var body Pending
	if len(items) > 0 {
		body = vstack(t.Layout.LineSpacing, items...)
	}
	ruler := Pending{Size: geom.Sz(rulerWidth, 0)}
	if h := body.Size.H; h > rulerTop {
		ruler.Commands = []Command{Line{
			ID:       l.ID,
			From:     geom.V(rulerX, rulerTop),
			To:       geom.V(rulerX, h),
			Role:     RoleListRuler,
			Disabled: v.disabled,
		}}
	}
	return v.withComment(l, hstack(0, ruler, body))
}

func (v visitor) VisitCall(c *expr.Call) Pending {
	t := v.e.t
	args := make([]Pending, len(c.Args))
	for i, x := range c.Args {
		args[i] = v.e.layout(x, v.disabled)
	}
	inline := IsInline(t, args)

	name := v.text(c.ID, c.Fn, textOpts{
		style:       textmetrics.Style{Bold: !inline},
		role:        RoleCall,
		commentMark: c.Comment != "" && v.e.ctx.FoldComments,
	})
	fn := name
	if !v.e.ctx.Frozen {
		circle := Pending{
			Size: geom.Sz(t.CreateCircle.MaxRadius, t.FontSize),
			Commands: []Command{Circle{
				ID:     c.ID,
				Center: geom.V(t.CreateCircle.Radius, t.FontSize/2+3),
				Radius: t.CreateCircle.Radius,
			}},
		}
		fn = hstack(t.CreateCircle.MaxRadius, name, circle)
	}

	var body Pending
	if inline && c.Comment == "" {
		margin := v.e.measure(nbsp, textmetrics.Style{}).W
		body = hstack(margin, append([]Pending{fn}, args...)...)
		if len(args) > 0 {
			level := 0
			for _, a := range args {
				level = max(level, a.MaxLevel())
			}
			start := fn.Size.W + margin
			body.Underlines = append(slices.Clip(body.Underlines), Underline{
				Offset: start,
				Length: body.Size.W - start,
				Level:  level + 1,
			})
		}
		body.Inline = true
	} else {
		col := make([]Pending, len(args))
		for i, a := range args {
			col[i] = Materialize(a, t.Layout.UnderlineSpacing).Pending()
		}
		if len(col) > 0 {
			body = hstack(t.Layout.LineSpacing, fn, vstack(t.Layout.LineSpacing, col...))
		} else {
			body = fn
		}
		body.Inline = false
	}
	return v.withComment(c, body)
}

func (v visitor) VisitLiteral(l *expr.Literal) Pending {
	return v.text(l.ID, v.e.literalText(l), textOpts{
		style:       textmetrics.Style{Italic: l.Kind == expr.Symbol},
		role:        RoleLiteral,
		title:       l.Comment,
		commentMark: l.Comment != "",
	})
}

func (v visitor) VisitVariable(x *expr.Variable) Pending {
	return v.text(x.ID, x.Name, textOpts{
		role:        RoleVariable,
		title:       x.Comment,
		commentMark: x.Comment != "",
	})
}

func (v visitor) VisitBlank(b *expr.Blank) Pending {
	pad := v.e.t.Blank.Padding
	label := b.Comment
	if label == "" {
		label = "?"
	}
	text := v.text(b.ID, label, textOpts{role: RoleBlank, offset: pad.TopLeft()})
	rect := geom.Rect{Pos: pad.TopLeft(), Size: text.Size}.Pad(pad)
	if rect.Width() < rect.Height() {
		rect.Size.W = rect.Size.H
	}
	return Pending{
		Size:     rect.Size,
		Commands: []Command{Pill{ID: b.ID, Rect: rect, Radius: rect.Height() / 2}, text.Commands[0]},
		Inline:   true,
	}
}

// literalText is the display form of a literal: quoted text, symbols with a
// trailing colon and numbers with digit grouping.
func (e *engine) literalText(l *expr.Literal) string {
	switch l.Kind {
	case expr.Text:
		return strconv.Quote(l.Content)
	case expr.Symbol:
		return l.Content + ":"
	case expr.Number:
		f, err := strconv.ParseFloat(l.Content, 64)
		if err != nil {
			return l.Content
		}
		return e.printer.Sprintf("%v", number.Decimal(f))
	}
	return l.Content
}
