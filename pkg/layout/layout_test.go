package layout

import (
	"fmt"
	"maps"
	"strings"
	"testing"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

// cells measures every rune as 10x10 pixels.
var cells = textmetrics.MeasurerFunc(func(text string, _ textmetrics.Style) (geom.Size, error) {
	return geom.Sz(float64(len([]rune(text)))*10, 10), nil
})

func testContext() Context {
	return Context{Theme: theme.Default(), Measurer: cells}
}

func mustCompute(t *testing.T, root expr.Expr, ctx Context) *Result {
	t.Helper()
	res, err := Compute(root, ctx)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return res
}

func rectOf(t *testing.T, res *Result, id expr.ID) geom.Rect {
	t.Helper()
	r, ok := res.Rect(id)
	if !ok {
		t.Fatalf("no area for %s", id)
	}
	return r
}

func textCmd(res *Result, s string) (Text, bool) {
	for _, c := range res.Commands {
		if tc, ok := c.(Text); ok && tc.Text == s {
			return tc, true
		}
	}
	return Text{}, false
}

func TestIsInline(t *testing.T) {
	th := theme.Default()
	inline := func(w float64, level int) Pending {
		p := Pending{Size: geom.Sz(w, 10), Inline: true}
		if level > 0 {
			p.Underlines = []Underline{{Length: w, Level: level}}
		}
		return p
	}
	block := Pending{Size: geom.Sz(10, 40)}

	tests := []struct {
		name string
		args []Pending
		want bool
	}{
		{"no arguments", nil, true},
		{"block argument", []Pending{inline(10, 0), block}, false},
		{"single inline argument", []Pending{inline(1000, 5)}, true},
		{"single block argument", []Pending{block}, false},
		{"200 + 150 exceeds 300", []Pending{inline(200, 0), inline(150, 0)}, false},
		{"exactly the threshold", []Pending{inline(150, 0), inline(150, 0)}, true},
		{"nesting below limit", []Pending{inline(10, 0), inline(10, 2)}, true},
		{"nesting at limit", []Pending{inline(10, 0), inline(10, 3)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInline(th, tt.args); got != tt.want {
				t.Errorf("IsInline() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInlineCallGeometry(t *testing.T) {
	a := expr.NewVariable("a")
	b := expr.NewVariable("b")
	call := expr.NewCall("f", a, b)

	res := mustCompute(t, call, testContext())

	// name 10 + gap 4 + circle 4, then a non-breaking space of 10
	want := map[expr.ID]geom.Rect{
		call.ID: geom.R(0, 0, 58, 15),
		a.ID:    geom.R(28, 0, 10, 15),
		b.ID:    geom.R(48, 0, 10, 15),
	}
	if !maps.Equal(map[expr.ID]geom.Rect(res.Areas), want) {
		t.Errorf("Areas = %v, want %v", res.Areas, want)
	}
	if res.Size != geom.Sz(58, 15) {
		t.Errorf("Size = %v", res.Size)
	}

	var underline *Line
	for _, c := range res.Commands {
		if l, ok := c.(Line); ok && l.Role == RoleUnderline {
			underline = &l
		}
	}
	if underline == nil {
		t.Fatal("no underline drawn")
	}
	if underline.From != geom.V(28, 15) || underline.To != geom.V(58, 15) {
		t.Errorf("underline = %v -> %v", underline.From, underline.To)
	}

	name, _ := textCmd(res, "f")
	if name.Style.Bold {
		t.Error("inline call name should not be bold")
	}
}

func TestFrozenHidesCreateCircle(t *testing.T) {
	call := expr.NewCall("f", expr.NewVariable("a"))
	ctx := testContext()
	ctx.Frozen = true
	res := mustCompute(t, call, ctx)

	for _, c := range res.Commands {
		if _, ok := c.(Circle); ok {
			t.Fatal("frozen layout drew a create circle")
		}
	}
	if res.Size.W != 30 {
		t.Errorf("width = %v, want 30", res.Size.W)
	}
}

func TestBlockCallGeometry(t *testing.T) {
	a := expr.NewVariable(strings.Repeat("a", 20))
	b := expr.NewVariable(strings.Repeat("b", 15))
	call := expr.NewCall("f", a, b)

	res := mustCompute(t, call, testContext())

	if got := rectOf(t, res, a.ID); got != geom.R(25, 0, 200, 10) {
		t.Errorf("a = %v", got)
	}
	if got := rectOf(t, res, b.ID); got != geom.R(25, 17, 150, 10) {
		t.Errorf("b = %v", got)
	}
	name, _ := textCmd(res, "f")
	if !name.Style.Bold {
		t.Error("block call name should be bold")
	}
}

func TestSingleInlineCallArgumentStaysInline(t *testing.T) {
	g := expr.NewCall("g", expr.NewVariable("a"), expr.NewVariable("b"))
	f := expr.NewCall("f", g)
	res := mustCompute(t, f, testContext())

	if got := rectOf(t, res, g.ID); got.Top() != 0 {
		t.Errorf("g moved to a new line: %v", got)
	}
	if name, _ := textCmd(res, "f"); name.Style.Bold {
		t.Error("f should be inline")
	}

	// f underlines g, which underlines a and b: two stacked lines.
	lines := 0
	for _, c := range res.Commands {
		if l, ok := c.(Line); ok && l.Role == RoleUnderline {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("underlines = %d, want 2", lines)
	}
	if res.Size.H != 12+2*3 {
		t.Errorf("height = %v, want 18", res.Size.H)
	}
}

func TestNestingLimitForcesBlock(t *testing.T) {
	x := func() expr.Expr { return expr.NewVariable("x") }
	k := expr.NewCall("k", x(), x())
	h := expr.NewCall("h", x(), k)
	g := expr.NewCall("g", x(), h)
	f := expr.NewCall("f", x(), g)

	res := mustCompute(t, f, testContext())
	for name, bold := range map[string]bool{"f": true, "g": false, "h": false, "k": false} {
		tc, ok := textCmd(res, name)
		if !ok {
			t.Fatalf("no text for %s", name)
		}
		if tc.Style.Bold != bold {
			t.Errorf("%s bold = %v, want %v", name, tc.Style.Bold, bold)
		}
	}
}

func TestCommentForcesBlock(t *testing.T) {
	a := expr.NewVariable("a")
	b := expr.NewVariable("b")
	call := &expr.Call{Data: expr.Commented("note"), Fn: "f", Args: []expr.Expr{a, b}}

	t.Run("shown", func(t *testing.T) {
		res := mustCompute(t, call, testContext())
		if rectOf(t, res, b.ID).Top() <= rectOf(t, res, a.ID).Top() {
			t.Error("commented call should stack its arguments")
		}
		name, _ := textCmd(res, "f")
		if name.Style.Bold {
			t.Error("a comment must not make the name bold")
		}
		c, ok := textCmd(res, "note")
		if !ok || c.Role != RoleComment || !c.Style.Italic {
			t.Errorf("comment command = %+v, %v", c, ok)
		}
	})

	t.Run("folded", func(t *testing.T) {
		ctx := testContext()
		ctx.FoldComments = true
		res := mustCompute(t, call, ctx)
		if _, ok := textCmd(res, "note"); ok {
			t.Error("folded comment was drawn")
		}
		if name, _ := textCmd(res, "f"); !name.CommentMark {
			t.Error("folded comment should mark the call name")
		}
	})
}

func TestListGeometry(t *testing.T) {
	x := expr.NewVariable("x")
	y := expr.NewVariable("y")
	list := expr.NewList(x, y)

	res := mustCompute(t, list, testContext())

	want := map[expr.ID]geom.Rect{
		list.ID: geom.R(0, 0, 20, 27),
		x.ID:    geom.R(10, 0, 10, 10),
		y.ID:    geom.R(10, 17, 10, 10),
	}
	if !maps.Equal(map[expr.ID]geom.Rect(res.Areas), want) {
		t.Errorf("Areas = %v, want %v", res.Areas, want)
	}

	var ruler *Line
	for _, c := range res.Commands {
		if l, ok := c.(Line); ok && l.Role == RoleListRuler {
			ruler = &l
		}
	}
	if ruler == nil || ruler.From != geom.V(3, 5) || ruler.To != geom.V(3, 27) {
		t.Errorf("ruler = %+v", ruler)
	}
}

func TestBlank(t *testing.T) {
	t.Run("pill", func(t *testing.T) {
		b := expr.NewBlank("")
		res := mustCompute(t, b, testContext())
		if got := rectOf(t, res, b.ID); got != geom.R(0, 0, 30, 10) {
			t.Errorf("blank = %v", got)
		}
		if label, ok := textCmd(res, "?"); !ok || label.Pos != geom.V(10, 0) {
			t.Errorf("label = %+v", label)
		}
	})

	t.Run("square when narrow", func(t *testing.T) {
		tall := textmetrics.MeasurerFunc(func(text string, _ textmetrics.Style) (geom.Size, error) {
			return geom.Sz(10, 20), nil
		})
		th := theme.Default()
		th.Blank.Padding = geom.Pad(0)
		b := expr.NewBlank("hint")
		res := mustCompute(t, b, Context{Theme: th, Measurer: tall})
		if got := rectOf(t, res, b.ID); got != geom.R(0, 0, 20, 20) {
			t.Errorf("blank = %v", got)
		}
	})
}

func TestLiteralText(t *testing.T) {
	tests := []struct {
		kind    expr.LiteralKind
		content string
		want    string
		italic  bool
	}{
		{expr.Text, "abc", `"abc"`, false},
		{expr.Number, "1234", "1,234", false},
		{expr.Number, "1234567.5", "1,234,567.5", false},
		{expr.Number, "n/a", "n/a", false},
		{expr.Symbol, "key", "key:", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res := mustCompute(t, expr.NewLiteral(tt.kind, tt.content), testContext())
			tc, ok := textCmd(res, tt.want)
			if !ok {
				t.Fatalf("no text %q in %v", tt.want, res.Commands)
			}
			if tc.Style.Italic != tt.italic {
				t.Errorf("italic = %v, want %v", tc.Style.Italic, tt.italic)
			}
		})
	}
}

func TestEveryNodeHasAnArea(t *testing.T) {
	root := sampleTree()
	res := mustCompute(t, root, testContext())
	ids := expr.IDs(root)
	if len(res.Areas) != len(ids) {
		t.Errorf("len(Areas) = %d, want %d", len(res.Areas), len(ids))
	}
	for _, id := range ids {
		if _, ok := res.Areas[id]; !ok {
			t.Errorf("missing area for %s", id)
		}
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	root := sampleTree()
	first := mustCompute(t, root, testContext())
	second := mustCompute(t, root, testContext())
	if !maps.Equal(first.Areas, second.Areas) {
		t.Error("two layout passes produced different geometry")
	}
	if first.Size != second.Size || len(first.Commands) != len(second.Commands) {
		t.Error("two layout passes produced different output")
	}
}

func TestMeasureFailure(t *testing.T) {
	broken := textmetrics.MeasurerFunc(func(string, textmetrics.Style) (geom.Size, error) {
		return geom.Size{}, fmt.Errorf("no font")
	})
	root := sampleTree()
	before := expr.Format(root)

	_, err := Compute(root, Context{Measurer: broken})
	if !errors.Is(err, errors.ErrCodeMeasureFailed) {
		t.Errorf("Compute() error = %v, want MEASURE_FAILED", err)
	}
	if expr.Format(root) != before {
		t.Error("failed layout changed the tree")
	}
}

func TestComputeRequiresMeasurer(t *testing.T) {
	if _, err := Compute(expr.NewBlank(""), Context{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Compute() error = %v", err)
	}
}

func TestDisabledPropagates(t *testing.T) {
	x := expr.NewVariable("x")
	inner := expr.NewCall("g", x)
	root := expr.ToggleDisabled(expr.NewList(inner), inner.ID)

	res := mustCompute(t, root, testContext())
	for _, s := range []string{"g", "x"} {
		if tc, _ := textCmd(res, s); !tc.Disabled {
			t.Errorf("%s should be drawn disabled", s)
		}
	}
}

func TestMaterialize(t *testing.T) {
	p := Pending{
		Size: geom.Sz(40, 10),
		Areas: []*Area{
			{ID: 1, Rect: geom.R(0, 0, 20, 10), Inline: true},
			{ID: 2, Rect: geom.R(20, 0, 20, 10)},
		},
		Underlines: []Underline{{Offset: 0, Length: 40, Level: 1}, {Offset: 5, Length: 10, Level: 2}},
		Inline:     true,
	}
	f := Materialize(p, 3)

	if f.Size != geom.Sz(40, 16) {
		t.Errorf("Size = %v, want 40x16", f.Size)
	}
	if len(f.Commands) != 2 {
		t.Fatalf("len(Commands) = %d, want 2", len(f.Commands))
	}
	if l := f.Commands[1].(Line); l.From != geom.V(5, 16) || l.To != geom.V(15, 16) {
		t.Errorf("second underline = %+v", l)
	}
	if f.Areas[0].Rect.Height() != 16 {
		t.Errorf("inline area height = %v, want 16", f.Areas[0].Rect.Height())
	}
	if f.Areas[1].Rect.Height() != 10 {
		t.Errorf("block area height = %v, want 10", f.Areas[1].Rect.Height())
	}
	if p.Areas[0].Rect.Height() != 10 {
		t.Error("Materialize modified its input")
	}
	if len(f.Pending().Underlines) != 0 {
		t.Error("final layout still has underlines")
	}
}

func TestHitTest(t *testing.T) {
	a := expr.NewVariable("a")
	call := expr.NewCall("f", a, expr.NewVariable("b"))
	res := mustCompute(t, call, testContext())

	tests := []struct {
		name string
		p    geom.Vec
		want expr.ID
		ok   bool
	}{
		{"argument", geom.V(30, 5), a.ID, true},
		{"call name", geom.V(5, 5), call.ID, true},
		{"outside", geom.V(100, 100), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := res.HitTest(tt.p)
			if got != tt.want || ok != tt.ok {
				t.Errorf("HitTest(%v) = %s, %v, want %s, %v", tt.p, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// sampleTree is (do (print "hi" x) (add 1 (mul a ?)) key:).
func sampleTree() expr.Expr {
	return expr.NewList(
		expr.NewCall("print", expr.NewLiteral(expr.Text, "hi"), expr.NewVariable("x")),
		expr.NewCall("add", expr.NewLiteral(expr.Number, "1"),
			expr.NewCall("mul", expr.NewVariable("a"), expr.NewBlank(""))),
		expr.NewLiteral(expr.Symbol, "key"),
	)
}
