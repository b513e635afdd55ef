package svg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

type fixture struct {
	root  expr.Expr
	x     *expr.Variable
	blank *expr.Blank
	res   *layout.Result
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	var f fixture
	f.x = expr.NewVariable("x")
	f.blank = expr.NewBlank("")
	comment := "say <hi> & bye"
	hi := expr.AssignToData(expr.NewLiteral(expr.Text, "hi"), expr.DataPatch{Comment: &comment})
	f.root = expr.NewList(expr.NewCall("print", hi, f.x), f.blank)
	res, err := layout.Compute(f.root, layout.Context{Theme: theme.Default(), Measurer: textmetrics.NewMono(textmetrics.DefaultCell)})
	if err != nil {
		t.Fatal(err)
	}
	f.res = res
	return f
}

func TestRenderSVG(t *testing.T) {
	f := newFixture(t)
	out := string(RenderSVG(f.res, WithTitle("main")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		"<title>main</title>",
		">print</text>",
		">x</text>",
		"&#34;hi&#34;",
		"say &lt;hi&gt; &amp; bye",
		`class="comment-mark"`,
		"<line ",
		"<circle ",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %s", want)
		}
	}
	if strings.Contains(out, "debug-area") {
		t.Error("debug overlay drawn without WithDebug")
	}
}

func TestRenderSVGSize(t *testing.T) {
	f := newFixture(t)
	out := string(RenderSVG(f.res, WithMargin(0)))
	want := fmt.Sprintf(`width="%.0f" height="%.0f"`, f.res.Size.W, f.res.Size.H)
	if !strings.Contains(out, want) {
		t.Errorf("RenderSVG() header does not contain %s", want)
	}
}

func TestHighlights(t *testing.T) {
	f := newFixture(t)
	out := string(RenderSVG(f.res, WithHighlights(
		editor.Highlight{ID: f.x.ID, Kind: editor.HighlightSelection},
		editor.Highlight{ID: f.blank.ID, Kind: editor.HighlightDroppable},
		editor.Highlight{ID: 1 << 60, Kind: editor.HighlightHover},
	)))
	sel := strings.Index(out, `class="highlight selection"`)
	drop := strings.Index(out, `class="highlight droppable"`)
	text := strings.Index(out, "<text")
	if sel < 0 || drop < 0 {
		t.Fatalf("highlights missing:\n%s", out)
	}
	if sel > drop || drop > text {
		t.Error("highlights must be drawn in order and below the text")
	}
	if strings.Contains(out, `class="highlight hover"`) {
		t.Error("highlight drawn for a node without an area")
	}
	if !strings.Contains(out, theme.Default().Colours.SelectionStroke) {
		t.Error("selection colour not used")
	}
}

func TestDebugOverlay(t *testing.T) {
	f := newFixture(t)
	out := string(RenderSVG(f.res, WithDebug()))
	if n := strings.Count(out, `class="debug-area"`); n != len(f.res.Areas) {
		t.Errorf("debug areas = %d, want %d", n, len(f.res.Areas))
	}
}

func TestDisabledColour(t *testing.T) {
	disabled := true
	x := expr.AssignToData(expr.NewVariable("x"), expr.DataPatch{Disabled: &disabled})
	res, err := layout.Compute(x, layout.Context{Theme: theme.Default(), Measurer: textmetrics.NewMono(textmetrics.DefaultCell)})
	if err != nil {
		t.Fatal(err)
	}
	out := string(RenderSVG(res))
	if !strings.Contains(out, `fill="`+theme.Default().Colours.Disabled+`">x</text>`) {
		t.Errorf("disabled text not greyed out:\n%s", out)
	}
}
