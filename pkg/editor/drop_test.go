package editor

import (
	"testing"

	"github.com/matzehuels/kale/pkg/dnd"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
)

// inside returns a point just inside the area of id, in drag coordinates.
func inside(t *testing.T, e *Editor, id expr.ID) geom.Vec {
	t.Helper()
	r, ok := e.Layout().Rect(id)
	if !ok {
		t.Fatalf("no area for %v", id)
	}
	return e.Origin().Add(r.Pos).Add(geom.V(1, 1))
}

func TestAcceptDrop(t *testing.T) {
	tests := []struct {
		name   string
		target func(f fixture) expr.ID
		want   string
	}{
		{"replace blank", func(f fixture) expr.ID { return f.blank.ID }, `(do (print "hi" x) (add 1 (mul a (neg 2))))`},
		{"after leaf", func(f fixture) expr.ID { return f.a.ID }, `(do (print "hi" x) (add 1 (mul a (neg 2) ?)))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			e := newEditor(t, f.root)
			e.SetOrigin(geom.V(100, 50))
			dragged := expr.NewCall("neg", expr.NewLiteral(expr.Number, "2"))

			if got := e.AcceptDrop(inside(t, e, tt.target(f)), dragged); got != dnd.Move {
				t.Fatalf("AcceptDrop() = %v, want move", got)
			}
			if s := expr.Format(e.Tree()); s != tt.want {
				t.Errorf("tree = %s, want %s", s, tt.want)
			}
			if expr.Contains(e.Tree(), dragged.ID) {
				t.Error("dropped node kept its identity")
			}
			if n := selected(t, e); expr.Format(n) != "(neg 2)" {
				t.Errorf("selected %s, want the dropped node", expr.Format(n))
			}
		})
	}
}

func TestAcceptDropRejects(t *testing.T) {
	t.Run("outside", func(t *testing.T) {
		e := newEditor(t, newFixture().root)
		if got := e.AcceptDrop(geom.V(-50, -50), expr.NewVariable("v")); got != dnd.Reject {
			t.Errorf("AcceptDrop() = %v", got)
		}
	})
	t.Run("into itself", func(t *testing.T) {
		f := newFixture()
		e := newEditor(t, f.root)
		if got := e.AcceptDrop(inside(t, e, f.a.ID), f.add); got != dnd.Reject {
			t.Errorf("AcceptDrop() = %v", got)
		}
	})
	t.Run("frozen", func(t *testing.T) {
		f := newFixture()
		e := newEditor(t, f.root, WithFrozen(true))
		if got := e.AcceptDrop(inside(t, e, f.blank.ID), expr.NewVariable("v")); got != dnd.Reject {
			t.Errorf("AcceptDrop() = %v", got)
		}
	})
}

func TestDragUpdate(t *testing.T) {
	f := newFixture()
	e := newEditor(t, f.root)
	p := inside(t, e, f.blank.ID)
	e.DragUpdate(&p)
	hs := e.Highlights()
	if last := hs[len(hs)-1]; last.Kind != HighlightDroppable || last.ID != f.blank.ID {
		t.Errorf("last highlight = %+v, want droppable blank", last)
	}
	e.DragUpdate(nil)
	for _, h := range e.Highlights() {
		if h.Kind == HighlightDroppable {
			t.Error("droppable highlight survived the end of the drag")
		}
	}
}

func TestDragUpdateSkipsDraggedSubtree(t *testing.T) {
	c := dnd.NewController(nil)
	f := newFixture()
	e := newEditor(t, f.root, WithDragController(c))
	defer e.Close()

	start := inside(t, e, f.mul.ID)
	if !e.StartDrag(f.mul.ID, start) {
		t.Fatal("StartDrag failed")
	}
	c.Move(start.Add(geom.V(10, 0)), true)
	if c.State() != dnd.Dragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}

	p := inside(t, e, f.blank.ID)
	e.DragUpdate(&p)
	for _, h := range e.Highlights() {
		if h.Kind == HighlightDroppable {
			t.Errorf("droppable highlight on %v inside the dragged node", h.ID)
		}
	}

	p = inside(t, e, f.x.ID)
	e.DragUpdate(&p)
	hs := e.Highlights()
	if last := hs[len(hs)-1]; last.Kind != HighlightDroppable || last.ID != f.x.ID {
		t.Errorf("last highlight = %+v, want droppable x", last)
	}
	c.Cancel()
}

func TestDragBetweenEditors(t *testing.T) {
	c := dnd.NewController(nil)
	f := newFixture()
	src := newEditor(t, f.root, WithDragController(c))
	defer src.Close()
	dstBlank := expr.NewBlank("")
	dst := newEditor(t, expr.NewCall("list", dstBlank), WithDragController(c))
	defer dst.Close()
	dst.SetOrigin(geom.V(0, 500))

	if c.Registry().Len() != 2 {
		t.Fatalf("registry has %d listeners", c.Registry().Len())
	}

	start := inside(t, src, f.x.ID)
	if !src.StartDrag(f.x.ID, start) {
		t.Fatal("StartDrag failed")
	}
	first := start.Add(geom.V(10, 0))
	c.Move(first, true)
	// Move so the dragged corner lands inside the target.
	corner, _ := src.Layout().Rect(f.x.ID)
	target := inside(t, dst, dstBlank.ID)
	c.Move(target.Sub(src.Origin().Add(corner.Pos)).Add(first), true)

	if got := c.Release(); got != dnd.Move {
		t.Fatalf("Release() = %v, want move", got)
	}
	if s := expr.Format(dst.Tree()); s != "(list x)" {
		t.Errorf("target = %s", s)
	}
	if expr.Contains(src.Tree(), f.x.ID) {
		t.Errorf("source still holds the moved node: %s", expr.Format(src.Tree()))
	}

	src.Close()
	if c.Registry().Len() != 1 {
		t.Errorf("Close left %d listeners", c.Registry().Len())
	}
}

func TestDragCopyKeepsSource(t *testing.T) {
	c := dnd.NewController(nil)
	f := newFixture()
	src := newEditor(t, f.root, WithDragController(c), WithFrozen(true))
	dst := newEditor(t, expr.NewBlank(""), WithDragController(c))
	dst.SetOrigin(geom.V(0, 500))

	start := inside(t, src, f.hi.ID)
	src.StartDrag(f.hi.ID, start)
	first := start.Add(geom.V(10, 0))
	c.Move(first, true)
	corner, _ := src.Layout().Rect(f.hi.ID)
	c.Move(inside(t, dst, dst.Selection()).Sub(corner.Pos).Add(first), true)

	if got := c.Release(); got != dnd.Move {
		t.Fatalf("Release() = %v", got)
	}
	if s := expr.Format(dst.Tree()); s != `"hi"` {
		t.Errorf("target = %s", s)
	}
	if s := expr.Format(src.Tree()); s != fixtureText {
		t.Errorf("frozen source changed to %s", s)
	}
}

func TestStartDragNeedsController(t *testing.T) {
	f := newFixture()
	e := newEditor(t, f.root)
	if e.StartDrag(f.x.ID, geom.V(0, 0)) {
		t.Error("StartDrag succeeded without a controller")
	}
}

func TestHighlights(t *testing.T) {
	f := newFixture()
	e := newEditor(t, f.root)
	e.Select(f.print.ID)
	e.hover = f.x.ID
	e.popover = f.blank.ID
	e.droppable = f.mul.ID

	got := e.Highlights()
	want := []Highlight{
		{f.print.ID, HighlightSelection},
		{f.x.ID, HighlightHover},
		{f.blank.ID, HighlightContext},
		{f.mul.ID, HighlightDroppable},
	}
	if len(got) != len(want) {
		t.Fatalf("Highlights() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Highlights()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	_ = e.DoAt(ActionDelete, f.x.ID)
	for _, h := range e.Highlights() {
		if h.ID == f.x.ID {
			t.Error("highlight of a deleted node")
		}
	}
}

func TestClipboard(t *testing.T) {
	c := NewClipboard(2)
	a, b, d := expr.NewVariable("a"), expr.NewVariable("b"), expr.NewVariable("d")
	c.Add(a)
	c.Add(b)
	c.Add(d)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d", c.Len())
	}
	if x, _ := c.Use(1); x != expr.Expr(b) {
		t.Errorf("Use(1) = %v", x)
	}
	items := c.Items()
	if items[0] != expr.Expr(b) || items[1] != expr.Expr(d) {
		t.Errorf("Items() = %v", items)
	}
	if _, ok := c.Use(5); ok {
		t.Error("Use(5) succeeded")
	}
}
