package expr

import (
	"slices"
	"testing"

	"github.com/matzehuels/kale/pkg/errors"
)

type fixture struct {
	root  Expr
	print *Call
	hi    *Literal
	x     *Variable
	add   *Call
	one   *Literal
	mul   *Call
	a     *Variable
	blank *Blank
}

// newFixture builds (do (print "hi" x) (add 1 (mul a ?))).
func newFixture() fixture {
	var f fixture
	f.hi = NewLiteral(Text, "hi")
	f.x = NewVariable("x")
	f.print = NewCall("print", f.hi, f.x)
	f.one = NewLiteral(Number, "1")
	f.a = NewVariable("a")
	f.blank = NewBlank("")
	f.mul = NewCall("mul", f.a, f.blank)
	f.add = NewCall("add", f.one, f.mul)
	f.root = NewList(f.print, f.add)
	return f
}

const fixtureText = `(do (print "hi" x) (add 1 (mul a ?)))`

const absent = ID(1 << 62)

func TestGet(t *testing.T) {
	f := newFixture()

	got, err := Get(f.root, f.mul.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != Expr(f.mul) {
		t.Errorf("Get() = %v, want mul", Format(got))
	}

	_, err = Get(f.root, absent)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(absent) error = %v, want NOT_FOUND", err)
	}
	if _, ok := Find(f.root, absent); ok {
		t.Error("Find(absent) ok = true")
	}
	if !Contains(f.root, f.blank.ID) || Contains(f.root, absent) {
		t.Error("Contains() mismatch")
	}
}

func TestParents(t *testing.T) {
	f := newFixture()

	got := Parents(f.root, f.blank.ID)
	want := []ID{f.mul.ID, f.add.ID, f.root.Meta().ID}
	if ids := idsOf(got); !slices.Equal(ids, want) {
		t.Errorf("Parents() = %v, want %v", ids, want)
	}

	if p, ok := ParentOf(f.root, f.x.ID); !ok || p != Expr(f.print) {
		t.Errorf("ParentOf(x) = %v, %v", p, ok)
	}
	if _, ok := ParentOf(f.root, f.root.Meta().ID); ok {
		t.Error("ParentOf(root) ok = true")
	}
	if got := Parents(f.root, absent); got != nil {
		t.Errorf("Parents(absent) = %v, want nil", got)
	}
}

func TestSiblings(t *testing.T) {
	f := newFixture()

	sibs, ix := Siblings(f.root, f.x.ID)
	if ix != 1 || !slices.Equal(idsOf(sibs), []ID{f.hi.ID, f.x.ID}) {
		t.Errorf("Siblings(x) = %v, %d", idsOf(sibs), ix)
	}
	if sibs, ix := Siblings(f.root, f.root.Meta().ID); sibs != nil || ix != -1 {
		t.Errorf("Siblings(root) = %v, %d", sibs, ix)
	}
}

func TestFormat(t *testing.T) {
	f := newFixture()
	if got := Format(f.root); got != fixtureText {
		t.Errorf("Format() = %s, want %s", got, fixtureText)
	}
}

func TestUpdateDoesNotMutate(t *testing.T) {
	f := newFixture()
	ids := IDs(f.root)
	mulBefore, _ := Get(f.root, f.mul.ID)

	_ = Delete(f.root, f.x.ID)
	_ = Replace(f.root, f.a.ID, NewVariable("b"))
	_, _ = SmartSpace(f.root, f.print.ID)
	_ = BarfUp(f.root, f.blank.ID)
	_ = ToggleDisabled(f.root, f.add.ID)
	_ = SetComment(f.root, f.one.ID, "note")

	if got := Format(f.root); got != fixtureText {
		t.Errorf("tree changed to %s", got)
	}
	if got := IDs(f.root); !slices.Equal(got, ids) {
		t.Errorf("ids changed: %v, want %v", got, ids)
	}
	mulAfter, _ := Get(f.root, f.mul.ID)
	if mulAfter != mulBefore {
		t.Error("Get(mul) returned a different node after edits")
	}
	if f.one.Comment != "" || f.add.Disabled {
		t.Error("metadata of the original nodes changed")
	}
}

func TestUpdateSharesUntouchedSubtrees(t *testing.T) {
	f := newFixture()
	next := Delete(f.root, f.blank.ID)
	got, _ := Find(next, f.print.ID)
	if got != Expr(f.print) {
		t.Error("untouched subtree was copied")
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	f := newFixture()
	for _, id := range IDs(f.root) {
		n, err := Get(f.root, id)
		if err != nil {
			t.Fatal(err)
		}
		if got := Replace(f.root, id, n); !Equal(got, f.root) {
			t.Errorf("Replace(%s, Get(%s)) = %s", id, id, Format(got))
		}
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		target func(f fixture) ID
		want   string
	}{
		{"argument", func(f fixture) ID { return f.x.ID }, `(do (print "hi") (add 1 (mul a ?)))`},
		{"list item", func(f fixture) ID { return f.print.ID }, `(do (add 1 (mul a ?)))`},
		{"nested call", func(f fixture) ID { return f.mul.ID }, `(do (print "hi" x) (add 1))`},
		{"root", func(f fixture) ID { return f.root.Meta().ID }, `?empty`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			got := Delete(f.root, tt.target(f))
			if s := Format(got); s != tt.want {
				t.Errorf("Delete() = %s, want %s", s, tt.want)
			}
			if err := Validate(got); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	f := newFixture()
	if got := Delete(f.root, absent); got != f.root {
		t.Error("Delete(absent) returned a new tree")
	}
	called := false
	Update(f.root, absent, func(e Expr) Expr { called = true; return e })
	if called {
		t.Error("Update(absent) called f")
	}
}

func TestDeleteLastListItem(t *testing.T) {
	v := NewVariable("v")
	w := NewVariable("w")
	inner := &List{Data: Data{ID: NewID(), Comment: "note", Disabled: true}, Items: []Expr{v}}
	root := NewList(inner, w)

	got := Delete(root, v.ID)
	if s := Format(got); s != "(do ? w)" {
		t.Fatalf("Delete() = %s", s)
	}
	b, ok := Find(got, inner.ID)
	if _, isBlank := b.(*Blank); !ok || !isBlank {
		t.Fatalf("emptied list = %T, want *Blank keeping its identity", b)
	}
	if b.Meta().HasMeta() {
		t.Errorf("emptied list kept its metadata: %+v", b.Meta())
	}
}

func TestDeleteAllCallArgs(t *testing.T) {
	f := newFixture()
	got := Delete(Delete(f.root, f.a.ID), f.blank.ID)
	if s := Format(got); s != `(do (print "hi" x) (add 1 (mul)))` {
		t.Errorf("Delete() = %s", s)
	}
}

func TestResetIDs(t *testing.T) {
	f := newFixture()
	fresh := ResetIDs(f.root)

	if Format(fresh) != fixtureText {
		t.Errorf("ResetIDs changed structure: %s", Format(fresh))
	}
	old := IDs(f.root)
	for _, id := range IDs(fresh) {
		if slices.Contains(old, id) {
			t.Errorf("ResetIDs kept identity %s", id)
		}
	}
	if err := Validate(fresh); err != nil {
		t.Error(err)
	}
}

func TestReplaceID(t *testing.T) {
	f := newFixture()
	got := ReplaceID(f.add, f.x.ID)

	if got.Meta().ID != f.x.ID {
		t.Errorf("root id = %s, want %s", got.Meta().ID, f.x.ID)
	}
	old := IDs(f.add)
	for _, id := range IDs(got)[1:] {
		if slices.Contains(old, id) {
			t.Errorf("ReplaceID kept descendant identity %s", id)
		}
	}
}

func TestListFlattening(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		l := NewList(NewList(NewVariable("a"), NewVariable("b")), NewVariable("c"))
		if s := Format(l); s != "(do a b c)" {
			t.Errorf("NewList() = %s", s)
		}
	})

	t.Run("insert child", func(t *testing.T) {
		f := newFixture()
		got := InsertChild(f.root, f.root.Meta().ID, NewList(NewVariable("p"), NewVariable("q")), true)
		if s := Format(got); s != `(do (print "hi" x) (add 1 (mul a ?)) p q)` {
			t.Errorf("InsertChild() = %s", s)
		}
		for _, c := range Children(got) {
			if _, ok := c.(*List); ok {
				t.Error("list contains a nested list")
			}
		}
	})

	t.Run("insert sibling", func(t *testing.T) {
		f := newFixture()
		got := InsertSibling(f.root, f.print.ID, NewList(NewVariable("y")), true)
		if s := Format(got); s != `(do (print "hi" x) y (add 1 (mul a ?)))` {
			t.Errorf("InsertSibling() = %s", s)
		}
	})

	t.Run("commented list is kept", func(t *testing.T) {
		inner := &List{Data: Commented("group"), Items: []Expr{NewVariable("a")}}
		l := NewList(inner, NewVariable("b"))
		if len(l.Items) != 2 {
			t.Errorf("len(Items) = %d, want 2", len(l.Items))
		}
	})
}

func TestIdentityUniqueness(t *testing.T) {
	f := newFixture()
	root := f.root
	ops := []func(Expr, ID) Expr{
		func(r Expr, id ID) Expr { r, _ = SmartSpace(r, id); return r },
		func(r Expr, id ID) Expr { r, _ = InsertNewLine(r, id, true); return r },
		BarfUp,
		func(r Expr, id ID) Expr { return MakeCall(r, id, "f") },
		func(r Expr, id ID) Expr { return ReplaceFresh(r, id, f.add) },
		ReplaceParent,
		ToggleDisabled,
		Delete,
	}
	for i, id := range IDs(f.root) {
		for j, op := range ops {
			if (i+j)%3 != 0 {
				continue
			}
			root = op(root, id)
			if err := Validate(root); err != nil {
				t.Fatalf("op %d on %s: %v\n%s", j, id, err, Format(root))
			}
		}
	}
}

func TestUpdateChildren(t *testing.T) {
	f := newFixture()
	called := false
	got := UpdateChildren(f.x, func(xs []Expr) []Expr { called = true; return xs })
	if got != Expr(f.x) || called {
		t.Error("UpdateChildren on a leaf should be a no-op")
	}

	rev := UpdateChildren(f.print, func(xs []Expr) []Expr {
		slices.Reverse(xs)
		return xs
	})
	if s := Format(rev); s != `(print x "hi")` {
		t.Errorf("UpdateChildren() = %s", s)
	}
	if s := Format(f.print); s != `(print "hi" x)` {
		t.Errorf("original changed to %s", s)
	}
}

func TestAssignToData(t *testing.T) {
	f := newFixture()
	comment := "todo"
	got := AssignToData(f.print, DataPatch{Comment: &comment})

	if got.Meta().Comment != "todo" || got.Meta().ID != f.print.ID {
		t.Errorf("AssignToData() = %+v", got.Meta())
	}
	if len(Children(got)) != 2 {
		t.Error("AssignToData changed children")
	}
	if f.print.Comment != "" {
		t.Error("original changed")
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		e    Expr
		want string
		ok   bool
	}{
		{NewLiteral(Text, "s"), "s", true},
		{NewVariable("v"), "v", true},
		{NewCall("fn"), "fn", true},
		{NewBlank("hint"), "", false},
		{NewList(), "", false},
	}
	for _, tt := range tests {
		got, ok := Value(tt.e)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Value(%s) = %q, %v, want %q, %v", Format(tt.e), got, ok, tt.want, tt.ok)
		}
	}
}

func TestValidate(t *testing.T) {
	x := NewVariable("x")
	tests := []struct {
		name    string
		root    Expr
		wantErr bool
	}{
		{"well formed", newFixture().root, false},
		{"duplicate", &List{Data: NewData(), Items: []Expr{x, x}}, true},
		{"zero id", &Variable{Name: "z"}, true},
		{"nil child", &Call{Data: NewData(), Fn: "f", Args: []Expr{nil}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.root)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvariantViolation) {
				t.Errorf("code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestMustValidatePanics(t *testing.T) {
	x := NewVariable("x")
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustValidate did not panic")
		}
	}()
	MustValidate(NewCall("f", x, x))
}

func idsOf(xs []Expr) []ID {
	out := make([]ID, len(xs))
	for i, x := range xs {
		out[i] = x.Meta().ID
	}
	return out
}
