package expr

import "testing"

func TestInsertSibling(t *testing.T) {
	tests := []struct {
		name   string
		target func(f fixture) ID
		after  bool
		want   string
	}{
		{"after argument", func(f fixture) ID { return f.hi.ID }, true, `(do (print "hi" v x) (add 1 (mul a ?)))`},
		{"before argument", func(f fixture) ID { return f.hi.ID }, false, `(do (print v "hi" x) (add 1 (mul a ?)))`},
		{"after list item", func(f fixture) ID { return f.add.ID }, true, `(do (print "hi" x) (add 1 (mul a ?)) v)`},
		{"root list", func(f fixture) ID { return f.root.Meta().ID }, false, `(do v (print "hi" x) (add 1 (mul a ?)))`},
		{"absent", func(f fixture) ID { return absent }, true, fixtureText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			got := InsertSibling(f.root, tt.target(f), NewVariable("v"), tt.after)
			if s := Format(got); s != tt.want {
				t.Errorf("InsertSibling() = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestInsertSiblingOfRootCall(t *testing.T) {
	root := NewCall("f")
	got := InsertSibling(root, root.ID, NewVariable("v"), false)
	if s := Format(got); s != "(do v (f))" {
		t.Errorf("InsertSibling() = %s", s)
	}
}

func TestInsertChild(t *testing.T) {
	f := newFixture()
	first := InsertChild(f.root, f.mul.ID, NewVariable("v"), false)
	if s := Format(first); s != `(do (print "hi" x) (add 1 (mul v a ?)))` {
		t.Errorf("InsertChild(first) = %s", s)
	}
	last := InsertChild(f.root, f.mul.ID, NewVariable("v"), true)
	if s := Format(last); s != `(do (print "hi" x) (add 1 (mul a ? v)))` {
		t.Errorf("InsertChild(last) = %s", s)
	}
	leaf := InsertChild(f.root, f.x.ID, NewVariable("v"), true)
	if s := Format(leaf); s != fixtureText {
		t.Errorf("InsertChild(leaf) = %s", s)
	}
}

func TestBarfUp(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		f := newFixture()
		got := BarfUp(f.root, f.blank.ID)
		if s := Format(got); s != `(do (print "hi" x) (add 1 (mul a) ?))` {
			t.Errorf("BarfUp() = %s", s)
		}
		if !Contains(got, f.blank.ID) {
			t.Error("barfed node lost its identity")
		}
	})

	t.Run("top level list", func(t *testing.T) {
		f := newFixture()
		if got := BarfUp(f.root, f.print.ID); got != f.root {
			t.Errorf("BarfUp() = %s, want unchanged", Format(got))
		}
	})

	t.Run("root call", func(t *testing.T) {
		v := NewVariable("v")
		root := NewCall("f", v)
		if got := BarfUp(root, v.ID); got != root {
			t.Errorf("BarfUp() = %s, want unchanged", Format(got))
		}
	})

	t.Run("root", func(t *testing.T) {
		f := newFixture()
		if got := BarfUp(f.root, f.root.Meta().ID); got != f.root {
			t.Error("BarfUp(root) changed the tree")
		}
	})
}

func TestSmartSpace(t *testing.T) {
	t.Run("blank barfs up", func(t *testing.T) {
		f := newFixture()
		got, sel := SmartSpace(f.root, f.blank.ID)
		if s := Format(got); s != `(do (print "hi" x) (add 1 (mul a) ?))` {
			t.Errorf("SmartSpace() = %s", s)
		}
		if sel != f.blank.ID {
			t.Errorf("selection = %s, want %s", sel, f.blank.ID)
		}
	})

	t.Run("call gets first argument", func(t *testing.T) {
		f := newFixture()
		got, sel := SmartSpace(f.root, f.print.ID)
		if s := Format(got); s != `(do (print ? "hi" x) (add 1 (mul a ?)))` {
			t.Errorf("SmartSpace() = %s", s)
		}
		if n, ok := Find(got, sel); !ok {
			t.Error("selection not in tree")
		} else if _, isBlank := n.(*Blank); !isBlank {
			t.Errorf("selection = %T, want *Blank", n)
		}
	})

	t.Run("leaf gets next sibling", func(t *testing.T) {
		f := newFixture()
		got, _ := SmartSpace(f.root, f.x.ID)
		if s := Format(got); s != `(do (print "hi" x ?) (add 1 (mul a ?)))` {
			t.Errorf("SmartSpace() = %s", s)
		}
	})
}

func TestInsertNewLine(t *testing.T) {
	t.Run("list item", func(t *testing.T) {
		f := newFixture()
		got, id := InsertNewLine(f.root, f.print.ID, true)
		if s := Format(got); s != `(do (print "hi" x) ? (add 1 (mul a ?)))` {
			t.Errorf("InsertNewLine() = %s", s)
		}
		if !Contains(got, id) {
			t.Error("new blank not in tree")
		}
	})

	t.Run("above list", func(t *testing.T) {
		f := newFixture()
		got, _ := InsertNewLine(f.root, f.root.Meta().ID, false)
		if s := Format(got); s != `(do ? (print "hi" x) (add 1 (mul a ?)))` {
			t.Errorf("InsertNewLine() = %s", s)
		}
	})

	t.Run("argument", func(t *testing.T) {
		f := newFixture()
		got, _ := InsertNewLine(f.root, f.x.ID, true)
		if s := Format(got); s != `(do (print "hi" (do x ?)) (add 1 (mul a ?)))` {
			t.Errorf("InsertNewLine() = %s", s)
		}
	})
}

func TestMakeCall(t *testing.T) {
	f := newFixture()
	got := MakeCall(f.root, f.x.ID, "str")
	if s := Format(got); s != `(do (print "hi" (str x)) (add 1 (mul a ?)))` {
		t.Errorf("MakeCall() = %s", s)
	}
	call, _ := Find(got, f.x.ID)
	c, ok := call.(*Call)
	if !ok {
		t.Fatalf("node %s = %T, want *Call", f.x.ID, call)
	}
	if c.Args[0].Meta().ID == f.x.ID {
		t.Error("wrapped node kept the identity taken by the call")
	}

	blank := MakeCall(f.root, f.blank.ID, "f")
	if s := Format(blank); s != `(do (print "hi" x) (add 1 (mul a (f))))` {
		t.Errorf("MakeCall(blank) = %s", s)
	}
}

func TestReplaceParent(t *testing.T) {
	f := newFixture()
	got := ReplaceParent(f.root, f.a.ID)
	if s := Format(got); s != `(do (print "hi" x) (add 1 (do a ?)))` {
		t.Errorf("ReplaceParent() = %s", s)
	}
	if n, _ := Find(got, f.mul.ID); n == nil {
		t.Error("parent identity lost")
	} else if _, ok := n.(*List); !ok {
		t.Errorf("parent = %T, want *List", n)
	}
	if got := ReplaceParent(f.root, f.root.Meta().ID); got != f.root {
		t.Error("ReplaceParent(root) changed the tree")
	}
}

func TestReplaceFresh(t *testing.T) {
	f := newFixture()
	got := ReplaceFresh(f.root, f.blank.ID, f.print)
	if s := Format(got); s != `(do (print "hi" x) (add 1 (mul a (print "hi" x))))` {
		t.Errorf("ReplaceFresh() = %s", s)
	}
	if err := Validate(got); err != nil {
		t.Error(err)
	}
	if got := ReplaceFresh(f.root, absent, f.print); got != f.root {
		t.Error("ReplaceFresh(absent) changed the tree")
	}
}

func TestToggleDisabled(t *testing.T) {
	f := newFixture()
	got := ToggleDisabled(f.root, f.x.ID)
	if s := Format(got); s != `(do (print "hi" #_x) (add 1 (mul a ?)))` {
		t.Errorf("ToggleDisabled() = %s", s)
	}
	if s := Format(ToggleDisabled(got, f.x.ID)); s != fixtureText {
		t.Errorf("ToggleDisabled twice = %s", s)
	}
	if s := Format(ToggleDisabled(f.root, f.blank.ID)); s != fixtureText {
		t.Errorf("ToggleDisabled(blank) = %s", s)
	}
}

func TestSetComment(t *testing.T) {
	f := newFixture()
	got := SetComment(f.root, f.add.ID, "sum")
	n, _ := Find(got, f.add.ID)
	if n.Meta().Comment != "sum" {
		t.Errorf("Comment = %q", n.Meta().Comment)
	}
	cleared, _ := Find(SetComment(got, f.add.ID, ""), f.add.ID)
	if cleared.Meta().Comment != "" {
		t.Error("empty comment did not clear")
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name   string
		target func(f fixture) ID
		value  string
		want   string
	}{
		{"rename variable", func(f fixture) ID { return f.x.ID }, "y", `(do (print "hi" y) (add 1 (mul a ?)))`},
		{"rename call", func(f fixture) ID { return f.mul.ID }, "sub", `(do (print "hi" x) (add 1 (sub a ?)))`},
		{"empty becomes blank", func(f fixture) ID { return f.hi.ID }, "", `(do (print ? x) (add 1 (mul a ?)))`},
		{"blank has no value", func(f fixture) ID { return f.blank.ID }, "z", fixtureText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			got := SetValue(f.root, tt.target(f), tt.value)
			if s := Format(got); s != tt.want {
				t.Errorf("SetValue() = %s, want %s", s, tt.want)
			}
			if !Contains(got, tt.target(f)) {
				t.Error("identity lost")
			}
		})
	}
}
