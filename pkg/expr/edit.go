package expr

// ============================================================================
// Edit algebra
// ============================================================================
//
// Every structural command a host issues is composed from Update, Replace,
// ResetIDs and ReplaceID. None of these functions fail: an identity that is
// not in the tree leaves the tree unchanged.

// Delete removes the node id from the tree.
func Delete(root Expr, id ID) Expr {
	return Update(root, id, func(Expr) Expr { return nil })
}

// ReplaceFresh substitutes n for the node id. The substitute's descendants
// get fresh identities and its root takes over id, so n may be a copy of a
// subtree that already occurs elsewhere.
func ReplaceFresh(root Expr, id ID, n Expr) Expr {
	if !Contains(root, id) {
		return root
	}
	return Replace(root, id, ReplaceID(n, id))
}

// InsertChild inserts x as the first (or last) child of the container
// target. Leaves are left unchanged.
func InsertChild(root Expr, target ID, x Expr, last bool) Expr {
	return Update(root, target, func(e Expr) Expr {
		return UpdateChildren(e, func(xs []Expr) []Expr {
			if last {
				return append(xs, x)
			}
			return append([]Expr{x}, xs...)
		})
	})
}

// InsertSibling inserts x directly after (or before) target. Inserting next
// to the root wraps both in a new list, unless the root already is a plain
// list, in which case x joins it.
func InsertSibling(root Expr, target ID, x Expr, after bool) Expr {
	if root.Meta().ID == target {
		if l, ok := root.(*List); ok && !l.HasMeta() {
			return InsertChild(root, target, x, after)
		}
		if after {
			return NewList(root, x)
		}
		return NewList(x, root)
	}
	parent, ok := ParentOf(root, target)
	if !ok {
		return root
	}
	return Replace(root, parent.Meta().ID, UpdateChildren(parent, func(xs []Expr) []Expr {
		return insertSibling(xs, target, x, after)
	}))
}

func insertSibling(xs []Expr, target ID, x Expr, after bool) []Expr {
	out := make([]Expr, 0, len(xs)+1)
	for _, c := range xs {
		if c.Meta().ID == target && !after {
			out = append(out, x)
		}
		out = append(out, c)
		if c.Meta().ID == target && after {
			out = append(out, x)
		}
	}
	return out
}

// InsertNewLine puts a fresh blank on a new line below (or above) target and
// returns the new tree together with the blank's identity. Targets that are
// lists receive the blank as their last (or first) item; anything else is
// paired with the blank in a list, which merges into an enclosing list.
func InsertNewLine(root Expr, target ID, below bool) (Expr, ID) {
	blank := NewBlank("")
	next := Update(root, target, func(e Expr) Expr {
		if l, ok := e.(*List); ok {
			return UpdateChildren(l, func(xs []Expr) []Expr {
				if below {
					return append(xs, blank)
				}
				return append([]Expr{blank}, xs...)
			})
		}
		if below {
			return NewList(e, blank)
		}
		return NewList(blank, e)
	})
	return next, blank.ID
}

// BarfUp moves id one nesting level up: it is removed from its parent and
// reinserted as the parent's next sibling. Children of the root are never
// barfed out of it.
func BarfUp(root Expr, id ID) Expr {
	node, ok := Find(root, id)
	if !ok {
		return root
	}
	parent, ok := ParentOf(root, id)
	if !ok {
		return root
	}
	if parent.Meta().ID == root.Meta().ID {
		return root
	}
	next := Delete(root, id)
	return InsertSibling(next, parent.Meta().ID, node, true)
}

// MakeCall turns id into a call of fn. A blank becomes a call without
// arguments; any other node becomes the single argument of the new call. The
// call takes over id and the wrapped subtree gets fresh identities.
func MakeCall(root Expr, id ID, fn string) Expr {
	target, ok := Find(root, id)
	if !ok {
		return root
	}
	if _, blank := target.(*Blank); blank {
		return ReplaceFresh(root, id, NewCall(fn))
	}
	return ReplaceFresh(root, id, NewCall(fn, target))
}

// ReplaceParent replaces the parent of id with a list of the parent's
// children, keeping the parent's identity.
func ReplaceParent(root Expr, id ID) Expr {
	parent, ok := ParentOf(root, id)
	if !ok {
		return root
	}
	l := &List{Data: Data{ID: parent.Meta().ID}, Items: flatten(cloneSlice(Children(parent)))}
	return Replace(root, l.ID, l)
}

// SmartSpace is the space-bar command. On a blank it barfs the blank up; on a
// container it inserts a blank as the first child; on anything else it
// inserts a blank after it. It returns the identity that should be selected.
func SmartSpace(root Expr, id ID) (Expr, ID) {
	target, ok := Find(root, id)
	if !ok {
		return root, id
	}
	switch target.(type) {
	case *Blank:
		return BarfUp(root, id), id
	case *Call, *List:
		blank := NewBlank("")
		return InsertChild(root, id, blank, false), blank.ID
	default:
		blank := NewBlank("")
		return InsertSibling(root, id, blank, true), blank.ID
	}
}

// ToggleDisabled flips the disabled flag of id. Blanks cannot be disabled.
func ToggleDisabled(root Expr, id ID) Expr {
	return Update(root, id, func(e Expr) Expr {
		if _, ok := e.(*Blank); ok {
			return e
		}
		disabled := !e.Meta().Disabled
		return AssignToData(e, DataPatch{Disabled: &disabled})
	})
}

// SetComment sets (or with an empty string clears) the comment of id.
func SetComment(root Expr, id ID, comment string) Expr {
	return Update(root, id, func(e Expr) Expr {
		return AssignToData(e, DataPatch{Comment: &comment})
	})
}

// SetValue replaces the value of id. An empty value turns the node into a
// blank with the same identity; nodes without a value are left unchanged.
func SetValue(root Expr, id ID, value string) Expr {
	return Update(root, id, func(e Expr) Expr {
		if _, ok := Value(e); !ok {
			return e
		}
		if value == "" {
			return &Blank{Data: Data{ID: e.Meta().ID}}
		}
		return WithValue(e, value)
	})
}
