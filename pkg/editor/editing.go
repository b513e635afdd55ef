package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/nav"
)

// Field is the text an inline editor changes.
type Field int

const (
	FieldValue Field = iota
	FieldComment
)

// Editing describes an open inline editor.
type Editing struct {
	Target expr.ID
	Field  Field
	Value  string
	// Created is set when the node was just made by the action that opened
	// the editor.
	Created bool

	before expr.Expr
}

// Editing returns the open inline editor, if any.
func (e *Editor) Editing() (Editing, bool) {
	if e.editing == nil {
		return Editing{}, false
	}
	return *e.editing, true
}

// Popover returns the blank whose "make a ..." menu is open, if any.
func (e *Editor) Popover() (expr.ID, bool) {
	return e.popover, e.popover != 0
}

// StartEditing opens the value editor on id. Blanks have no value; for them
// the popover offering a node kind opens instead.
func (e *Editor) StartEditing(id expr.ID) bool {
	if e.frozen {
		return false
	}
	n, ok := expr.Find(e.tree, id)
	if !ok {
		return false
	}
	if _, ok := expr.Value(n); ok {
		e.startEditing(id, FieldValue, false)
		return true
	}
	if _, ok := n.(*expr.Blank); ok {
		e.popover = id
		return true
	}
	return false
}

func (e *Editor) startEditing(id expr.ID, field Field, created bool) {
	n, ok := expr.Find(e.tree, id)
	if !ok {
		return
	}
	value := n.Meta().Comment
	if field == FieldValue {
		value, _ = expr.Value(n)
	}
	e.popover = 0
	e.editing = &Editing{Target: id, Field: field, Value: value, Created: created, before: e.tree}
}

// SetEditValue changes the text of the open inline editor. Value edits show
// up in the tree immediately; comments apply when submitted.
func (e *Editor) SetEditValue(v string) error {
	ed := e.editing
	if ed == nil {
		return nil
	}
	ed.Value = v
	if ed.Field != FieldValue {
		return nil
	}
	return e.live(expr.Update(e.tree, ed.Target, func(x expr.Expr) expr.Expr {
		return expr.WithValue(x, v)
	}))
}

// StopEditing closes the inline editor. A submitted value moves the
// selection on to the next node; an empty value turns the node back into a
// blank. Dismissing a comment discards it.
func (e *Editor) StopEditing(submit bool) error {
	ed := e.editing
	if ed == nil {
		return nil
	}
	e.editing = nil

	if ed.Field == FieldComment {
		if !submit {
			return nil
		}
		next := expr.SetComment(e.tree, ed.Target, strings.TrimSpace(ed.Value))
		return e.commit(ActionComment, next, ed.Target)
	}

	node, _ := expr.Find(e.tree, ed.Target)
	next := expr.SetValue(e.tree, ed.Target, ed.Value)
	if expr.Equal(next, ed.before) {
		next = ed.before
	}
	if err := e.swap(ActionSetValue, next, ed.Target, ed.before); err != nil {
		return err
	}
	if _, isCall := node.(*expr.Call); submit && ed.Value != "" && !(ed.Created && isCall) {
		e.Navigate(nav.RightSmart)
	}
	return nil
}

// editKey feeds a key to the open inline editor.
func (e *Editor) editKey(key string) (bool, error) {
	switch key {
	case "enter":
		return true, e.StopEditing(true)
	case "esc":
		return true, e.StopEditing(false)
	case "backspace":
		v := e.editing.Value
		if v == "" {
			return true, nil
		}
		_, size := utf8.DecodeLastRuneInString(v)
		return true, e.SetEditValue(v[:len(v)-size])
	case "space":
		key = " "
	}
	if r, size := utf8.DecodeRuneInString(key); size == len(key) && unicode.IsPrint(r) {
		return true, e.SetEditValue(e.editing.Value + key)
	}
	return false, nil
}

// popoverKey picks a node kind for the blank under the popover.
func (e *Editor) popoverKey(key string) (bool, error) {
	target := e.popover
	var x expr.Expr
	switch key {
	case "f":
		x = expr.NewCall("")
	case "v":
		x = expr.NewVariable("")
	case "g":
		x = expr.NewLiteral(expr.Text, "")
	case "m":
		x = expr.NewLiteral(expr.Number, "")
	case "esc":
		e.popover = 0
		return true, nil
	default:
		return false, nil
	}
	e.popover = 0
	return true, e.replaceAndEdit(ActionEdit, target, x)
}
