package editor

import (
	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
)

// Action names an editor command.
type Action string

const (
	ActionDelete          Action = "delete"
	ActionReplace         Action = "replace"
	ActionMove            Action = "move"
	ActionShuffle         Action = "shuffle"
	ActionCopy            Action = "copy"
	ActionInsert          Action = "insert"
	ActionInsertBefore    Action = "insertBefore"
	ActionFoldComments    Action = "foldComments"
	ActionComment         Action = "comment"
	ActionDisable         Action = "disable"
	ActionEdit            Action = "edit"
	ActionOpenEditor      Action = "openEditor"
	ActionNewLine         Action = "newLine"
	ActionNewLineBefore   Action = "newLineBefore"
	ActionMoveToParent    Action = "moveToParent"
	ActionSmartMakeCall   Action = "smartMakeCall"
	ActionBarfUp          Action = "barfUp"
	ActionSmartSpace      Action = "smartSpace"
	ActionDemoAddVariable Action = "demoAddVariable"
	ActionDemoAddString   Action = "demoAddString"
	ActionDemoAddNumber   Action = "demoAddNumber"
	ActionShowDebug       Action = "showDebugOverlay"
	ActionUndo            Action = "undo"
	ActionRedo            Action = "redo"

	// Recorded by edits that do not come from the action table.
	ActionLoad     Action = "load"
	ActionPaste    Action = "paste"
	ActionSetValue Action = "setValue"
	ActionDrop     Action = "drop"
	ActionDragOut  Action = "dragOut"
)

// mutating reports whether a frozen editor must refuse a.
func (a Action) mutating() bool {
	switch a {
	case ActionCopy, ActionFoldComments, ActionOpenEditor, ActionShowDebug:
		return false
	}
	return true
}

// Do runs action a on the selection.
func (e *Editor) Do(a Action) error {
	return e.DoAt(a, e.sel)
}

// DoAt runs action a on node id. Unknown actions are an INVALID_INPUT error;
// actions on a missing node, or mutations of a frozen editor, do nothing.
func (e *Editor) DoAt(a Action, id expr.ID) error {
	fn, ok := e.actions()[a]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %q", a)
	}
	if e.frozen && a.mutating() {
		return nil
	}
	if !expr.Contains(e.tree, id) {
		return nil
	}
	return fn(id)
}

func (e *Editor) actions() map[Action]func(expr.ID) error {
	return map[Action]func(expr.ID) error{
		ActionDelete: func(id expr.ID) error { return e.remove(ActionDelete, id) },
		ActionReplace: func(id expr.ID) error {
			return e.commit(ActionReplace, expr.ReplaceFresh(e.tree, id, expr.NewBlank("")), id)
		},
		ActionMove: func(id expr.ID) error {
			e.copyNode(id)
			return e.remove(ActionMove, id)
		},
		ActionShuffle: func(id expr.ID) error {
			e.copyNode(id)
			return e.commit(ActionShuffle, expr.ReplaceFresh(e.tree, id, expr.NewBlank("")), id)
		},
		ActionCopy: func(id expr.ID) error {
			e.copyNode(id)
			return nil
		},
		ActionInsert:       func(id expr.ID) error { return e.insertBlank(ActionInsert, id, true) },
		ActionInsertBefore: func(id expr.ID) error { return e.insertBlank(ActionInsertBefore, id, false) },
		ActionFoldComments: func(expr.ID) error {
			e.foldComments = !e.foldComments
			return e.relayout()
		},
		ActionComment: func(id expr.ID) error {
			e.startEditing(id, FieldComment, false)
			return nil
		},
		ActionDisable: func(id expr.ID) error {
			return e.commit(ActionDisable, expr.ToggleDisabled(e.tree, id), id)
		},
		ActionEdit: func(id expr.ID) error {
			e.StartEditing(id)
			return nil
		},
		ActionOpenEditor: func(id expr.ID) error {
			if c, ok := expr.Find(e.tree, id); ok && e.onOpen != nil {
				if call, ok := c.(*expr.Call); ok {
					e.onOpen(call.Fn)
				}
			}
			return nil
		},
		ActionNewLine: func(id expr.ID) error {
			next, blank := expr.InsertNewLine(e.tree, id, true)
			return e.commit(ActionNewLine, next, blank)
		},
		ActionNewLineBefore: func(id expr.ID) error {
			next, blank := expr.InsertNewLine(e.tree, id, false)
			return e.commit(ActionNewLineBefore, next, blank)
		},
		ActionMoveToParent: func(id expr.ID) error {
			return e.commit(ActionMoveToParent, expr.ReplaceParent(e.tree, id), 0)
		},
		ActionSmartMakeCall: func(id expr.ID) error {
			node, _ := expr.Find(e.tree, id)
			_, blank := node.(*expr.Blank)
			if err := e.commit(ActionSmartMakeCall, expr.MakeCall(e.tree, id, ""), id); err != nil {
				return err
			}
			e.startEditing(id, FieldValue, blank)
			return nil
		},
		ActionBarfUp: func(id expr.ID) error {
			return e.commit(ActionBarfUp, expr.BarfUp(e.tree, id), id)
		},
		ActionSmartSpace: func(id expr.ID) error {
			next, sel := expr.SmartSpace(e.tree, id)
			return e.commit(ActionSmartSpace, next, sel)
		},
		ActionDemoAddVariable: func(id expr.ID) error {
			return e.replaceAndEdit(ActionDemoAddVariable, id, expr.NewVariable(""))
		},
		ActionDemoAddString: func(id expr.ID) error {
			return e.replaceAndEdit(ActionDemoAddString, id, expr.NewLiteral(expr.Text, ""))
		},
		ActionDemoAddNumber: func(id expr.ID) error {
			return e.replaceAndEdit(ActionDemoAddNumber, id, expr.NewLiteral(expr.Number, ""))
		},
		ActionShowDebug: func(expr.ID) error {
			e.debug = !e.debug
			return nil
		},
		ActionUndo: func(expr.ID) error {
			_, err := e.Undo()
			return err
		},
		ActionRedo: func(expr.ID) error {
			_, err := e.Redo()
			return err
		},
	}
}

func (e *Editor) copyNode(id expr.ID) {
	if n, ok := expr.Find(e.tree, id); ok {
		e.clipboard.Add(n)
	}
}

// Paste replaces the selection with clipboard entry i, most recent first.
func (e *Editor) Paste(i int) error {
	if e.frozen {
		return nil
	}
	x, ok := e.clipboard.Use(i)
	if !ok {
		return nil
	}
	return e.commit(ActionPaste, expr.ReplaceFresh(e.tree, e.sel, x), e.sel)
}

func (e *Editor) insertBlank(a Action, id expr.ID, after bool) error {
	blank := expr.NewBlank("")
	return e.commit(a, expr.InsertSibling(e.tree, id, blank, after), blank.ID)
}

// replaceAndEdit swaps x in for id, keeping the identity, and opens the value
// editor on it.
func (e *Editor) replaceAndEdit(a Action, id expr.ID, x expr.Expr) error {
	if err := e.commit(a, expr.ReplaceFresh(e.tree, id, x), id); err != nil {
		return err
	}
	e.startEditing(id, FieldValue, true)
	return nil
}
