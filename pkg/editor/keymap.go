package editor

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/nav"
)

// Keys are named the way bubbletea prints them: "enter", "backspace",
// "tab", "up", "esc", " " for the space bar, and the character itself for
// everything printable.

// menuKeys bind keys to actions that also appear in the node menu.
var menuKeys = map[string]Action{
	" ":         ActionSmartSpace,
	"\\":        ActionDisable,
	"#":         ActionFoldComments,
	"backspace": ActionDelete,
	"c":         ActionCopy,
	"enter":     ActionEdit,
	"F":         ActionMoveToParent,
	"f":         ActionSmartMakeCall,
	"g":         ActionDemoAddString,
	"i":         ActionInsert,
	"I":         ActionInsertBefore,
	"m":         ActionDemoAddNumber,
	"n":         ActionNewLine,
	"N":         ActionNewLineBefore,
	"o":         ActionOpenEditor,
	"P":         ActionBarfUp,
	"q":         ActionComment,
	"r":         ActionReplace,
	"s":         ActionShuffle,
	"u":         ActionUndo,
	"U":         ActionRedo,
	"v":         ActionDemoAddVariable,
	"x":         ActionMove,
}

// aliasKeys are keyboard-only alternatives to menu keys.
var aliasKeys = map[string]Action{
	"d": ActionDelete,
	"e": ActionEdit,
}

// selectionKeys move the selection.
var selectionKeys = map[string]nav.SelectFn{
	"down":  nav.DownSmart,
	"left":  nav.LeftSmart,
	"right": nav.RightSmart,
	"up":    nav.UpSmart,
	"H":     nav.LeftSiblingSmart,
	"h":     nav.LeftSmart,
	"j":     nav.DownSmart,
	"k":     nav.UpSmart,
	"L":     nav.RightSiblingSmart,
	"l":     nav.RightSmart,
	"p":     nav.Parent,
	"tab":   nav.NextBlank,
}

// pasteIndex maps "1".."9" to clipboard entries 0..8 and "0" to entry 9.
func pasteIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	n, _ := strconv.Atoi(key)
	return (n + 9) % 10, true
}

// HandleKey runs the command bound to key. An open inline editor or popover
// gets the key first. It reports whether the key was bound.
func (e *Editor) HandleKey(key string) (bool, error) {
	if e.editing != nil {
		return e.editKey(key)
	}
	if e.popover != 0 {
		return e.popoverKey(key)
	}
	if a, ok := menuKeys[key]; ok {
		return true, e.Do(a)
	}
	if a, ok := aliasKeys[key]; ok {
		return true, e.Do(a)
	}
	if fn, ok := selectionKeys[key]; ok {
		e.Navigate(fn)
		return true, nil
	}
	if i, ok := pasteIndex(key); ok {
		return true, e.Paste(i)
	}
	return false, nil
}

// MenuItem is one entry of a node's menu.
type MenuItem struct {
	Action  Action `json:"action"`
	Label   string `json:"label"`
	Key     string `json:"key,omitempty"`
	Enabled bool   `json:"enabled"`
	Hidden  bool   `json:"hidden,omitempty"`
	// Separator items have no action and start a new group.
	Separator bool `json:"separator,omitempty"`
}

type menuEntry struct {
	action  Action
	label   string
	enabled func(e *Editor, n expr.Expr) bool
	hidden  bool
}

func forCalls(_ *Editor, n expr.Expr) bool {
	_, ok := n.(*expr.Call)
	return ok
}

func notBlank(_ *Editor, n expr.Expr) bool {
	_, ok := n.(*expr.Blank)
	return !ok
}

func notTopLevel(e *Editor, n expr.Expr) bool {
	return n.Meta().ID != e.tree.Meta().ID
}

// nil entries are separators.
var menu = []*menuEntry{
	{action: ActionCopy, label: "Copy"},
	{action: ActionEdit, label: "Edit..."},
	{action: ActionSmartSpace, label: "Add Space or Move Space Up", enabled: notTopLevel},
	{action: ActionOpenEditor, label: "Open Definition", enabled: forCalls},
	{action: ActionBarfUp, label: "Move Up", enabled: notTopLevel},
	{action: ActionShowDebug, label: "Toggle the Debug Overlay", hidden: true},
	nil,
	{action: ActionDelete, label: "Delete"},
	{action: ActionMove, label: "Cut"},
	{action: ActionReplace, label: "Delete and Add Space"},
	{action: ActionShuffle, label: "Cut and Add Space"},
	nil,
	{action: ActionNewLine, label: "New Line Below"},
	{action: ActionNewLineBefore, label: "New Line Above"},
	{action: ActionInsert, label: "New Argument After", enabled: forCalls},
	{action: ActionInsertBefore, label: "New Argument Before", enabled: forCalls},
	nil,
	{action: ActionComment, label: "Comment..."},
	{action: ActionDisable, label: "Disable", enabled: notBlank},
	nil,
	{action: ActionDemoAddVariable, label: "Make a Variable..."},
	{action: ActionDemoAddString, label: "Make a String..."},
	{action: ActionDemoAddNumber, label: "Make a Number..."},
	{action: ActionSmartMakeCall, label: "Turn Into a Function Call..."},
	{action: ActionMoveToParent, label: "Replace the Parent", enabled: notTopLevel},
}

// Menu lists the commands available on node id with their keys. Mutating
// commands are disabled in a frozen editor. It returns nil for unknown ids.
func (e *Editor) Menu(id expr.ID) []MenuItem {
	n, ok := expr.Find(e.tree, id)
	if !ok {
		return nil
	}
	keys := make(map[Action]string, len(menuKeys))
	for k, a := range menuKeys {
		keys[a] = k
	}

	items := make([]MenuItem, 0, len(menu))
	for _, m := range menu {
		if m == nil {
			items = append(items, MenuItem{Separator: true})
			continue
		}
		enabled := m.enabled == nil || m.enabled(e, n)
		if e.frozen && m.action.mutating() {
			enabled = false
		}
		items = append(items, MenuItem{
			Action:  m.action,
			Label:   m.label,
			Key:     keys[m.action],
			Enabled: enabled,
			Hidden:  m.hidden,
		})
	}
	return items
}

// Binding is a key and what it does, for help screens.
type Binding struct {
	Key  string `json:"key"`
	Does string `json:"does"`
}

var navNames = map[string]string{
	"down": "move down", "left": "move left", "right": "move right", "up": "move up",
	"H": "previous sibling", "h": "move left", "j": "move down", "k": "move up",
	"L": "next sibling", "l": "move right", "p": "select parent", "tab": "next blank",
}

// Bindings lists every key binding sorted by key.
func Bindings() []Binding {
	var out []Binding
	for k, a := range menuKeys {
		out = append(out, Binding{Key: k, Does: string(a)})
	}
	for k, a := range aliasKeys {
		out = append(out, Binding{Key: k, Does: string(a)})
	}
	for k := range selectionKeys {
		out = append(out, Binding{Key: k, Does: navNames[k]})
	}
	out = append(out, Binding{Key: "0-9", Does: "paste"})
	slices.SortFunc(out, func(a, b Binding) int { return strings.Compare(a.Key, b.Key) })
	return out
}
