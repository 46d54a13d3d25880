package input

import (
	"fmt"
	"sort"

	"github.com/dshills/textcore/internal/editor"
)

// Keymap binds canonical key names to editor actions.
type Keymap struct {
	bindings map[string]editor.Action
}

// NewKeymap returns an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[string]editor.Action)}
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for spec, a := range defaultBindings {
		k, err := ParseKey(spec)
		if err != nil {
			panic(fmt.Sprintf("input: bad default binding %q: %v", spec, err))
		}
		km.bindings[k.String()] = a
	}
	return km
}

var defaultBindings = map[string]editor.Action{
	"left":             editor.ActionMoveLeft,
	"right":            editor.ActionMoveRight,
	"up":               editor.ActionMoveUp,
	"down":             editor.ActionMoveDown,
	"ctrl+left":        editor.ActionWordLeft,
	"ctrl+right":       editor.ActionWordRight,
	"home":             editor.ActionLineStart,
	"end":              editor.ActionLineEnd,
	"pageup":           editor.ActionPageUp,
	"pagedown":         editor.ActionPageDown,
	"ctrl+home":        editor.ActionDocStart,
	"ctrl+end":         editor.ActionDocEnd,
	"shift+left":       editor.ActionSelectLeft,
	"shift+right":      editor.ActionSelectRight,
	"shift+up":         editor.ActionSelectUp,
	"shift+down":       editor.ActionSelectDown,
	"ctrl+shift+left":  editor.ActionSelectWordL,
	"ctrl+shift+right": editor.ActionSelectWordR,
	"shift+home":       editor.ActionSelectHome,
	"shift+end":        editor.ActionSelectEnd,
	"shift+pageup":     editor.ActionSelectPageUp,
	"shift+pagedown":   editor.ActionSelectPageDn,
	"ctrl+shift+home":  editor.ActionSelectDocHome,
	"ctrl+shift+end":   editor.ActionSelectDocEnd,
	"ctrl+a":           editor.ActionSelectAll,
	"ctrl+w":           editor.ActionSelectWord,
	"ctrl+l":           editor.ActionSelectLine,
	"esc":              editor.ActionCancel,

	"enter":        editor.ActionNewLine,
	"backspace":    editor.ActionBackspace,
	"delete":       editor.ActionDelete,
	"tab":          editor.ActionIndent,
	"shift+tab":    editor.ActionUnindent,
	"ctrl+j":       editor.ActionJoinLines,
	"ctrl+/":       editor.ActionToggleComment,
	"ctrl+k":       editor.ActionDeleteLine,
	"ctrl+d":       editor.ActionDuplicateLine,
	"ctrl+z":       editor.ActionUndo,
	"ctrl+y":       editor.ActionRedo,
	"ctrl+shift+z": editor.ActionRedo,
	"ctrl+x":       editor.ActionCut,
	"ctrl+c":       editor.ActionCopy,
	"ctrl+v":       editor.ActionPaste,

	"insert":   editor.ActionToggleReplace,
	"alt+z":    editor.ActionToggleWrap,
	"f3":       editor.ActionFindNext,
	"shift+f3": editor.ActionFindPrev,
	"ctrl+g":   editor.ActionFindNext,
}

// Bind maps a key name to an action, replacing any previous binding.
func (km *Keymap) Bind(spec string, action editor.Action) error {
	k, err := ParseKey(spec)
	if err != nil {
		return err
	}
	if _, err := editor.ParseAction(string(action)); err != nil {
		return fmt.Errorf("binding %q: %w", spec, err)
	}
	km.bindings[k.String()] = action
	return nil
}

// Unbind removes the binding for a key name.
func (km *Keymap) Unbind(spec string) error {
	k, err := ParseKey(spec)
	if err != nil {
		return err
	}
	delete(km.bindings, k.String())
	return nil
}

// Apply merges overrides from configuration. An empty action unbinds the
// key. Nothing is changed when any entry is invalid.
func (km *Keymap) Apply(overrides map[string]string) error {
	staged := make(map[string]string, len(overrides))
	for spec, name := range overrides {
		k, err := ParseKey(spec)
		if err != nil {
			return err
		}
		if name != "" {
			if _, err := editor.ParseAction(name); err != nil {
				return fmt.Errorf("binding %q: %w", spec, err)
			}
		}
		staged[k.String()] = name
	}
	for key, name := range staged {
		if name == "" {
			delete(km.bindings, key)
			continue
		}
		km.bindings[key] = editor.Action(name)
	}
	return nil
}

// Lookup returns the action bound to k.
func (km *Keymap) Lookup(k Key) (editor.Action, bool) {
	a, ok := km.bindings[k.String()]
	return a, ok
}

// Bindings returns the key names in sorted order with their actions.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.bindings))
	for key, a := range km.bindings {
		out = append(out, Binding{Key: key, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Binding is one key name and its action.
type Binding struct {
	Key    string
	Action editor.Action
}

// Command is what a key press asks the editor to do: run Action, or type
// Text when no action is bound.
type Command struct {
	Action editor.Action
	Text   string
}

// Resolve maps a key press to a command. ok is false for unbound keys
// that do not type text.
func (km *Keymap) Resolve(k Key) (cmd Command, ok bool) {
	if a, found := km.Lookup(k); found {
		return Command{Action: a}, true
	}
	if k.IsText() {
		return Command{Text: string(k.Rune)}, true
	}
	return Command{}, false
}
