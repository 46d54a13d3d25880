package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textcore/internal/editor"
)

func TestDefaultKeymap(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		key  Key
		want editor.Action
	}{
		{RuneKey('z', ModCtrl), editor.ActionUndo},
		{RuneKey('Z', ModCtrl), editor.ActionRedo},
		{SpecialKey(CodeLeft, ModShift), editor.ActionSelectLeft},
		{SpecialKey(CodeRight, ModCtrl|ModShift), editor.ActionSelectWordR},
		{SpecialKey(CodeTab, ModShift), editor.ActionUnindent},
		{SpecialKey(CodeEnter, ModNone), editor.ActionNewLine},
		{RuneKey('d', ModCtrl), editor.ActionDuplicateLine},
	}
	for _, tt := range tests {
		got, ok := km.Lookup(tt.key)
		require.True(t, ok, tt.key.String())
		assert.Equal(t, tt.want, got, tt.key.String())
	}

	_, ok := km.Lookup(RuneKey('q', ModAlt))
	assert.False(t, ok)
}

func TestDefaultBindingsAreKnownActions(t *testing.T) {
	for _, b := range DefaultKeymap().Bindings() {
		_, err := editor.ParseAction(string(b.Action))
		assert.NoError(t, err, b.Key)
	}
}

func TestBind(t *testing.T) {
	km := NewKeymap()
	require.NoError(t, km.Bind("Ctrl+Shift+K", editor.ActionDeleteLine))

	a, ok := km.Lookup(RuneKey('k', ModCtrl|ModShift))
	require.True(t, ok)
	assert.Equal(t, editor.ActionDeleteLine, a)

	err := km.Bind("ctrl+k", editor.Action("launch-rockets"))
	assert.ErrorIs(t, err, editor.ErrUnknownAction)

	require.NoError(t, km.Unbind("ctrl+shift+k"))
	_, ok = km.Lookup(RuneKey('k', ModCtrl|ModShift))
	assert.False(t, ok)
}

func TestApplyOverrides(t *testing.T) {
	km := DefaultKeymap()
	err := km.Apply(map[string]string{
		"ctrl+d": "delete-line",
		"ctrl+k": "",
		"alt+j":  "join-lines",
	})
	require.NoError(t, err)

	a, _ := km.Lookup(RuneKey('d', ModCtrl))
	assert.Equal(t, editor.ActionDeleteLine, a)
	_, ok := km.Lookup(RuneKey('k', ModCtrl))
	assert.False(t, ok)
	a, _ = km.Lookup(RuneKey('j', ModAlt))
	assert.Equal(t, editor.ActionJoinLines, a)
}

func TestApplyIsAtomic(t *testing.T) {
	km := DefaultKeymap()
	err := km.Apply(map[string]string{
		"ctrl+d": "delete-line",
		"ctrl+q": "no-such-action",
	})
	assert.ErrorIs(t, err, editor.ErrUnknownAction)

	a, _ := km.Lookup(RuneKey('d', ModCtrl))
	assert.Equal(t, editor.ActionDuplicateLine, a)

	err = km.Apply(map[string]string{"hyper+x": "undo"})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestResolve(t *testing.T) {
	km := DefaultKeymap()

	cmd, ok := km.Resolve(RuneKey('x', ModNone))
	require.True(t, ok)
	assert.Equal(t, Command{Text: "x"}, cmd)

	cmd, ok = km.Resolve(RuneKey('c', ModCtrl))
	require.True(t, ok)
	assert.Equal(t, Command{Action: editor.ActionCopy}, cmd)

	_, ok = km.Resolve(RuneKey('q', ModAlt))
	assert.False(t, ok)
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x"},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), "X"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModAlt), "alt+z"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModCtrl), "ctrl+f"},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "shift+left"},
		{"ctrl shift arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl|tcell.ModShift), "ctrl+shift+right"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "shift+tab"},
		{"del backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "backspace"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{"function key", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), "shift+f3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromTcell(tt.ev).String())
		})
	}
}

func TestPasteCollectsBracketedText(t *testing.T) {
	var p Paste

	_, consumed := p.Handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	assert.False(t, consumed)

	_, consumed = p.Handle(tcell.NewEventPaste(true))
	assert.True(t, consumed)
	assert.True(t, p.Active())
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
	} {
		_, consumed = p.Handle(ev)
		assert.True(t, consumed)
	}
	text, consumed := p.Handle(tcell.NewEventPaste(false))
	assert.True(t, consumed)
	assert.Equal(t, "hi\n\t", text)
	assert.False(t, p.Active())
}
