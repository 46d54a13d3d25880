package input

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var tcellCodes = map[tcell.Key]Code{
	tcell.KeyEnter:      CodeEnter,
	tcell.KeyEscape:     CodeEscape,
	tcell.KeyTab:        CodeTab,
	tcell.KeyBackspace:  CodeBackspace,
	tcell.KeyBackspace2: CodeBackspace,
	tcell.KeyDelete:     CodeDelete,
	tcell.KeyInsert:     CodeInsert,
	tcell.KeyUp:         CodeUp,
	tcell.KeyDown:       CodeDown,
	tcell.KeyLeft:       CodeLeft,
	tcell.KeyRight:      CodeRight,
	tcell.KeyHome:       CodeHome,
	tcell.KeyEnd:        CodeEnd,
	tcell.KeyPgUp:       CodePageUp,
	tcell.KeyPgDn:       CodePageDown,
	tcell.KeyF1:         CodeF1,
	tcell.KeyF2:         CodeF2,
	tcell.KeyF3:         CodeF3,
	tcell.KeyF4:         CodeF4,
	tcell.KeyF5:         CodeF5,
	tcell.KeyF6:         CodeF6,
	tcell.KeyF7:         CodeF7,
	tcell.KeyF8:         CodeF8,
	tcell.KeyF9:         CodeF9,
	tcell.KeyF10:        CodeF10,
	tcell.KeyF11:        CodeF11,
	tcell.KeyF12:        CodeF12,
}

// Control codes that terminals send for ctrl plus punctuation.
var tcellCtrlPunct = map[tcell.Key]rune{
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '/',
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	return mod
}

// FromTcell converts a tcell key event.
func FromTcell(ev *tcell.EventKey) Key {
	mod := fromTcellMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if mod.Has(ModCtrl) && !mod.Has(ModShift) {
			r = unicode.ToLower(r)
		}
		return RuneKey(r, mod)
	case k == tcell.KeyBacktab:
		return SpecialKey(CodeTab, mod|ModShift)
	}
	if c, ok := tcellCodes[k]; ok {
		return SpecialKey(c, mod)
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return RuneKey(rune('a'+int(k-tcell.KeyCtrlA)), mod|ModCtrl)
	}
	if r, ok := tcellCtrlPunct[k]; ok {
		return RuneKey(r, mod|ModCtrl)
	}
	return Key{Code: CodeNone, Mod: mod}
}

// Paste gathers the key events of a bracketed paste into one string.
type Paste struct {
	active bool
	text   strings.Builder
}

// Handle feeds one event. consumed reports that the event belonged to a
// paste; text is the pasted content once the paste ends.
func (p *Paste) Handle(ev tcell.Event) (text string, consumed bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			p.active = true
			p.text.Reset()
			return "", true
		}
		p.active = false
		text = p.text.String()
		p.text.Reset()
		return text, true
	case *tcell.EventKey:
		if !p.active {
			return "", false
		}
		switch e.Key() {
		case tcell.KeyRune:
			p.text.WriteRune(e.Rune())
		case tcell.KeyEnter, tcell.KeyCtrlJ:
			p.text.WriteByte('\n')
		case tcell.KeyTab:
			p.text.WriteByte('\t')
		}
		return "", true
	}
	return "", false
}

// Active reports whether a paste is in progress.
func (p *Paste) Active() bool {
	return p.active
}
