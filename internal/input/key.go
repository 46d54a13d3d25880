package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptyKey   = errors.New("empty key name")
	ErrInvalidKey = errors.New("invalid key name")
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// modifierNames is in canonical output order.
var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

func modifierFromName(name string) Modifier {
	switch name {
	case "ctrl", "control", "c":
		return ModCtrl
	case "alt", "opt", "option", "a":
		return ModAlt
	case "shift", "s":
		return ModShift
	case "meta", "cmd", "super", "win", "m":
		return ModMeta
	}
	return ModNone
}

// Code identifies a non-character key.
type Code uint8

const (
	CodeNone Code = iota
	CodeRune
	CodeEnter
	CodeEscape
	CodeTab
	CodeBackspace
	CodeDelete
	CodeInsert
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12
)

var codeNames = map[Code]string{
	CodeEnter:     "enter",
	CodeEscape:    "esc",
	CodeTab:       "tab",
	CodeBackspace: "backspace",
	CodeDelete:    "delete",
	CodeInsert:    "insert",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pageup",
	CodePageDown:  "pagedown",
}

var codeAliases = map[string]Code{
	"return": CodeEnter,
	"cr":     CodeEnter,
	"escape": CodeEscape,
	"bs":     CodeBackspace,
	"del":    CodeDelete,
	"ins":    CodeInsert,
	"pgup":   CodePageUp,
	"pgdn":   CodePageDown,
}

func init() {
	for c := CodeF1; c <= CodeF12; c++ {
		codeNames[c] = fmt.Sprintf("f%d", int(c-CodeF1)+1)
	}
	for c, name := range codeNames {
		codeAliases[name] = c
	}
}

// Key is one key press.
type Key struct {
	Code Code
	Rune rune // set when Code is CodeRune
	Mod  Modifier
}

// RuneKey returns a character key.
func RuneKey(r rune, mod Modifier) Key {
	return normalize(Key{Code: CodeRune, Rune: r, Mod: mod})
}

// SpecialKey returns a non-character key.
func SpecialKey(c Code, mod Modifier) Key {
	return Key{Code: c, Mod: mod}
}

// normalize gives each physical chord one representation. Shift on a
// plain character is already reflected in the rune; with ctrl or alt the
// rune is folded to lower case and shift is kept explicit.
func normalize(k Key) Key {
	if k.Code != CodeRune {
		return k
	}
	if k.Mod.Has(ModCtrl) || k.Mod.Has(ModAlt) || k.Mod.Has(ModMeta) {
		if unicode.IsUpper(k.Rune) {
			k.Rune = unicode.ToLower(k.Rune)
			k.Mod |= ModShift
		}
		return k
	}
	k.Mod &^= ModShift
	return k
}

// IsText reports whether the key types its rune.
func (k Key) IsText() bool {
	return k.Code == CodeRune && k.Mod&(ModCtrl|ModAlt|ModMeta) == 0 && unicode.IsPrint(k.Rune)
}

// String returns the canonical name, e.g. "ctrl+shift+left".
func (k Key) String() string {
	var b strings.Builder
	for _, m := range modifierNames {
		if k.Mod.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	switch k.Code {
	case CodeRune:
		switch k.Rune {
		case ' ':
			b.WriteString("space")
		case '+':
			b.WriteString("plus")
		default:
			b.WriteRune(k.Rune)
		}
	case CodeNone:
		b.WriteString("none")
	default:
		b.WriteString(codeNames[k.Code])
	}
	return b.String()
}

// ParseKey parses a key name such as "ctrl+f", "Shift+Left" or "alt+plus".
func ParseKey(spec string) (Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Key{}, ErrEmptyKey
	}
	parts := strings.Split(spec, "+")
	if parts[len(parts)-1] == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, spec)
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := modifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if mod == ModNone {
			return Key{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKey, p, spec)
		}
		mods |= mod
	}

	name := strings.TrimSpace(parts[len(parts)-1])
	lower := strings.ToLower(name)
	if c, ok := codeAliases[lower]; ok {
		return SpecialKey(c, mods), nil
	}
	switch lower {
	case "space":
		return RuneKey(' ', mods), nil
	case "plus":
		return RuneKey('+', mods), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return RuneKey(r, mods), nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, spec)
}

// Normalize rewrites a key name into canonical form.
func Normalize(spec string) (string, error) {
	k, err := ParseKey(spec)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}
