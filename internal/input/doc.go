// Package input turns terminal key presses into editor actions.
//
// Keys are written as lowercase names joined by "+", modifiers first:
//
//	ctrl+f
//	shift+left
//	ctrl+shift+z
//	alt+enter
//
// A Keymap binds those names to editor actions. Printable keys without
// ctrl, alt or meta that have no binding are typed as text.
package input
