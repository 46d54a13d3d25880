// Package editor assembles the text engine into one editing surface.
//
// An Editor owns a buffer and wires it to the wrap layout, the caret
// controller, the search engine, the edit mediator, the caret blinker and
// the clipboard. It also keeps the viewport and scrolls it so the caret
// stays visible. Editors are driven from a single goroutine; only the
// blink callback arrives on a timer goroutine.
package editor
