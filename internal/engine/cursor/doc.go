// Package cursor implements the caret and selection state machine.
//
// The Controller owns three things: the caret position, the selected range
// and whether typing overwrites (replace mode). Every motion goes through
// one primitive that clamps the new caret and then updates the selection:
//
//   - Without extend the selection collapses onto the caret.
//   - With extend, the endpoint the caret was sitting on moves and the other
//     endpoint is the anchor; crossing the anchor flips the range so that
//     Start <= End always holds.
//   - If the caret was on neither endpoint, the old caret becomes a fresh
//     anchor.
//
// There is no separately stored anchor. After an extending move the caret
// is always one of the two selection endpoints.
//
// Vertical motion follows visual rows when a wrap layout is active: moving
// up from the second sub-line of a wrapped line stays on that logical line.
//
// A Controller is not safe for concurrent use; it belongs to the UI thread.
package cursor
