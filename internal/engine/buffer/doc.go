// Package buffer provides the line-addressed text store the editing engine
// works against, together with the position and range value types shared
// by every other engine package.
//
// The buffer package provides:
//
//   - Point and Range: logical (unwrapped) line/column positions, columns
//     in bytes, totally ordered by line then column
//   - Line access, word bounds and camelCase-aware word movement
//   - Tab-stop aware leading-whitespace scanning
//   - Position clamping (CorrectPosition) instead of out-of-range errors
//   - Single-replacement mutations tagged with an Origin token
//   - Undo/redo with typing coalescing and explicit groups
//   - Synchronous change notification with a re-entrancy queue
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	me := buffer.NewOrigin()
//
//	// Replace "World" with "Gopher"
//	r := buffer.Range{Start: buffer.Pt(0, 7), End: buffer.Pt(0, 12)}
//	buf.PerformOperation(buffer.Operation{Range: r, Text: "Gopher"}, me)
//
//	buf.Undo(me) // "Hello, World!"
//
// Re-entrancy:
//
// Listeners run synchronously after each mutation. A listener that itself
// calls PerformOperation does not recurse: the operation is queued and
// applied after every listener has seen the current change, and then gets
// its own notification round. Undo and Redo refuse to run during
// notification (ErrReentrant).
package buffer
