// Package history provides undo/redo bookkeeping for the text engine.
//
// History is generic over the step type so that the content store can
// record whatever it needs to invert an edit without this package knowing
// about positions or text. Key concepts:
//
// # Entries
//
// An Entry is one undo unit: an ordered list of steps plus the origin that
// produced them. Undo replays the steps in reverse, redo replays them in
// order; the caller supplies the replay function.
//
// # Grouping
//
// Multiple pushes can be collapsed into a single entry:
//
//	h.BeginGroup("indent")
//	// ... several pushes ...
//	h.EndGroup()
//
// # Coalescing
//
// When a merge function is installed, a push from the same origin within
// the coalesce window is offered to the merge function together with the
// last step of the top entry. Typing a word therefore undoes as one unit.
//
// History is not safe for concurrent use; the owner serialises access.
package history
