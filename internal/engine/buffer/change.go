package buffer

// Operation replaces the text in Range with Text. An empty range inserts,
// empty text deletes.
type Operation struct {
	Range Range
	Text  string
}

// Insert returns an operation inserting text at p.
func Insert(p Point, text string) Operation {
	return Operation{Range: EmptyRange(p), Text: text}
}

// Delete returns an operation removing the text in r.
func Delete(r Range) Operation {
	return Operation{Range: r}
}

// ChangeKind tells how a change came about.
type ChangeKind uint8

const (
	ChangeEdit ChangeKind = iota
	ChangeUndo
	ChangeRedo
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// ChangeEvent describes an applied mutation.
type ChangeEvent struct {
	Origin   Origin
	Kind     ChangeKind
	Range    Range  // replaced range, in coordinates before the change
	OldText  string // text that was removed
	Text     string // text that was inserted
	NewEnd   Point  // end of the inserted text, in coordinates after the change
	Revision RevisionID

	// Deferred is set on the value returned by PerformOperation when the
	// operation was queued because listeners were being notified.
	Deferred bool
}

// LineDelta returns how many lines the change added (negative if removed).
func (e ChangeEvent) LineDelta() int {
	return e.NewEnd.Line - e.Range.End.Line
}

// Listener receives change notifications.
type Listener func(ChangeEvent)

// step is one undoable replacement.
type step struct {
	Start   Point
	OldText string
	NewText string
}

// mergeTyping folds consecutive single-line insertions or backspaces.
func mergeTyping(prev, next step) (step, bool) {
	if hasNewline(prev.OldText+prev.NewText) || hasNewline(next.OldText+next.NewText) {
		return prev, false
	}
	// Typing forward.
	if prev.OldText == "" && next.OldText == "" &&
		next.Start == Advance(prev.Start, prev.NewText) {
		prev.NewText += next.NewText
		return prev, true
	}
	// Backspacing.
	if prev.NewText == "" && next.NewText == "" &&
		Advance(next.Start, next.OldText) == prev.Start {
		return step{Start: next.Start, OldText: next.OldText + prev.OldText}, true
	}
	return prev, false
}

func hasNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}
