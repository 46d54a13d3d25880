package history

import (
	"errors"
	"testing"
	"time"
)

type edit struct {
	at   int
	text string
}

func appendMerge(prev, next edit) (edit, bool) {
	if next.at == prev.at+len(prev.text) {
		return edit{at: prev.at, text: prev.text + next.text}, true
	}
	return prev, false
}

func TestUndoRedoOrder(t *testing.T) {
	h := New[edit](10)
	h.Push("a", edit{0, "x"})
	h.Push("a", edit{1, "y"})

	var applied []edit
	record := func(e edit) error {
		applied = append(applied, e)
		return nil
	}

	if _, err := h.Undo(record); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(applied) != 1 || applied[0].text != "y" {
		t.Errorf("undo applied %v, want the last push", applied)
	}
	if !h.CanRedo() {
		t.Error("expected redo to be available")
	}

	applied = nil
	h.Redo(record)
	if len(applied) != 1 || applied[0].text != "y" {
		t.Errorf("redo applied %v", applied)
	}
	if len(h.undoStack) != 2 {
		t.Errorf("undo entries = %d, want 2", len(h.undoStack))
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New[edit](0)
	if _, err := h.Undo(func(edit) error { return nil }); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(func(edit) error { return nil }); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoFailureRestoresEntry(t *testing.T) {
	h := New[edit](10)
	h.Push("a", edit{0, "x"})
	boom := errors.New("boom")
	if _, err := h.Undo(func(edit) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(h.undoStack) != 1 {
		t.Error("failed undo should keep the entry")
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := New[edit](10)
	h.Push("a", edit{0, "x"})
	h.Undo(func(edit) error { return nil })
	h.Push("a", edit{0, "z"})
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestMaxEntries(t *testing.T) {
	h := New[edit](2)
	for i := 0; i < 5; i++ {
		h.Push("a", edit{i * 10, "x"})
	}
	if len(h.undoStack) != 2 {
		t.Errorf("undo entries = %d, want 2", len(h.undoStack))
	}
}

func TestCoalescing(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	h := New[edit](10, WithMerge(appendMerge, time.Second), WithClock[edit](clock))

	h.Push("a", edit{0, "g"})
	h.Push("a", edit{1, "o"})
	if len(h.undoStack) != 1 {
		t.Fatalf("adjacent pushes should merge, undo entries = %d", len(h.undoStack))
	}

	// different origin
	h.Push("b", edit{2, "!"})
	if len(h.undoStack) != 2 {
		t.Errorf("other origin should not merge, undo entries = %d", len(h.undoStack))
	}

	// window elapsed
	now = now.Add(2 * time.Second)
	h.Push("b", edit{3, "?"})
	if len(h.undoStack) != 3 {
		t.Errorf("stale push should not merge, undo entries = %d", len(h.undoStack))
	}

	h.Seal()
	h.Push("b", edit{4, "."})
	if len(h.undoStack) != 4 {
		t.Errorf("sealed entry should not merge, undo entries = %d", len(h.undoStack))
	}
}

func TestNestedGroups(t *testing.T) {
	h := New[edit](10)
	h.BeginGroup("block")
	h.Push("a", edit{0, "x"})
	h.Push("a", edit{5, "y"})
	h.BeginGroup("nested")
	h.Push("a", edit{9, "z"})
	h.EndGroup()
	if len(h.undoStack) != 0 {
		t.Fatal("inner EndGroup must not close the outer group")
	}
	h.EndGroup()

	if h.grouping > 0 {
		t.Error("group should be closed")
	}
	if len(h.undoStack) != 1 {
		t.Fatalf("undo entries = %d, want 1", len(h.undoStack))
	}

	var order []int
	h.Undo(func(e edit) error {
		order = append(order, e.at)
		return nil
	})
	if len(order) != 3 || order[0] != 9 || order[2] != 0 {
		t.Errorf("undo order = %v, want reverse push order", order)
	}
}
