package buffer

import (
	"errors"
	"testing"
)

func TestNewBufferFromStringNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("one\r\ntwo\rthree\n")
	if got := b.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}
	if got := b.Text(); got != "one\ntwo\nthree\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestEmptyBufferHasOneLine(t *testing.T) {
	b := NewBuffer()
	if b.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", b.LineCount())
	}
	if b.End() != Pt(0, 0) {
		t.Errorf("End() = %v, want (0:0)", b.End())
	}
}

func TestPointCompare(t *testing.T) {
	tests := []struct {
		a, b Point
		want int
	}{
		{Pt(0, 0), Pt(0, 0), 0},
		{Pt(0, 1), Pt(0, 2), -1},
		{Pt(1, 0), Pt(0, 9), 1},
		{Pt(2, 3), Pt(2, 1), 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewRangeOrdersEndpoints(t *testing.T) {
	r := NewRange(Pt(3, 1), Pt(1, 4))
	if r.Start != Pt(1, 4) || r.End != Pt(3, 1) {
		t.Errorf("NewRange = %v", r)
	}
	if r.IsSingleLine() {
		t.Error("range should span lines")
	}
	if !EmptyRange(Pt(2, 2)).IsEmpty() {
		t.Error("EmptyRange should be empty")
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		p    Point
		text string
		want Point
	}{
		{Pt(0, 3), "abc", Pt(0, 6)},
		{Pt(1, 3), "a\nbc", Pt(2, 2)},
		{Pt(0, 0), "\n", Pt(1, 0)},
		{Pt(4, 2), "", Pt(4, 2)},
	}
	for _, tt := range tests {
		if got := Advance(tt.p, tt.text); got != tt.want {
			t.Errorf("Advance(%v, %q) = %v, want %v", tt.p, tt.text, got, tt.want)
		}
	}
}

func TestCorrectPosition(t *testing.T) {
	b := NewBufferFromString("héllo\nab")
	tests := []struct {
		in, want Point
	}{
		{Pt(-1, 5), Pt(0, 0)},
		{Pt(0, -3), Pt(0, 0)},
		{Pt(0, 99), Pt(0, 6)},
		{Pt(0, 2), Pt(0, 1)}, // inside the two-byte é
		{Pt(7, 0), Pt(1, 2)},
	}
	for _, tt := range tests {
		got := b.CorrectPosition(tt.in)
		if got != tt.want {
			t.Errorf("CorrectPosition(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if again := b.CorrectPosition(got); again != got {
			t.Errorf("CorrectPosition not idempotent: %v then %v", got, again)
		}
	}
}

func TestPerformOperation(t *testing.T) {
	b := NewBufferFromString("hello world\nsecond")
	me := NewOrigin()

	ev, err := b.PerformOperation(Operation{
		Range: Range{Start: Pt(0, 6), End: Pt(1, 0)},
		Text:  "there\nfirst ",
	}, me)
	if err != nil {
		t.Fatalf("PerformOperation: %v", err)
	}
	if got := b.Text(); got != "hello there\nfirst second" {
		t.Errorf("Text() = %q", got)
	}
	if ev.OldText != "world\n" {
		t.Errorf("OldText = %q", ev.OldText)
	}
	if ev.NewEnd != Pt(1, 6) {
		t.Errorf("NewEnd = %v, want (1:6)", ev.NewEnd)
	}
	if ev.Origin != me {
		t.Error("event should carry the origin")
	}
}

func TestPerformOperationErrors(t *testing.T) {
	b := NewBufferFromString("abc")
	_, err := b.PerformOperation(Insert(Pt(0, 9), "x"), NoOrigin)
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("out of range insert: err = %v, want ErrRangeInvalid", err)
	}

	b.SetReadOnly(true)
	_, err = b.PerformOperation(Insert(Pt(0, 0), "x"), NoOrigin)
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-only insert: err = %v, want ErrReadOnly", err)
	}
	if b.Text() != "abc" {
		t.Errorf("read-only buffer changed: %q", b.Text())
	}
}

func TestUndoRedo(t *testing.T) {
	b := NewBufferFromString("abc")
	me := NewOrigin()

	b.PerformOperation(Insert(Pt(0, 3), "\ndef"), me)
	b.SealUndo()
	b.PerformOperation(Delete(Range{Start: Pt(0, 0), End: Pt(0, 1)}), me)

	if got := b.Text(); got != "bc\ndef" {
		t.Fatalf("Text() = %q", got)
	}

	ev, err := b.Undo(me)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if ev.Kind != ChangeUndo || ev.NewEnd != Pt(0, 1) {
		t.Errorf("undo event = %+v", ev)
	}
	if got := b.Text(); got != "abc\ndef" {
		t.Errorf("after undo Text() = %q", got)
	}
	b.Undo(me)
	if got := b.Text(); got != "abc" {
		t.Errorf("after second undo Text() = %q", got)
	}
	if _, err := b.Undo(me); err == nil {
		t.Error("undo past the beginning should fail")
	}

	b.Redo(me)
	b.Redo(me)
	if got := b.Text(); got != "bc\ndef" {
		t.Errorf("after redo Text() = %q", got)
	}
}

func TestTypingCoalesces(t *testing.T) {
	b := NewBuffer()
	me := NewOrigin()
	for i, ch := range []string{"g", "o", "!"} {
		b.PerformOperation(Insert(Pt(0, i), ch), me)
	}
	b.Undo(me)
	if b.Text() != "" {
		t.Errorf("typed run should undo as one step, got %q", b.Text())
	}
}

func TestGroupUndoesAsOne(t *testing.T) {
	b := NewBufferFromString("a\nb")
	me := NewOrigin()
	b.BeginGroup("indent")
	b.PerformOperation(Insert(Pt(0, 0), "\t"), me)
	b.PerformOperation(Insert(Pt(1, 0), "\t"), me)
	b.EndGroup()

	b.Undo(me)
	if b.Text() != "a\nb" {
		t.Errorf("group should undo as one, got %q", b.Text())
	}
}

func TestListenerReentrancyIsQueued(t *testing.T) {
	b := NewBufferFromString("x")
	other := NewOrigin()
	var seen []string

	b.Subscribe(func(ev ChangeEvent) {
		seen = append(seen, "first:"+ev.Text)
		if ev.Text == "a" {
			got, err := b.PerformOperation(Insert(b.End(), "b"), other)
			if err != nil || !got.Deferred {
				t.Errorf("nested operation should be deferred, got %+v, %v", got, err)
			}
		}
	})
	b.Subscribe(func(ev ChangeEvent) {
		seen = append(seen, "second:"+ev.Text)
	})

	b.PerformOperation(Insert(Pt(0, 1), "a"), NewOrigin())

	want := []string{"first:a", "second:a", "first:b", "second:b"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
	if b.Text() != "xab" {
		t.Errorf("Text() = %q, want xab", b.Text())
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBuffer()
	calls := 0
	stop := b.Subscribe(func(ChangeEvent) { calls++ })
	b.PerformOperation(Insert(Pt(0, 0), "a"), NoOrigin)
	stop()
	b.PerformOperation(Insert(Pt(0, 1), "b"), NoOrigin)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestLineWhiteSpace(t *testing.T) {
	tests := []struct {
		line      string
		wantIndex int
		wantCol   int
	}{
		{"", 0, 0},
		{"abc", 0, 0},
		{"  abc", 2, 2},
		{"\tabc", 1, 4},
		{"  \tabc", 3, 4},
		{"\t  x", 3, 6},
		{"    ", 4, 4},
	}
	for _, tt := range tests {
		ws := ScanWhiteSpace(tt.line, 4)
		if ws.FirstNonSpaceIndex != tt.wantIndex || ws.FirstNonSpaceColumn != tt.wantCol {
			t.Errorf("ScanWhiteSpace(%q) = %+v, want {%d %d}", tt.line, ws, tt.wantIndex, tt.wantCol)
		}
	}
}

func TestRuneAt(t *testing.T) {
	b := NewBufferFromString("ab\nc")
	if r, _ := b.RuneAt(Pt(0, 1)); r != 'b' {
		t.Errorf("RuneAt(0,1) = %q", r)
	}
	if r, ok := b.RuneAt(Pt(0, 2)); r != '\n' || !ok {
		t.Errorf("RuneAt(0,2) = %q, %v", r, ok)
	}
	if _, ok := b.RuneAt(Pt(1, 1)); ok {
		t.Error("end of buffer should report false")
	}
}
