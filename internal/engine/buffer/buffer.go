package buffer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/history"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid = errors.New("invalid range")
	ErrReadOnly     = errors.New("buffer is read-only")
	ErrReentrant    = errors.New("undo or redo requested during change notification")
)

// DefaultTabSize is used when no tab size option is given.
const DefaultTabSize = 4

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// WhiteSpace describes the leading whitespace of a line.
type WhiteSpace struct {
	FirstNonSpaceIndex  int // byte index of the first non-blank character
	FirstNonSpaceColumn int // virtual column of that character with tabs expanded
}

// Buffer is a line-addressed text store with undo/redo and change
// notification. Reads are safe from any goroutine; mutations and listener
// callbacks run on the caller's goroutine.
type Buffer struct {
	mu       sync.RWMutex
	lines    []string
	revision RevisionID

	tabSize      int
	readOnly     bool
	syntax       SyntaxSupport
	historyLimit int
	history      *history.History[step]

	// Notification state. notifying is true while listeners run; operations
	// requested during that time are queued and applied afterwards.
	listeners  []listenerEntry
	nextID     int
	notifying  bool
	pending    []pendingOp
	notifyLock sync.Mutex
}

type listenerEntry struct {
	id int
	fn Listener
}

type pendingOp struct {
	op     Operation
	origin Origin
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:    []string{""},
		revision: NewRevisionID(),
		tabSize:  DefaultTabSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = history.New[step](b.historyLimit,
		history.WithMerge(mergeTyping, history.DefaultCoalesceWindow))
	return b
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and CR line endings are normalised to LF.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(normalizeLineEndings(s))
	return b
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines. It is never less than one.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line returns the text of a line without its newline.
// Out-of-range lines return "".
func (b *Buffer) Line(i int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the byte length of a line.
func (b *Buffer) LineLen(i int) int {
	return len(b.Line(i))
}

// LineRange returns the range covering a line's text.
func (b *Buffer) LineRange(i int) Range {
	return Range{Start: Point{Line: i}, End: b.LineEnd(i)}
}

// LineEnd returns the position just past the last character of a line.
func (b *Buffer) LineEnd(i int) Point {
	return Point{Line: i, Column: b.LineLen(i)}
}

// End returns the position at the end of the buffer.
func (b *Buffer) End() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	last := len(b.lines) - 1
	return Point{Line: last, Column: len(b.lines[last])}
}

// TextIn returns the text covered by r. The range is clamped first.
func (b *Buffer) TextIn(r Range) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.correctLocked(r.Start)
	end := b.correctLocked(r.End)
	if !start.Before(end) {
		return ""
	}
	return b.textInLocked(Range{Start: start, End: end})
}

func (b *Buffer) textInLocked(r Range) string {
	if r.Start.Line == r.End.Line {
		return b.lines[r.Start.Line][r.Start.Column:r.End.Column]
	}
	var sb strings.Builder
	sb.WriteString(b.lines[r.Start.Line][r.Start.Column:])
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[r.End.Line][:r.End.Column])
	return sb.String()
}

// RuneAt returns the character at p. At the end of a line it returns '\n'
// (and false at the end of the buffer).
func (b *Buffer) RuneAt(p Point) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p = b.correctLocked(p)
	line := b.lines[p.Line]
	if p.Column >= len(line) {
		return '\n', p.Line < len(b.lines)-1
	}
	r, _ := utf8.DecodeRuneInString(line[p.Column:])
	return r, true
}

// LineWhiteSpace scans the leading blanks of a line, expanding tabs to the
// buffer's tab stops.
func (b *Buffer) LineWhiteSpace(i int) WhiteSpace {
	return ScanWhiteSpace(b.Line(i), b.TabSize())
}

// ScanWhiteSpace scans the leading blanks of line with the given tab size.
func ScanWhiteSpace(line string, tabSize int) WhiteSpace {
	if tabSize < 1 {
		tabSize = DefaultTabSize
	}
	x := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			x++
		case '\t':
			x = (x/tabSize + 1) * tabSize
		default:
			return WhiteSpace{FirstNonSpaceIndex: i, FirstNonSpaceColumn: x}
		}
	}
	return WhiteSpace{FirstNonSpaceIndex: len(line), FirstNonSpaceColumn: x}
}

// CorrectPosition clamps p into the buffer and onto a character boundary.
func (b *Buffer) CorrectPosition(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.correctLocked(p)
}

func (b *Buffer) correctLocked(p Point) Point {
	if p.Line < 0 {
		return Point{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Point{Line: last, Column: len(b.lines[last])}
	}
	if p.Column < 0 {
		p.Column = 0
	}
	p.Column = snapColumn(b.lines[p.Line], p.Column)
	return p
}

func (b *Buffer) validLocked(p Point) bool {
	if p.Line < 0 || p.Line >= len(b.lines) || p.Column < 0 {
		return false
	}
	line := b.lines[p.Line]
	if p.Column > len(line) {
		return false
	}
	return p.Column == len(line) || utf8.RuneStart(line[p.Column])
}

// Metadata

// TabSize returns the tab size.
func (b *Buffer) TabSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabSize
}

// SetTabSize changes the tab size.
func (b *Buffer) SetTabSize(size int) {
	if size < 1 {
		size = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabSize = size
}

// ReadOnly reports whether mutations are refused.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// SetReadOnly toggles read-only mode.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = readOnly
}

// Syntax returns the attached language support, or nil.
func (b *Buffer) Syntax() SyntaxSupport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.syntax
}

// SetSyntax replaces the language support.
func (b *Buffer) SetSyntax(s SyntaxSupport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syntax = s
}

// Revision returns the current revision.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Mutation

// PerformOperation applies op on behalf of origin, records it for undo and
// notifies listeners. When called from inside a listener the operation is
// queued and applied once the current notification round has finished;
// the returned event then has Deferred set.
func (b *Buffer) PerformOperation(op Operation, origin Origin) (ChangeEvent, error) {
	b.notifyLock.Lock()
	if b.notifying {
		if b.ReadOnly() {
			b.notifyLock.Unlock()
			return ChangeEvent{}, ErrReadOnly
		}
		b.pending = append(b.pending, pendingOp{op: op, origin: origin})
		b.notifyLock.Unlock()
		return ChangeEvent{Origin: origin, Deferred: true}, nil
	}
	b.notifyLock.Unlock()

	ev, err := b.apply(op, origin, ChangeEdit, true)
	if err != nil {
		return ChangeEvent{}, err
	}
	b.notify(ev)
	return ev, nil
}

// apply performs the replacement under the write lock.
func (b *Buffer) apply(op Operation, origin Origin, kind ChangeKind, record bool) (ChangeEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly && kind == ChangeEdit {
		return ChangeEvent{}, ErrReadOnly
	}
	r := op.Range
	if !r.IsValid() || !b.validLocked(r.Start) || !b.validLocked(r.End) {
		return ChangeEvent{}, fmt.Errorf("%w: %s", ErrRangeInvalid, r)
	}

	old := b.textInLocked(r)
	head := b.lines[r.Start.Line][:r.Start.Column]
	tail := b.lines[r.End.Line][r.End.Column:]
	inserted := splitLines(normalizeLineEndings(op.Text))
	inserted[0] = head + inserted[0]
	inserted[len(inserted)-1] += tail

	lines := make([]string, 0, len(b.lines)-(r.End.Line-r.Start.Line)+len(inserted)-1)
	lines = append(lines, b.lines[:r.Start.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[r.End.Line+1:]...)
	b.lines = lines
	b.revision = NewRevisionID()

	text := normalizeLineEndings(op.Text)
	if record && (old != "" || text != "") {
		b.history.Push(origin.String(), step{Start: r.Start, OldText: old, NewText: text})
	}

	return ChangeEvent{
		Origin:   origin,
		Kind:     kind,
		Range:    r,
		OldText:  old,
		Text:     text,
		NewEnd:   Advance(r.Start, text),
		Revision: b.revision,
	}, nil
}

// Undo reverts the most recent undo entry. The returned event is the last
// step applied, whose NewEnd is where a caret should be restored.
func (b *Buffer) Undo(origin Origin) (ChangeEvent, error) {
	return b.replay(origin, ChangeUndo)
}

// Redo re-applies the most recently undone entry.
func (b *Buffer) Redo(origin Origin) (ChangeEvent, error) {
	return b.replay(origin, ChangeRedo)
}

func (b *Buffer) replay(origin Origin, kind ChangeKind) (ChangeEvent, error) {
	if b.ReadOnly() {
		return ChangeEvent{}, ErrReadOnly
	}
	b.notifyLock.Lock()
	busy := b.notifying
	b.notifyLock.Unlock()
	if busy {
		return ChangeEvent{}, ErrReentrant
	}

	var events []ChangeEvent
	apply := func(s step) error {
		op := Operation{Range: Range{Start: s.Start, End: Advance(s.Start, s.NewText)}, Text: s.OldText}
		if kind == ChangeRedo {
			op = Operation{Range: Range{Start: s.Start, End: Advance(s.Start, s.OldText)}, Text: s.NewText}
		}
		ev, err := b.apply(op, origin, kind, false)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	}

	var err error
	if kind == ChangeUndo {
		_, err = b.history.Undo(apply)
	} else {
		_, err = b.history.Redo(apply)
	}
	for _, ev := range events {
		b.notify(ev)
	}
	if err != nil {
		return ChangeEvent{}, err
	}
	return events[len(events)-1], nil
}

// CanUndo reports whether Undo has anything to revert.
func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanUndo()
}

// CanRedo reports whether Redo has anything to re-apply.
func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.CanRedo()
}

// BeginGroup starts an undo group; all operations until EndGroup undo as one.
func (b *Buffer) BeginGroup(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.BeginGroup(name)
}

// EndGroup closes the undo group opened by BeginGroup.
func (b *Buffer) EndGroup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.EndGroup()
}

// SealUndo stops the next edit from coalescing with the previous one.
func (b *Buffer) SealUndo() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Seal()
}

// Notification

// Subscribe registers a listener and returns a function that removes it.
func (b *Buffer) Subscribe(fn Listener) func() {
	b.notifyLock.Lock()
	defer b.notifyLock.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		b.notifyLock.Lock()
		defer b.notifyLock.Unlock()
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify delivers ev to every listener, then drains operations queued by
// listeners, each followed by its own notification round.
func (b *Buffer) notify(ev ChangeEvent) {
	b.notifyLock.Lock()
	if b.notifying {
		b.notifyLock.Unlock()
		return
	}
	b.notifying = true
	b.notifyLock.Unlock()

	queue := []ChangeEvent{ev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		b.notifyLock.Lock()
		listeners := make([]listenerEntry, len(b.listeners))
		copy(listeners, b.listeners)
		b.notifyLock.Unlock()

		for _, l := range listeners {
			l.fn(cur)
		}

		b.notifyLock.Lock()
		pending := b.pending
		b.pending = nil
		b.notifyLock.Unlock()

		for _, p := range pending {
			next, err := b.apply(p.op, p.origin, ChangeEdit, true)
			if err != nil {
				continue
			}
			queue = append(queue, next)
		}
	}

	b.notifyLock.Lock()
	b.notifying = false
	b.notifyLock.Unlock()
}
