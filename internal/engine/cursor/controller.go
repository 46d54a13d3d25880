package cursor

import (
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/wrap"
)

// Content is the part of the text store the controller reads.
type Content interface {
	LineCount() int
	Line(i int) string
	LineEnd(i int) buffer.Point
	LineRange(i int) buffer.Range
	CorrectPosition(p buffer.Point) buffer.Point
	WordBounds(p buffer.Point) buffer.Range
	MoveByWord(p buffer.Point, dir int, camelCase bool) buffer.Point
	LineWhiteSpace(i int) buffer.WhiteSpace
	RuneAt(p buffer.Point) (rune, bool)
}

// Layout supplies wrap geometry. Active reports whether lines are
// currently being wrapped.
type Layout interface {
	Active() bool
	Span(line int) wrap.LineSpan
}

// StateChange is sent to listeners after every caret or selection change.
type StateChange struct {
	Line      int  // 1-based line of the caret
	Column    int  // 1-based character column of the caret
	Char      rune // character under the caret, '\n' at the end of a line
	Caret     buffer.Point
	Selection buffer.Range
	Replace   bool
}

// Controller owns the caret, the selection and the insert/overtype mode.
type Controller struct {
	content Content
	layout  Layout

	caret       buffer.Point
	sel         buffer.Range
	replaceMode bool

	camelCase bool
	dirty     bool
	listeners []func(StateChange)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayout makes vertical motion follow the given wrap layout.
func WithLayout(l Layout) Option {
	return func(c *Controller) {
		c.layout = l
	}
}

// WithCamelCaseWords makes word motion stop at camelCase humps.
func WithCamelCaseWords(on bool) Option {
	return func(c *Controller) {
		c.camelCase = on
	}
}

// New creates a controller with the caret at the start of content.
func New(content Content, opts ...Option) *Controller {
	c := &Controller{content: content}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Caret returns the caret position.
func (c *Controller) Caret() buffer.Point {
	return c.caret
}

// Selection returns the selected range. It is empty when nothing is selected.
func (c *Controller) Selection() buffer.Range {
	return c.sel
}

// HasSelection reports whether a non-empty range is selected.
func (c *Controller) HasSelection() bool {
	return !c.sel.IsEmpty()
}

// ReplaceMode reports whether typing overwrites.
func (c *Controller) ReplaceMode() bool {
	return c.replaceMode
}

// SetReplaceMode switches between insert and overtype.
func (c *Controller) SetReplaceMode(on bool) {
	if c.replaceMode == on {
		return
	}
	c.replaceMode = on
	c.changed()
}

// ToggleReplaceMode flips insert/overtype.
func (c *Controller) ToggleReplaceMode() {
	c.SetReplaceMode(!c.replaceMode)
}

// SetCamelCaseWords changes how word motion treats identifiers.
func (c *Controller) SetCamelCaseWords(on bool) {
	c.camelCase = on
}

// SetLayout replaces the wrap layout; nil disables wrap-aware motion.
func (c *Controller) SetLayout(l Layout) {
	c.layout = l
}

// OnStateChange registers a listener for caret and selection changes.
func (c *Controller) OnStateChange(fn func(StateChange)) {
	c.listeners = append(c.listeners, fn)
}

// Dirty reports whether the state changed since the last ClearDirty.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// ClearDirty resets the dirty flag after a redraw.
func (c *Controller) ClearDirty() {
	c.dirty = false
}

// SetCaret moves the caret to p, extending the selection if asked.
func (c *Controller) SetCaret(p buffer.Point, extend bool) {
	c.moveCaret(p, extend)
}

// SetSelection selects r and puts the caret on its start or end.
func (c *Controller) SetSelection(r buffer.Range, caretAtStart bool) {
	start := c.content.CorrectPosition(r.Start)
	end := c.content.CorrectPosition(r.End)
	c.sel = buffer.NewRange(start, end)
	if caretAtStart {
		c.caret = c.sel.Start
	} else {
		c.caret = c.sel.End
	}
	c.changed()
}

// ClearSelection collapses the selection onto the caret.
func (c *Controller) ClearSelection() {
	if c.sel.IsEmpty() && c.sel.Start == c.caret {
		return
	}
	c.sel = buffer.EmptyRange(c.caret)
	c.changed()
}

// CorrectCaretPos clamps the caret and both selection endpoints into the
// current content. An empty selection is reset onto the caret. It is the
// recovery path after external edits and never fails.
func (c *Controller) CorrectCaretPos() {
	caret := c.content.CorrectPosition(c.caret)
	sel := buffer.NewRange(
		c.content.CorrectPosition(c.sel.Start),
		c.content.CorrectPosition(c.sel.End),
	)
	if sel.IsEmpty() {
		sel = buffer.EmptyRange(caret)
	}
	if caret == c.caret && sel == c.sel {
		return
	}
	c.caret = caret
	c.sel = sel
	c.changed()
}

// moveCaret clamps p, moves the caret there and updates the selection.
func (c *Controller) moveCaret(p buffer.Point, extend bool) {
	old := c.caret
	oldSel := c.sel
	c.caret = c.content.CorrectPosition(p)
	c.updateSelectionAfterCursorMovement(old, extend)
	if c.caret == old && c.sel == oldSel {
		return
	}
	c.changed()
}

// updateSelectionAfterCursorMovement derives the new selection from the
// caret's previous position. The endpoint the caret was on is the one that
// moves; the other is the anchor.
func (c *Controller) updateSelectionAfterCursorMovement(old buffer.Point, extend bool) {
	if !extend {
		c.sel = buffer.EmptyRange(c.caret)
		return
	}

	switch old {
	case c.sel.Start:
		anchor := c.sel.End
		if c.caret.Compare(anchor) >= 0 {
			c.sel = buffer.Range{Start: anchor, End: c.caret}
		} else {
			c.sel.Start = c.caret
		}
	case c.sel.End:
		anchor := c.sel.Start
		if c.caret.Compare(anchor) <= 0 {
			c.sel = buffer.Range{Start: c.caret, End: anchor}
		} else {
			c.sel.End = c.caret
		}
	default:
		c.sel = buffer.NewRange(old, c.caret)
	}
}

// changed marks the state dirty and tells listeners.
func (c *Controller) changed() {
	c.dirty = true
	if len(c.listeners) == 0 {
		return
	}
	ev := c.stateChange()
	for _, fn := range c.listeners {
		fn(ev)
	}
}

func (c *Controller) stateChange() StateChange {
	line := c.content.Line(c.caret.Line)
	col := c.caret.Column
	if col > len(line) {
		col = len(line)
	}
	ch, _ := c.content.RuneAt(c.caret)
	return StateChange{
		Line:      c.caret.Line + 1,
		Column:    utf8.RuneCountInString(line[:col]) + 1,
		Char:      ch,
		Caret:     c.caret,
		Selection: c.sel,
		Replace:   c.replaceMode,
	}
}

// CaretVisual returns the caret's logical line and its sub-line index
// within that line (0 when wrapping is off).
func (c *Controller) CaretVisual() (line, sub int) {
	if c.layout == nil || !c.layout.Active() {
		return c.caret.Line, 0
	}
	return c.caret.Line, c.layout.Span(c.caret.Line).SubLineOf(c.caret.Column)
}
