package edit

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Content is the text store the mediator edits.
type Content interface {
	LineCount() int
	Line(i int) string
	LineEnd(i int) buffer.Point
	ReadOnly() bool
	TabSize() int
	Syntax() buffer.SyntaxSupport
	LineWhiteSpace(i int) buffer.WhiteSpace
	PerformOperation(op buffer.Operation, origin buffer.Origin) (buffer.ChangeEvent, error)
	SealUndo()
}

// Selection is the caret state the mediator reads and restores.
type Selection interface {
	Caret() buffer.Point
	Selection() buffer.Range
	HasSelection() bool
	ReplaceMode() bool
	SetCaret(p buffer.Point, extend bool)
	SetSelection(r buffer.Range, caretAtStart bool)
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithOrigin tags the mediator's edits.
func WithOrigin(o buffer.Origin) Option {
	return func(m *Mediator) {
		m.origin = o
	}
}

// WithUseTabs indents with tab characters instead of spaces.
func WithUseTabs(on bool) Option {
	return func(m *Mediator) {
		m.useTabs = on
	}
}

// WithAutoIndent controls whether NewLine copies the current indentation.
func WithAutoIndent(on bool) Option {
	return func(m *Mediator) {
		m.autoIndent = on
	}
}

// Mediator applies editing operations at the caret.
type Mediator struct {
	content    Content
	sel        Selection
	origin     buffer.Origin
	useTabs    bool
	autoIndent bool
}

// New creates a mediator editing content at sel's caret.
func New(content Content, sel Selection, opts ...Option) *Mediator {
	m := &Mediator{content: content, sel: sel, autoIndent: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetUseTabs switches between tab and space indentation.
func (m *Mediator) SetUseTabs(on bool) {
	m.useTabs = on
}

// SetAutoIndent toggles auto-indent on NewLine.
func (m *Mediator) SetAutoIndent(on bool) {
	m.autoIndent = on
}

// InsertText types text at the caret, replacing the selection. In replace
// mode single-line text overwrites the characters after the caret.
func (m *Mediator) InsertText(text string) bool {
	if text == "" || m.content.ReadOnly() {
		return false
	}
	r := m.sel.Selection()
	if !m.sel.HasSelection() {
		caret := m.sel.Caret()
		r = buffer.EmptyRange(caret)
		if m.sel.ReplaceMode() && !strings.Contains(text, "\n") {
			r.End = overtypeEnd(m.content.Line(caret.Line), caret, utf8.RuneCountInString(text))
		}
	}
	ev, ok := m.replace(r, text)
	if !ok {
		return false
	}
	m.sel.SetCaret(ev.NewEnd, false)
	m.electricOutdent(ev.NewEnd.Line)
	return true
}

// Backspace deletes the selection or the character before the caret.
// Inside leading whitespace it removes back to the previous tab stop.
func (m *Mediator) Backspace() bool {
	if m.content.ReadOnly() {
		return false
	}
	if m.sel.HasSelection() {
		return m.deleteRange(m.sel.Selection())
	}

	caret := m.sel.Caret()
	var r buffer.Range
	switch {
	case caret.Column > 0:
		start := prevGrapheme(m.content.Line(caret.Line), caret.Column)
		if caret.Column <= m.content.LineWhiteSpace(caret.Line).FirstNonSpaceIndex {
			if n := m.SpaceBefore(caret.Line, caret.Column); n > 0 {
				start = caret.Column - n
			}
		}
		r = buffer.Range{Start: buffer.Pt(caret.Line, start), End: caret}
	case caret.Line > 0:
		r = buffer.Range{Start: m.content.LineEnd(caret.Line - 1), End: caret}
	default:
		return false
	}
	return m.deleteRange(r)
}

// Delete deletes the selection or the character after the caret, joining
// the next line when the caret is at a line end.
func (m *Mediator) Delete() bool {
	if m.content.ReadOnly() {
		return false
	}
	if m.sel.HasSelection() {
		return m.deleteRange(m.sel.Selection())
	}

	caret := m.sel.Caret()
	line := m.content.Line(caret.Line)
	var r buffer.Range
	switch {
	case caret.Column < len(line):
		r = buffer.Range{Start: caret, End: buffer.Pt(caret.Line, nextGrapheme(line, caret.Column))}
	case caret.Line+1 < m.content.LineCount():
		r = buffer.Range{Start: caret, End: buffer.Pt(caret.Line+1, 0)}
	default:
		return false
	}
	return m.deleteRange(r)
}

// NewLine breaks the line at the caret. With auto-indent the new line
// starts with the current line's indentation, one level deeper when the
// syntax asks for it.
func (m *Mediator) NewLine() bool {
	if m.content.ReadOnly() {
		return false
	}
	r := m.sel.Selection()
	if !m.sel.HasSelection() {
		r = buffer.EmptyRange(m.sel.Caret())
	}

	indent := ""
	if m.autoIndent {
		line := m.content.Line(r.Start.Line)
		ws := m.content.LineWhiteSpace(r.Start.Line)
		end := min(ws.FirstNonSpaceIndex, r.Start.Column)
		indent = line[:end]
		if syn := m.content.Syntax(); syn != nil && syn.IndentAfter(line[:r.Start.Column]) {
			x := buffer.ScanWhiteSpace(indent, m.content.TabSize()).FirstNonSpaceColumn
			indent += m.indentText(x)
		}
	}

	ev, ok := m.replace(r, "\n"+indent)
	if !ok {
		return false
	}
	m.sel.SetCaret(ev.NewEnd, false)
	return true
}

// electricOutdent moves a line one level left when the syntax says it
// closes a block and it still sits at the indentation NewLine gave it.
func (m *Mediator) electricOutdent(line int) {
	syn := m.content.Syntax()
	if syn == nil || line == 0 {
		return
	}
	text := m.content.Line(line)
	if !syn.OutdentLine(text) {
		return
	}

	ws := m.content.LineWhiteSpace(line)
	prev := m.prevNonBlank(line)
	if prev < 0 {
		return
	}
	expected := m.content.LineWhiteSpace(prev).FirstNonSpaceColumn
	if syn.IndentAfter(m.content.Line(prev)) {
		expected = nextTabStop(expected, m.content.TabSize())
	}
	if ws.FirstNonSpaceColumn == 0 || ws.FirstNonSpaceColumn != expected {
		return
	}

	n := m.SpaceBefore(line, ws.FirstNonSpaceIndex)
	if n == 0 {
		return
	}
	at := ws.FirstNonSpaceIndex - n
	if _, ok := m.replace(buffer.Range{Start: buffer.Pt(line, at), End: buffer.Pt(line, ws.FirstNonSpaceIndex)}, ""); !ok {
		return
	}
	caret := m.sel.Caret()
	if caret.Line == line && caret.Column >= ws.FirstNonSpaceIndex {
		caret.Column -= n
		m.sel.SetCaret(caret, false)
	}
}

func (m *Mediator) prevNonBlank(line int) int {
	for i := line - 1; i >= 0; i-- {
		if strings.TrimSpace(m.content.Line(i)) != "" {
			return i
		}
	}
	return -1
}

func (m *Mediator) deleteRange(r buffer.Range) bool {
	if r.IsEmpty() {
		return false
	}
	if _, ok := m.replace(r, ""); !ok {
		return false
	}
	m.sel.SetCaret(r.Start, false)
	return true
}

// replace submits one mutation. A mutation queued behind a notification
// round reports failure since its outcome is not known yet.
func (m *Mediator) replace(r buffer.Range, text string) (buffer.ChangeEvent, bool) {
	ev, err := m.content.PerformOperation(buffer.Operation{Range: r, Text: text}, m.origin)
	if err != nil || ev.Deferred {
		return buffer.ChangeEvent{}, false
	}
	return ev, true
}

// overtypeEnd returns the point n characters after p, stopping at the
// line end.
func overtypeEnd(line string, p buffer.Point, n int) buffer.Point {
	col := p.Column
	for i := 0; i < n && col < len(line); i++ {
		_, size := utf8.DecodeRuneInString(line[col:])
		col += size
	}
	return buffer.Pt(p.Line, col)
}

func nextGrapheme(line string, col int) int {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[col:], -1)
	return col + len(cluster)
}

func prevGrapheme(line string, col int) int {
	state := -1
	pos := 0
	rest := line[:col]
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if len(rest) == 0 {
			return pos
		}
		pos += len(cluster)
	}
	return pos
}
