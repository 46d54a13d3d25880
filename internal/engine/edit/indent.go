package edit

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// lineEdit replaces del bytes at column at with ins on one line.
type lineEdit struct {
	at  int
	del int
	ins string
}

// adjust maps a column on the edited line to its new value. A column at
// the start of the line stays put so whole-line selections survive.
func (e lineEdit) adjust(col int) int {
	switch {
	case col < e.at:
		return col
	case col < e.at+e.del:
		return e.at
	case col == 0:
		return 0
	default:
		return col - e.del + len(e.ins)
	}
}

func (e lineEdit) noop() bool {
	return e.del == 0 && e.ins == ""
}

// Indent indents the selected lines one level, or inserts one level of
// indentation at the caret when nothing is selected.
func (m *Mediator) Indent() bool {
	if m.content.ReadOnly() {
		return false
	}
	if m.sel.HasSelection() {
		first, last := selectedLines(m.sel.Selection())
		return m.editLines(first, last, func(i int, text string) lineEdit {
			if text == "" {
				return lineEdit{}
			}
			ws := m.content.LineWhiteSpace(i)
			return lineEdit{at: ws.FirstNonSpaceIndex, ins: m.indentText(ws.FirstNonSpaceColumn)}
		})
	}

	caret := m.sel.Caret()
	x := visualColumn(m.content.Line(caret.Line)[:caret.Column], m.content.TabSize())
	ev, ok := m.replace(buffer.EmptyRange(caret), m.indentText(x))
	if !ok {
		return false
	}
	m.sel.SetCaret(ev.NewEnd, false)
	return true
}

// Unindent removes one level of indentation from the selected lines, or
// from the caret's line.
func (m *Mediator) Unindent() bool {
	if m.content.ReadOnly() {
		return false
	}
	first, last := selectedLines(m.sel.Selection())
	if !m.sel.HasSelection() {
		first, last = m.sel.Caret().Line, m.sel.Caret().Line
	}
	return m.editLines(first, last, func(i int, _ string) lineEdit {
		idx := m.content.LineWhiteSpace(i).FirstNonSpaceIndex
		n := m.SpaceBefore(i, idx)
		return lineEdit{at: idx - n, del: n}
	})
}

// IndentLine indents one line by a level at its first non-blank
// character and returns the number of bytes inserted.
func (m *Mediator) IndentLine(line int) int {
	if m.content.ReadOnly() || line < 0 || line >= m.content.LineCount() {
		return 0
	}
	var n int
	m.editLines(line, line, func(i int, _ string) lineEdit {
		ws := m.content.LineWhiteSpace(i)
		e := lineEdit{at: ws.FirstNonSpaceIndex, ins: m.indentText(ws.FirstNonSpaceColumn)}
		n = len(e.ins)
		return e
	})
	return n
}

// SpaceBefore returns how many bytes before col must be removed to move
// back to the previous tab stop. It is zero unless everything before col
// is blank.
func (m *Mediator) SpaceBefore(line, col int) int {
	text := m.content.Line(line)
	if col > len(text) {
		col = len(text)
	}
	tab := m.tabSize()

	starts := make([]int, 0, col)
	x := 0
	for i := 0; i < col; i++ {
		starts = append(starts, x)
		switch text[i] {
		case ' ':
			x++
		case '\t':
			x = nextTabStop(x, tab)
		default:
			return 0
		}
	}
	if x == 0 {
		return 0
	}

	target := (x - 1) / tab * tab
	for i, sx := range starts {
		if sx >= target {
			return col - i
		}
	}
	return col
}

// editLines applies one lineEdit per line in [first, last] as a single
// mutation and restores the selection through the edits.
func (m *Mediator) editLines(first, last int, edit func(i int, text string) lineEdit) bool {
	edits := make([]lineEdit, 0, last-first+1)
	lines := make([]string, 0, last-first+1)
	changed := false
	for i := first; i <= last; i++ {
		text := m.content.Line(i)
		e := edit(i, text)
		if !e.noop() {
			changed = true
			text = text[:e.at] + e.ins + text[e.at+e.del:]
		}
		edits = append(edits, e)
		lines = append(lines, text)
	}
	if !changed {
		return false
	}

	sel := m.sel.Selection()
	caret := m.sel.Caret()
	caretAtStart := !sel.IsEmpty() && caret == sel.Start

	m.content.SealUndo()
	r := buffer.Range{Start: buffer.Pt(first, 0), End: m.content.LineEnd(last)}
	if _, ok := m.replace(r, strings.Join(lines, "\n")); !ok {
		return false
	}
	m.content.SealUndo()

	move := func(p buffer.Point) buffer.Point {
		if p.Line < first || p.Line > last {
			return p
		}
		p.Column = edits[p.Line-first].adjust(p.Column)
		return p
	}
	if sel.IsEmpty() {
		m.sel.SetCaret(move(caret), false)
		return true
	}
	m.sel.SetSelection(buffer.NewRange(move(sel.Start), move(sel.End)), caretAtStart)
	return true
}

// indentText is one indentation level for text starting at virtual
// column x: a tab, or spaces up to the next tab stop.
func (m *Mediator) indentText(x int) string {
	if m.useTabs {
		return "\t"
	}
	tab := m.tabSize()
	return strings.Repeat(" ", nextTabStop(x, tab)-x)
}

func (m *Mediator) tabSize() int {
	if n := m.content.TabSize(); n > 0 {
		return n
	}
	return buffer.DefaultTabSize
}

func nextTabStop(x, tab int) int {
	return (x/tab + 1) * tab
}

// visualColumn is the width of text with tabs expanded, one column per
// other character.
func visualColumn(text string, tab int) int {
	if tab < 1 {
		tab = buffer.DefaultTabSize
	}
	x := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\t' {
			x = nextTabStop(x, tab)
		} else {
			x++
		}
	}
	return x
}

// selectedLines returns the lines a line-wise operation on r covers. A
// selection ending at column 0 does not include that last line.
func selectedLines(r buffer.Range) (first, last int) {
	first, last = r.Start.Line, r.End.Line
	if last > first && r.End.Column == 0 {
		last--
	}
	return first, last
}
