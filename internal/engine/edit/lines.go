package edit

import (
	"strings"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// JoinLines joins the selected lines, or the caret line and the next one,
// into one line. Leading blanks of each joined line collapse to a single
// space.
func (m *Mediator) JoinLines() bool {
	if m.content.ReadOnly() {
		return false
	}
	first, last := selectedLines(m.sel.Selection())
	if !m.sel.HasSelection() {
		first = m.sel.Caret().Line
		last = first
	}
	if last == first {
		last = first + 1
	}
	if last >= m.content.LineCount() {
		return false
	}

	joined := m.content.Line(first)
	col := len(joined)
	for i := first + 1; i <= last; i++ {
		next := strings.TrimLeft(m.content.Line(i), " \t")
		sep := " "
		if joined == "" || next == "" || strings.HasSuffix(joined, " ") || strings.HasSuffix(joined, "\t") {
			sep = ""
		}
		col = len(joined) + len(sep)
		joined += sep + next
	}

	m.content.SealUndo()
	r := buffer.Range{Start: buffer.Pt(first, 0), End: m.content.LineEnd(last)}
	if _, ok := m.replace(r, joined); !ok {
		return false
	}
	m.content.SealUndo()
	m.sel.SetCaret(buffer.Pt(first, col), false)
	return true
}

// ToggleComment comments the selected lines (or the caret line) with the
// syntax's line comment, or uncomments them if every non-blank line is
// already commented.
func (m *Mediator) ToggleComment() bool {
	if m.content.ReadOnly() {
		return false
	}
	syn := m.content.Syntax()
	if syn == nil || syn.LineComment() == "" {
		return false
	}
	prefix := syn.LineComment()

	first, last := selectedLines(m.sel.Selection())
	if !m.sel.HasSelection() {
		first, last = m.sel.Caret().Line, m.sel.Caret().Line
	}

	commented := true
	indent := -1
	for i := first; i <= last; i++ {
		text := m.content.Line(i)
		idx := m.content.LineWhiteSpace(i).FirstNonSpaceIndex
		if idx == len(text) {
			continue
		}
		if indent < 0 || idx < indent {
			indent = idx
		}
		if !strings.HasPrefix(text[idx:], prefix) {
			commented = false
		}
	}
	if indent < 0 {
		return false
	}

	return m.editLines(first, last, func(i int, text string) lineEdit {
		idx := m.content.LineWhiteSpace(i).FirstNonSpaceIndex
		if idx == len(text) {
			return lineEdit{}
		}
		if commented {
			n := len(prefix)
			if strings.HasPrefix(text[idx+n:], " ") {
				n++
			}
			return lineEdit{at: idx, del: n}
		}
		return lineEdit{at: indent, ins: prefix + " "}
	})
}

// DeleteLine removes the selected lines, or the caret line, including
// the line break.
func (m *Mediator) DeleteLine() bool {
	if m.content.ReadOnly() {
		return false
	}
	first, last := selectedLines(m.sel.Selection())
	if !m.sel.HasSelection() {
		first, last = m.sel.Caret().Line, m.sel.Caret().Line
	}
	count := m.content.LineCount()
	col := m.sel.Caret().Column

	var r buffer.Range
	switch {
	case last+1 < count:
		r = buffer.Range{Start: buffer.Pt(first, 0), End: buffer.Pt(last+1, 0)}
	case first > 0:
		r = buffer.Range{Start: m.content.LineEnd(first - 1), End: m.content.LineEnd(last)}
	default:
		r = buffer.Range{Start: buffer.Pt(0, 0), End: m.content.LineEnd(last)}
	}
	if r.IsEmpty() {
		return false
	}

	m.content.SealUndo()
	if _, ok := m.replace(r, ""); !ok {
		return false
	}
	m.content.SealUndo()

	line := min(first, m.content.LineCount()-1)
	m.sel.SetCaret(buffer.Pt(line, col), false)
	return true
}

// DuplicateLine copies the selected lines, or the caret line, below
// themselves and moves the caret and selection onto the copy.
func (m *Mediator) DuplicateLine() bool {
	if m.content.ReadOnly() {
		return false
	}
	sel := m.sel.Selection()
	caret := m.sel.Caret()
	first, last := selectedLines(sel)
	if !m.sel.HasSelection() {
		first, last = caret.Line, caret.Line
	}

	lines := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		lines = append(lines, m.content.Line(i))
	}

	m.content.SealUndo()
	if _, ok := m.replace(buffer.EmptyRange(m.content.LineEnd(last)), "\n"+strings.Join(lines, "\n")); !ok {
		return false
	}
	m.content.SealUndo()

	n := last - first + 1
	down := func(p buffer.Point) buffer.Point {
		p.Line += n
		return p
	}
	if sel.IsEmpty() {
		m.sel.SetCaret(down(caret), false)
		return true
	}
	m.sel.SetSelection(buffer.NewRange(down(sel.Start), down(sel.End)), caret == sel.Start)
	return true
}
