package editor

import (
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/wrap"
)

// Viewport is the visible window onto the document.
type Viewport struct {
	Top    int // first visible logical line
	TopSub int // first visible sub-line of Top when wrapping
	Left   int // horizontal scroll in measurer units, always 0 when wrapping
	Rows   int
	Width  int
}

// Viewport returns the current viewport.
func (e *Editor) Viewport() Viewport {
	return Viewport{Top: e.top, TopSub: e.topSub, Left: e.left, Rows: e.rows, Width: e.width}
}

// ScrollTo makes line the first visible line, clamped to the document.
func (e *Editor) ScrollTo(line int) {
	if n := e.buf.LineCount(); line >= n {
		line = n - 1
	}
	if line < 0 {
		line = 0
	}
	e.top, e.topSub = line, 0
}

// EnsureCaretVisible scrolls the smallest amount that brings the caret
// into the viewport.
func (e *Editor) EnsureCaretVisible() {
	if e.rows <= 0 {
		return
	}
	if n := e.buf.LineCount(); e.top >= n {
		e.top, e.topSub = n-1, 0
	}
	if span := e.layout.Span(e.top); e.topSub >= span.WrapCount {
		e.topSub = span.WrapCount - 1
	}

	line, sub := e.caret.CaretVisual()
	switch {
	case line < e.top || (line == e.top && sub < e.topSub):
		e.top, e.topSub = line, sub
	case line-e.top >= e.rows:
		// Every line takes at least one row, so the caret is off screen.
		e.top, e.topSub = e.rowsAbove(line, sub, e.rows-1)
	default:
		e.layout.Layout(e.top, line)
		if e.rowOffset(line, sub) >= e.rows {
			e.top, e.topSub = e.rowsAbove(line, sub, e.rows-1)
		}
	}

	if !e.layout.Active() {
		e.scrollHorizontally()
	}
}

// rowOffset is the visual row of (line, sub) counted from the top of the
// viewport. Lines from Top to line must be laid out.
func (e *Editor) rowOffset(line, sub int) int {
	rowOf := func(l, s int) int {
		return l + e.layout.WrapsUpTo(l) + s
	}
	return rowOf(line, sub) - rowOf(e.top, e.topSub)
}

// rowsAbove walks n visual rows up from (line, sub).
func (e *Editor) rowsAbove(line, sub, n int) (int, int) {
	for ; n > 0; n-- {
		switch {
		case sub > 0:
			sub--
		case line > 0:
			line--
			sub = e.layout.Span(line).WrapCount - 1
		default:
			return line, sub
		}
	}
	return line, sub
}

func (e *Editor) scrollHorizontally() {
	if e.width <= 0 {
		return
	}
	caret := e.caret.Caret()
	text := e.buf.Line(caret.Line)
	x := wrap.Width(e.layout.Measurer(), text[:caret.Column], e.buf.TabSize())
	switch {
	case x < e.left:
		e.left = x
	case x >= e.left+e.width:
		e.left = x - e.width + 1
	}
}

// Row is one visual row of the viewport.
type Row struct {
	Line  int    // logical line
	Sub   int    // sub-line index within Line
	Start int    // byte column of Text within the line
	Text  string // the sub-line text, or the whole line when not wrapping

	// Selected is the selected byte span of Text, [0, 0) when none.
	// SelectedEOL marks a selection continuing past the end of the line.
	Selected    [2]int
	SelectedEOL bool

	// Matches are byte spans of Text matching the search highlight.
	Matches [][2]int
}

// View is a snapshot of what a renderer paints.
type View struct {
	Viewport
	Rows []Row

	Caret        buffer.Point
	CaretRow     int // row index in Rows, -1 when off screen
	CaretX       int // measurer units from the start of the row's Text
	CaretVisible bool
	Replace      bool
	ReadOnly     bool
	Highlight    string
}

// View lays out the visible lines and returns them. Only these lines stay
// in the wrap cache. View clears the dirty flag.
func (e *Editor) View() View {
	v := View{
		Viewport:     e.Viewport(),
		Caret:        e.caret.Caret(),
		CaretRow:     -1,
		CaretVisible: e.CaretVisible(),
		Replace:      e.caret.ReplaceMode(),
		ReadOnly:     e.buf.ReadOnly(),
	}
	v.Highlight, _ = e.search.Highlight()
	e.caret.ClearDirty()
	if e.rows <= 0 {
		return v
	}

	last := e.top + e.rows - 1
	spans := e.layout.Layout(e.top, last)
	sel := e.caret.Selection()
	caretLine, caretSub := e.caret.CaretVisual()

	matches := make(map[int][]buffer.Range)
	for _, m := range e.search.HighlightedIn(e.top, last) {
		matches[m.Start.Line] = append(matches[m.Start.Line], m)
	}

	for _, span := range spans {
		text := e.buf.Line(span.Line)
		first := 0
		if span.Line == e.top {
			first = e.topSub
		}
		for sub := first; sub < span.WrapCount && len(v.Rows) < e.rows; sub++ {
			start, end := span.SubLineStart(sub), span.SubLineEnd(sub)
			row := Row{Line: span.Line, Sub: sub, Start: start, Text: text[start:end]}
			lastSub := sub == span.WrapCount-1
			row.Selected, row.SelectedEOL = selectedSpan(sel, span.Line, start, end, lastSub)
			for _, m := range matches[span.Line] {
				if from, to, ok := clip(m.Start.Column, m.End.Column, start, end); ok {
					row.Matches = append(row.Matches, [2]int{from, to})
				}
			}
			if span.Line == caretLine && sub == caretSub {
				v.CaretRow = len(v.Rows)
				v.CaretX = wrap.Width(e.layout.Measurer(), text[start:v.Caret.Column], e.buf.TabSize())
			}
			v.Rows = append(v.Rows, row)
		}
	}
	return v
}

// selectedSpan intersects sel with bytes [start, end) of line.
func selectedSpan(sel buffer.Range, line, start, end int, lastSub bool) ([2]int, bool) {
	if sel.IsEmpty() || line < sel.Start.Line || line > sel.End.Line {
		return [2]int{}, false
	}
	from, to := start, end
	if line == sel.Start.Line {
		from = max(from, sel.Start.Column)
	}
	eol := lastSub && line < sel.End.Line
	if line == sel.End.Line {
		to = min(to, sel.End.Column)
	}
	if from >= to {
		return [2]int{}, eol
	}
	return [2]int{from - start, to - start}, eol
}

// clip intersects [from, to) with [start, end) and rebases it on start.
func clip(from, to, start, end int) (int, int, bool) {
	from, to = max(from, start), min(to, end)
	if from >= to {
		return 0, 0, false
	}
	return from - start, to - start, true
}
