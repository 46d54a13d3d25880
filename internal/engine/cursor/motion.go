package cursor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/wrap"
)

// MoveLeft moves one character left, onto the end of the previous line
// when at a line start.
func (c *Controller) MoveLeft(extend bool) {
	p := c.caret
	switch {
	case p.Column > 0:
		p.Column = prevGrapheme(c.content.Line(p.Line), p.Column)
	case p.Line > 0:
		p = c.content.LineEnd(p.Line - 1)
	}
	c.moveCaret(p, extend)
}

// MoveRight moves one character right, onto the start of the next line
// when at a line end.
func (c *Controller) MoveRight(extend bool) {
	p := c.caret
	line := c.content.Line(p.Line)
	switch {
	case p.Column < len(line):
		p.Column = nextGrapheme(line, p.Column)
	case p.Line+1 < c.content.LineCount():
		p = buffer.Point{Line: p.Line + 1}
	}
	c.moveCaret(p, extend)
}

// MoveWordLeft moves to the previous word stop.
func (c *Controller) MoveWordLeft(extend bool) {
	c.moveCaret(c.content.MoveByWord(c.caret, -1, c.camelCase), extend)
}

// MoveWordRight moves to the next word stop.
func (c *Controller) MoveWordRight(extend bool) {
	c.moveCaret(c.content.MoveByWord(c.caret, 1, c.camelCase), extend)
}

// MoveUp moves one visual row up.
func (c *Controller) MoveUp(extend bool) {
	c.moveCaret(c.verticalTarget(c.caret, -1), extend)
}

// MoveDown moves one visual row down.
func (c *Controller) MoveDown(extend bool) {
	c.moveCaret(c.verticalTarget(c.caret, 1), extend)
}

// MovePage moves rows visual rows in direction dir.
func (c *Controller) MovePage(rows, dir int, extend bool) {
	if rows < 1 {
		rows = 1
	}
	p := c.caret
	for i := 0; i < rows; i++ {
		next := c.verticalTarget(p, dir)
		if next == p {
			break
		}
		p = next
	}
	c.moveCaret(p, extend)
}

// MoveHome moves to the first non-blank character of the line, or to
// column 0 if already there.
func (c *Controller) MoveHome(extend bool) {
	ws := c.content.LineWhiteSpace(c.caret.Line)
	p := buffer.Point{Line: c.caret.Line, Column: ws.FirstNonSpaceIndex}
	if c.caret.Column == ws.FirstNonSpaceIndex {
		p.Column = 0
	}
	c.moveCaret(p, extend)
}

// MoveEnd moves to the end of the line.
func (c *Controller) MoveEnd(extend bool) {
	c.moveCaret(c.content.LineEnd(c.caret.Line), extend)
}

// MoveDocStart moves to the start of the document.
func (c *Controller) MoveDocStart(extend bool) {
	c.moveCaret(buffer.Point{}, extend)
}

// MoveDocEnd moves to the end of the document.
func (c *Controller) MoveDocEnd(extend bool) {
	c.moveCaret(c.content.LineEnd(c.content.LineCount()-1), extend)
}

// SelectAll selects the whole document with the caret at the end.
func (c *Controller) SelectAll() {
	end := c.content.LineEnd(c.content.LineCount() - 1)
	c.SetSelection(buffer.Range{End: end}, false)
}

// SelectWord selects the word around the caret.
func (c *Controller) SelectWord() {
	c.SetSelection(c.content.WordBounds(c.caret), false)
}

// SelectLine selects the caret's line including its line break.
func (c *Controller) SelectLine() {
	line := c.caret.Line
	r := c.content.LineRange(line)
	if line+1 < c.content.LineCount() {
		r.End = buffer.Point{Line: line + 1}
	}
	c.SetSelection(r, false)
}

// verticalTarget computes the position one visual row above (dir < 0) or
// below (dir > 0) p. Off either end of the document it goes to the
// document start or end.
func (c *Controller) verticalTarget(p buffer.Point, dir int) buffer.Point {
	count := c.content.LineCount()

	if c.layout == nil || !c.layout.Active() {
		line := p.Line + dir
		if line < 0 {
			return buffer.Point{}
		}
		if line >= count {
			return c.content.LineEnd(count - 1)
		}
		return c.content.CorrectPosition(buffer.Point{Line: line, Column: p.Column})
	}

	text := c.content.Line(p.Line)
	span := c.layout.Span(p.Line)
	sub := span.SubLineOf(p.Column)
	offset := runeCount(text, span.SubLineStart(sub), p.Column)

	if dir < 0 {
		if sub > 0 {
			return buffer.Point{Line: p.Line, Column: columnInSubLine(span, text, sub-1, offset)}
		}
		if p.Line == 0 {
			return buffer.Point{}
		}
		prevText := c.content.Line(p.Line - 1)
		prev := c.layout.Span(p.Line - 1)
		return buffer.Point{Line: p.Line - 1, Column: columnInSubLine(prev, prevText, prev.WrapCount-1, offset)}
	}

	if sub < span.WrapCount-1 {
		return buffer.Point{Line: p.Line, Column: columnInSubLine(span, text, sub+1, offset)}
	}
	if p.Line+1 >= count {
		return c.content.LineEnd(p.Line)
	}
	nextText := c.content.Line(p.Line + 1)
	next := c.layout.Span(p.Line + 1)
	return buffer.Point{Line: p.Line + 1, Column: columnInSubLine(next, nextText, 0, offset)}
}

// columnInSubLine returns the column offset runes into sub-line k of span.
// The result stays on sub-line k: on every sub-line but the last it stops
// before the final character, since the boundary belongs to the next row.
func columnInSubLine(span wrap.LineSpan, text string, k, offset int) int {
	start := span.SubLineStart(k)
	end := span.SubLineEnd(k)
	if end > len(text) {
		end = len(text)
	}
	limit := end
	if k < span.WrapCount-1 && end > start {
		_, size := utf8.DecodeLastRuneInString(text[start:end])
		limit = end - size
	}
	col := start
	for i := 0; i < offset && col < limit; i++ {
		_, size := utf8.DecodeRuneInString(text[col:])
		col += size
	}
	if col > limit {
		col = limit
	}
	return col
}

// runeCount counts runes in text[from:to].
func runeCount(text string, from, to int) int {
	if to > len(text) {
		to = len(text)
	}
	if from >= to {
		return 0
	}
	return utf8.RuneCountInString(text[from:to])
}

// nextGrapheme returns the column after the grapheme cluster at col.
func nextGrapheme(line string, col int) int {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[col:], -1)
	if cluster == "" {
		return col
	}
	return col + len(cluster)
}

// prevGrapheme returns the column of the grapheme cluster ending at col.
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
