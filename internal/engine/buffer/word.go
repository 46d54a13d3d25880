package buffer

import (
	"unicode"
	"unicode/utf8"
)

// charClass groups characters for word movement.
type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(r rune) charClass {
	switch {
	case r == ' ' || r == '\t' || unicode.IsSpace(r):
		return classSpace
	case IsWordChar(r):
		return classWord
	default:
		return classPunct
	}
}

// IsWordChar reports whether r belongs to an identifier: a letter, a digit
// or an underscore.
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordBounds returns the run of same-class characters around p on its line.
// When p sits on a blank just after a word, or at the end of the line, the
// word before it is returned.
func (b *Buffer) WordBounds(p Point) Range {
	p = b.CorrectPosition(p)
	line := b.Line(p.Line)
	if line == "" {
		return EmptyRange(p)
	}

	col := p.Column
	if col >= len(line) {
		_, size := utf8.DecodeLastRuneInString(line)
		col = len(line) - size
	} else if col > 0 {
		cur, _ := utf8.DecodeRuneInString(line[col:])
		prev, _ := utf8.DecodeLastRuneInString(line[:col])
		if classify(cur) == classSpace && classify(prev) == classWord {
			col -= utf8.RuneLen(prev)
		}
	}

	r, _ := utf8.DecodeRuneInString(line[col:])
	class := classify(r)

	start := col
	for start > 0 {
		prev, size := utf8.DecodeLastRuneInString(line[:start])
		if classify(prev) != class {
			break
		}
		start -= size
	}
	end := col
	for end < len(line) {
		next, size := utf8.DecodeRuneInString(line[end:])
		if classify(next) != class {
			break
		}
		end += size
	}
	return Range{Start: Point{Line: p.Line, Column: start}, End: Point{Line: p.Line, Column: end}}
}

// MoveByWord returns the position one word away from p in direction dir
// (negative for backwards). Crossing a line end counts as one step. With
// camelCase set, case humps and letter/digit transitions inside identifiers
// are treated as word boundaries.
func (b *Buffer) MoveByWord(p Point, dir int, camelCase bool) Point {
	p = b.CorrectPosition(p)
	line := b.Line(p.Line)

	if dir >= 0 {
		if p.Column >= len(line) {
			if p.Line+1 < b.LineCount() {
				return Point{Line: p.Line + 1}
			}
			return p
		}
		return Point{Line: p.Line, Column: nextWordStop(line, p.Column, camelCase)}
	}

	if p.Column == 0 {
		if p.Line > 0 {
			return b.LineEnd(p.Line - 1)
		}
		return p
	}
	return Point{Line: p.Line, Column: prevWordStop(line, p.Column, camelCase)}
}

// nextWordStop skips the current run of characters and the blanks after it.
func nextWordStop(line string, col int, camelCase bool) int {
	r, size := utf8.DecodeRuneInString(line[col:])
	class := classify(r)
	if class != classSpace {
		prev := r
		col += size
		for col < len(line) {
			next, n := utf8.DecodeRuneInString(line[col:])
			if classify(next) != class {
				break
			}
			if class == classWord && camelCase && humpBoundary(line, col, prev, next) {
				return col
			}
			prev = next
			col += n
		}
	}
	for col < len(line) {
		next, n := utf8.DecodeRuneInString(line[col:])
		if classify(next) != classSpace {
			break
		}
		col += n
	}
	return col
}

// prevWordStop skips blanks backwards and then the run before them.
func prevWordStop(line string, col int, camelCase bool) int {
	for col > 0 {
		prev, n := utf8.DecodeLastRuneInString(line[:col])
		if classify(prev) != classSpace {
			break
		}
		col -= n
	}
	if col == 0 {
		return 0
	}
	r, size := utf8.DecodeLastRuneInString(line[:col])
	class := classify(r)
	col -= size
	next := r
	for col > 0 {
		prev, n := utf8.DecodeLastRuneInString(line[:col])
		if classify(prev) != class {
			break
		}
		if class == classWord && camelCase && humpBoundary(line, col, prev, next) {
			return col
		}
		next = prev
		col -= n
	}
	return col
}

// humpBoundary reports whether a camelCase word boundary sits at col,
// between prev (ending at col) and next (starting at col).
func humpBoundary(line string, col int, prev, next rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(next):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(next),
		unicode.IsDigit(prev) && unicode.IsLetter(next):
		return true
	case prev == '_' && next != '_', prev != '_' && next == '_':
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(next):
		// "HTTPServer": the boundary is before the last capital of a run
		// that is followed by a lower-case letter.
		after := col + utf8.RuneLen(next)
		if after < len(line) {
			r, _ := utf8.DecodeRuneInString(line[after:])
			return unicode.IsLower(r)
		}
	}
	return false
}
