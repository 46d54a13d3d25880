package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Point represents a line and column position in logical (unwrapped) text.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (byte offset within line)
}

// Pt is shorthand for Point{Line: line, Column: col}.
func Pt(line, col int) Point {
	return Point{Line: line, Column: col}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// MinPoint returns the smaller of two points.
func MinPoint(a, b Point) Point {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// MaxPoint returns the larger of two points.
func MaxPoint(a, b Point) Point {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// Advance returns the position reached after inserting text at p.
func Advance(p Point, text string) Point {
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return Point{Line: p.Line, Column: p.Column + len(text)}
	}
	last := strings.LastIndexByte(text, '\n')
	return Point{Line: p.Line + nl, Column: len(text) - last - 1}
}

// snapColumn moves col back onto the start of a UTF-8 sequence in line.
func snapColumn(line string, col int) int {
	if col >= len(line) {
		return len(line)
	}
	for col > 0 && !utf8.RuneStart(line[col]) {
		col--
	}
	return col
}
