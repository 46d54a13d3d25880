package wrap

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultSplitChars are the characters a line may break after.
const DefaultSplitChars = " -\t"

// WrapPoint marks the end of a visual sub-line.
type WrapPoint struct {
	Offset int // byte offset from the line start, exclusive end of the sub-line
	Width  int // cumulative width of every sub-line up to and including this one
}

// LineSpan is the wrap layout of one logical line.
//
// WrapPoints holds one entry per sub-line, increasing in both fields; the
// last Offset equals the line length.
type LineSpan struct {
	Line       int
	WrapCount  int
	WrapPoints []WrapPoint
	Segments   []string
}

// SingleSpan returns the unwrapped layout of a line of the given length.
func SingleSpan(line, length, width int) LineSpan {
	return LineSpan{
		Line:       line,
		WrapCount:  1,
		WrapPoints: []WrapPoint{{Offset: length, Width: width}},
	}
}

// SubLineStart returns the byte offset where sub-line i begins.
func (s LineSpan) SubLineStart(i int) int {
	if i <= 0 || len(s.WrapPoints) == 0 {
		return 0
	}
	if i > len(s.WrapPoints) {
		i = len(s.WrapPoints)
	}
	return s.WrapPoints[i-1].Offset
}

// SubLineEnd returns the exclusive byte offset where sub-line i ends.
func (s LineSpan) SubLineEnd(i int) int {
	if len(s.WrapPoints) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.WrapPoints) {
		i = len(s.WrapPoints) - 1
	}
	return s.WrapPoints[i].Offset
}

// SubLineOf returns the index of the sub-line containing column col.
// A column on a boundary belongs to the later sub-line, except at the end
// of the line, which belongs to the last one.
func (s LineSpan) SubLineOf(col int) int {
	remaining := col
	for i := range s.WrapPoints {
		remaining -= s.SubLineEnd(i) - s.SubLineStart(i)
		if remaining < 0 {
			return i
		}
	}
	if len(s.WrapPoints) == 0 {
		return 0
	}
	return len(s.WrapPoints) - 1
}

// Wrapper breaks lines under a width budget.
type Wrapper struct {
	SplitChars string
	MaxWidth   int
	TabSize    int
	Measurer   Measurer
}

// NewWrapper returns a wrapper with the default split characters.
func NewWrapper(m Measurer, maxWidth, tabSize int) *Wrapper {
	return &Wrapper{
		SplitChars: DefaultSplitChars,
		MaxWidth:   maxWidth,
		TabSize:    tabSize,
		Measurer:   m,
	}
}

// unit is a breakable piece of a line.
type unit struct {
	start, end int
}

// units splits line after each split character. A split character stays
// attached to the word before it; a blank with no word before it (leading
// indentation or a run of blanks) forms a unit of its own.
func (w *Wrapper) units(line string) []unit {
	var out []unit
	start := 0
	for i, r := range line {
		if !strings.ContainsRune(w.SplitChars, r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		if isBlank(r) && i == start && len(out) > 0 && out[len(out)-1].end == start {
			// Blank right after another split: extend the previous blank unit
			// if it consists of blanks only, else stand alone.
			prev := out[len(out)-1]
			if allBlank(line[prev.start:prev.end]) {
				out[len(out)-1].end = end
				start = end
				continue
			}
		}
		out = append(out, unit{start: start, end: end})
		start = end
	}
	if start < len(line) || len(out) == 0 {
		out = append(out, unit{start: start, end: len(line)})
	}
	return out
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func allBlank(s string) bool {
	for _, r := range s {
		if !isBlank(r) {
			return false
		}
	}
	return true
}

// WrapLine lays out one logical line. A non-positive MaxWidth or a nil
// Measurer yields a single sub-line.
func (w *Wrapper) WrapLine(line string, lineNo int) LineSpan {
	if w.MaxWidth <= 0 || w.Measurer == nil {
		return LineSpan{
			Line:       lineNo,
			WrapCount:  1,
			WrapPoints: []WrapPoint{{Offset: len(line), Width: w.width(line)}},
			Segments:   []string{line},
		}
	}

	span := LineSpan{Line: lineNo}
	total := 0
	emit := func(start, end int) {
		seg := line[start:end]
		total += w.width(seg)
		span.WrapPoints = append(span.WrapPoints, WrapPoint{Offset: end, Width: total})
		span.Segments = append(span.Segments, seg)
	}

	cur := 0 // start of the sub-line being accumulated
	for _, u := range w.units(line) {
		if w.width(line[cur:u.end]) <= w.MaxWidth {
			continue
		}
		// Close what we have before this unit.
		if u.start > cur {
			emit(cur, u.start)
			cur = u.start
		}
		// Hard-split the unit while it alone does not fit.
		for w.width(line[cur:u.end]) > w.MaxWidth {
			cut := cur + w.findWrapPoint(line[cur:u.end])
			emit(cur, cut)
			cur = cut
		}
	}
	if cur < len(line) || len(span.WrapPoints) == 0 {
		emit(cur, len(line))
	}

	span.WrapCount = len(span.WrapPoints)
	return span
}

// findWrapPoint returns the byte length of the longest prefix of s that
// fits in MaxWidth, never less than one rune. The cumulative widths are
// monotonic, so the boundary is found by binary search.
func (w *Wrapper) findWrapPoint(s string) int {
	widths := w.Measurer.Measure(s, w.TabSize)
	n := sort.Search(len(widths), func(i int) bool { return widths[i] > w.MaxWidth })
	if n == 0 {
		n = 1
	}
	// Convert the rune count back to bytes.
	off := 0
	for i := 0; i < n && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return off
}

func (w *Wrapper) width(s string) int {
	if w.Measurer == nil || s == "" {
		return 0
	}
	return Width(w.Measurer, s, w.TabSize)
}
