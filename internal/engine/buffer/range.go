package buffer

import "fmt"

// Range is a span of text between two points.
// Start is inclusive, End is exclusive. Start <= End always holds for
// ranges built with NewRange.
type Range struct {
	Start Point
	End   Point
}

// NewRange creates a range from two points in either order.
func NewRange(a, b Point) Range {
	if a.After(b) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// EmptyRange returns a zero-width range at p.
func EmptyRange(p Point) Range {
	return Range{Start: p, End: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start.String(), r.End.String())
}

// IsEmpty returns true if start equals end.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Contains returns true if the given point is within [Start, End).
func (r Range) Contains(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// ContainsInclusive returns true if the given point is within [Start, End].
func (r Range) ContainsInclusive(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) <= 0
}

// ContainsRange returns true if other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return other.Start.Compare(r.Start) >= 0 && other.End.Compare(r.End) <= 0
}
