package wrap

import (
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
)

type lines []string

func (l lines) Line(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

func (l lines) LineCount() int { return len(l) }

func newTestCache(src lines, width int) *Cache {
	c := NewCache(src, NewCellMeasurer(1), 4)
	c.SetEnabled(true)
	c.SetMaxWidth(width)
	return c
}

func TestCacheInactiveSynthesizesSingleSpan(t *testing.T) {
	c := NewCache(lines{"hello world foo"}, NewCellMeasurer(1), 4)
	c.SetMaxWidth(5)
	span := c.Span(0)
	if span.WrapCount != 1 || span.WrapPoints[0].Offset != 15 {
		t.Errorf("disabled wrap should give one sub-line, got %+v", span)
	}
	if c.Len() != 0 {
		t.Error("nothing should be cached while wrap is off")
	}

	c.SetEnabled(true)
	c.SetMaxWidth(0)
	if c.Active() {
		t.Error("zero width must not be active")
	}
	if c.Span(0).WrapCount != 1 {
		t.Error("zero width should not wrap")
	}
}

func TestCacheHitsAndRevalidates(t *testing.T) {
	src := lines{"hello world foo"}
	c := newTestCache(src, 11)

	first := c.Span(0)
	c.Span(0)
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1/1", hits, misses)
	}
	if first.WrapCount != 2 {
		t.Fatalf("WrapCount = %d, want 2", first.WrapCount)
	}

	src[0] = "short"
	if got := c.Span(0).WrapCount; got != 1 {
		t.Errorf("changed text should be re-laid out, WrapCount = %d", got)
	}
}

func TestCacheInvalidationTriggers(t *testing.T) {
	c := newTestCache(lines{"aaaa bbbb", "cccc dddd"}, 5)
	c.Layout(0, 1)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	c.SetMaxWidth(6)
	if c.Len() != 0 {
		t.Error("resize should invalidate")
	}
	c.Layout(0, 1)
	c.SetEnabled(false)
	if c.Len() != 0 {
		t.Error("wrap toggle should invalidate")
	}
	c.SetEnabled(true)
	c.Layout(0, 1)
	c.SetMeasurer(NewCellMeasurer(2))
	if c.Len() != 0 {
		t.Error("measurer change should invalidate")
	}
	c.Layout(0, 1)
	c.Invalidate()
	if c.Len() != 0 {
		t.Error("Invalidate should drop everything")
	}
}

func TestCacheLayoutRetainsWindow(t *testing.T) {
	c := newTestCache(lines{"a", "b", "c", "d", "e"}, 10)
	c.Layout(0, 4)
	c.Layout(2, 3)
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want only the visible window", c.Len())
	}
	if got := len(c.Layout(3, 99)); got != 2 {
		t.Errorf("Layout past the end returned %d spans, want 2", got)
	}
}

func TestWrapsUpToAndVisualRows(t *testing.T) {
	src := lines{"hello world foo", "x", "aaaa bbbb cccc", "tail"}
	c := newTestCache(src, 5)
	c.Layout(0, 3)

	rows0 := c.Span(0).WrapCount
	rows2 := c.Span(2).WrapCount

	if got := c.WrapsUpTo(0); got != 0 {
		t.Errorf("WrapsUpTo(0) = %d, want 0", got)
	}
	if got, want := c.WrapsUpTo(2), rows0-1; got != want {
		t.Errorf("WrapsUpTo(2) = %d, want %d", got, want)
	}
	if got, want := c.WrapsUpTo(4), rows0-1+rows2-1; got != want {
		t.Errorf("WrapsUpTo(4) = %d, want %d", got, want)
	}
	if got, want := c.VisualRows(0, 4), rows0+1+rows2+1; got != want {
		t.Errorf("VisualRows(0,4) = %d, want %d", got, want)
	}
}

func TestFindWrapLine(t *testing.T) {
	c := newTestCache(lines{"hello world foo"}, 11)
	if got := c.FindWrapLine(buffer.Pt(0, 8)); got != 1 {
		t.Errorf("FindWrapLine = %d, want 1", got)
	}
	if got := c.FindWrapLine(buffer.Pt(0, 2)); got != 0 {
		t.Errorf("FindWrapLine = %d, want 0", got)
	}
}
