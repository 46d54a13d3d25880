package wrap

import (
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Source provides the logical lines being wrapped.
type Source interface {
	Line(i int) string
	LineCount() int
}

// Cache holds wrap layouts for the logical lines that have been laid out.
// Entries are validated against a hash of the line text, and dropped
// wholesale whenever anything that affects layout changes.
type Cache struct {
	mu      sync.Mutex
	source  Source
	wrapper Wrapper
	enabled bool
	entries map[int]*cacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheEntry struct {
	span     LineSpan
	lineHash uint64
}

// NewCache creates a cache over src. Wrapping starts disabled.
func NewCache(src Source, m Measurer, tabSize int) *Cache {
	return &Cache{
		source:  src,
		wrapper: *NewWrapper(m, 0, tabSize),
		entries: make(map[int]*cacheEntry),
	}
}

// Enabled reports whether word wrap is switched on.
func (c *Cache) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Active reports whether lines are actually being wrapped: wrap is on and
// the viewport has a usable width.
func (c *Cache) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *Cache) activeLocked() bool {
	return c.enabled && c.wrapper.MaxWidth > 0 && c.wrapper.Measurer != nil
}

// SetEnabled toggles word wrap.
func (c *Cache) SetEnabled(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled != on {
		c.enabled = on
		c.clearLocked()
	}
}

// MaxWidth returns the width budget.
func (c *Cache) MaxWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wrapper.MaxWidth
}

// SetMaxWidth changes the width budget, typically on viewport resize.
func (c *Cache) SetMaxWidth(w int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrapper.MaxWidth != w {
		c.wrapper.MaxWidth = w
		c.clearLocked()
	}
}

// SetMeasurer replaces the measurer, typically on font change.
func (c *Cache) SetMeasurer(m Measurer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrapper.Measurer = m
	c.clearLocked()
}

// Measurer returns the current measurer.
func (c *Cache) Measurer() Measurer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wrapper.Measurer
}

// SetTabSize changes the tab size used when measuring.
func (c *Cache) SetTabSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrapper.TabSize != n {
		c.wrapper.TabSize = n
		c.clearLocked()
	}
}

// SetSplitChars changes the characters lines may break after.
func (c *Cache) SetSplitChars(chars string) {
	if chars == "" {
		chars = DefaultSplitChars
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wrapper.SplitChars != chars {
		c.wrapper.SplitChars = chars
		c.clearLocked()
	}
}

// Invalidate drops every cached layout.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cache) clearLocked() {
	c.entries = make(map[int]*cacheEntry)
}

// Retain drops layouts for lines outside [first, last].
func (c *Cache) Retain(first, last int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line < first || line > last {
			delete(c.entries, line)
		}
	}
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Span returns the layout of a logical line, computing and caching it when
// wrapping is active. When it is not, a single sub-line layout is
// synthesised and nothing is cached.
func (c *Cache) Span(line int) LineSpan {
	text := c.source.Line(line)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.activeLocked() {
		span := SingleSpan(line, len(text), 0)
		span.Segments = []string{text}
		return span
	}

	hash := hashLine(text)
	if e, ok := c.entries[line]; ok && e.lineHash == hash {
		c.hits.Add(1)
		return e.span
	}
	c.misses.Add(1)

	span := c.wrapper.WrapLine(text, line)
	c.entries[line] = &cacheEntry{span: span, lineHash: hash}
	return span
}

// Layout computes layouts for lines [first, last] and drops the rest, so
// the cache covers exactly the visible window.
func (c *Cache) Layout(first, last int) []LineSpan {
	if n := c.source.LineCount(); last >= n {
		last = n - 1
	}
	if first < 0 {
		first = 0
	}
	c.Retain(first, last)
	spans := make([]LineSpan, 0, last-first+1)
	for line := first; line <= last; line++ {
		spans = append(spans, c.Span(line))
	}
	return spans
}

// WrapsUpTo returns the number of extra visual rows contributed by wrapping
// in the laid-out lines before line. Lines never laid out count as one row.
func (c *Cache) WrapsUpTo(line int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return 0
	}
	extra := 0
	for l, e := range c.entries {
		if l < line {
			extra += e.span.WrapCount - 1
		}
	}
	return extra
}

// FindWrapLine returns the sub-line of p's logical line that contains
// p.Column.
func (c *Cache) FindWrapLine(p buffer.Point) int {
	return c.Span(p.Line).SubLineOf(p.Column)
}

// VisualRows returns how many visual rows the lines [from, to) occupy.
func (c *Cache) VisualRows(from, to int) int {
	if n := c.source.LineCount(); to > n {
		to = n
	}
	if from < 0 {
		from = 0
	}
	if !c.Active() {
		if to < from {
			return 0
		}
		return to - from
	}
	rows := 0
	for line := from; line < to; line++ {
		rows += c.Span(line).WrapCount
	}
	return rows
}

func hashLine(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
