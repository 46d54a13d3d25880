package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Options are search flags. The zero value is a case-insensitive substring
// search over the whole document.
type Options uint8

const (
	// CaseSensitive compares runes exactly.
	CaseSensitive Options = 1 << iota
	// WholeWords rejects matches that touch a word character on either side.
	WholeWords
	// SelectionOnly limits the search to the current selection.
	SelectionOnly
)

// Has reports whether all flags in f are set.
func (o Options) Has(f Options) bool {
	return o&f == f
}

// String lists the set flags.
func (o Options) String() string {
	var parts []string
	if o.Has(CaseSensitive) {
		parts = append(parts, "case")
	}
	if o.Has(WholeWords) {
		parts = append(parts, "word")
	}
	if o.Has(SelectionOnly) {
		parts = append(parts, "selection")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Content is the text store searched and edited.
type Content interface {
	LineCount() int
	Line(i int) string
	ReadOnly() bool
	PerformOperation(op buffer.Operation, origin buffer.Origin) (buffer.ChangeEvent, error)
	BeginGroup(name string)
	EndGroup()
}

// Option configures an Engine.
type Option func(*Engine)

// WithSelection supplies the selection used by SelectionOnly searches.
func WithSelection(fn func() buffer.Range) Option {
	return func(e *Engine) {
		e.selection = fn
	}
}

// WithOrigin tags the engine's edits.
func WithOrigin(o buffer.Origin) Option {
	return func(e *Engine) {
		e.origin = o
	}
}

// Engine runs searches and replacements against one content.
type Engine struct {
	content   Content
	origin    buffer.Origin
	selection func() buffer.Range

	mu      sync.Mutex
	pattern string
	opts    Options
	scope   buffer.Range
	pinned  bool

	compiled    *regexp.Regexp
	compPattern string
	compCase    bool
}

// New creates an engine over content.
func New(content Content, opts ...Option) *Engine {
	e := &Engine{content: content}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Highlight returns the last pattern and options used, for rendering.
func (e *Engine) Highlight() (string, Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pattern, e.opts
}

// ClearHighlight forgets the last pattern.
func (e *Engine) ClearHighlight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pattern = ""
	e.opts = 0
}

// Scope returns the range SelectionOnly searches are limited to: the
// pinned scope, or else the selection as it stood after the last
// SelectionOnly ReplaceAll. Either is adjusted for replacements made
// inside it.
func (e *Engine) Scope() buffer.Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope
}

// PinScope fixes the range SelectionOnly searches use, so selecting a
// match does not narrow later searches to that match.
func (e *Engine) PinScope(r buffer.Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scope = r
	e.pinned = true
}

// UnpinScope makes SelectionOnly searches follow the selection again.
func (e *Engine) UnpinScope() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinned = false
}

// Pinned reports whether a scope is pinned.
func (e *Engine) Pinned() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pinned
}

// FindAll returns every match in document order. An empty pattern matches
// nothing.
func (e *Engine) FindAll(pattern string, opts Options) []buffer.Range {
	return e.findIn(pattern, opts, e.currentScope(opts))
}

// HighlightedIn returns the matches of the highlight pattern on lines
// [first, last], for painting the visible rows.
func (e *Engine) HighlightedIn(first, last int) []buffer.Range {
	pattern, opts := e.Highlight()
	if n := e.content.LineCount(); last >= n {
		last = n - 1
	}
	if first < 0 {
		first = 0
	}
	if pattern == "" || first > last {
		return nil
	}
	scope := buffer.Range{Start: buffer.Pt(first, 0), End: buffer.Pt(last, len(e.content.Line(last)))}
	if s := e.currentScope(opts); s != nil {
		if s.End.Before(scope.Start) || s.Start.After(scope.End) {
			return nil
		}
		scope = buffer.NewRange(buffer.MaxPoint(scope.Start, s.Start), buffer.MinPoint(scope.End, s.End))
	}
	return e.findIn(pattern, opts, &scope)
}

// FindNext finds the match after (dir > 0), before (dir < 0) or at
// (dir == 0) pos. Navigation wraps around the ends of the match list. The
// pattern becomes the highlight pattern.
func (e *Engine) FindNext(pos buffer.Point, pattern string, opts Options, dir int) (buffer.Range, bool) {
	e.remember(pattern, opts)
	return pick(e.FindAll(pattern, opts), pos, dir)
}

// Replace replaces the match at pos, or the nearest match after it, and
// returns the range of the inserted text.
func (e *Engine) Replace(pos buffer.Point, pattern, repl string, opts Options) (buffer.Range, bool) {
	e.remember(pattern, opts)
	if e.content.ReadOnly() {
		return buffer.Range{}, false
	}
	m, ok := pick(e.FindAll(pattern, opts), pos, 0)
	if !ok {
		return buffer.Range{}, false
	}
	ev, err := e.content.PerformOperation(buffer.Operation{Range: m, Text: repl}, e.origin)
	if err != nil || ev.Deferred {
		return buffer.Range{}, false
	}
	e.mu.Lock()
	if e.pinned {
		e.scope = shiftRange(e.scope, ev)
	}
	e.mu.Unlock()
	return buffer.Range{Start: m.Start, End: ev.NewEnd}, true
}

// ReplaceAll replaces matches starting with the one at or after from,
// moving in direction dir without wrapping, and returns how many were
// replaced. All replacements undo as one step.
func (e *Engine) ReplaceAll(from buffer.Point, pattern, repl string, opts Options, dir int) int {
	e.remember(pattern, opts)
	if pattern == "" || e.content.ReadOnly() {
		return 0
	}

	scope := e.currentScope(opts)
	e.content.BeginGroup("replace all")
	defer e.content.EndGroup()

	matches := e.findIn(pattern, opts, scope)
	m, ok := first(matches, from, dir)
	count := 0
	for ok {
		ev, err := e.content.PerformOperation(buffer.Operation{Range: m, Text: repl}, e.origin)
		if err != nil || ev.Deferred {
			break
		}
		count++
		if scope != nil {
			s := shiftRange(*scope, ev)
			scope = &s
		}

		matches = e.findIn(pattern, opts, scope)
		if dir < 0 {
			m, ok = lastBefore(matches, m.Start)
		} else {
			m, ok = firstFrom(matches, ev.NewEnd)
		}
	}

	if scope != nil {
		e.mu.Lock()
		e.scope = *scope
		e.mu.Unlock()
	}
	return count
}

func (e *Engine) remember(pattern string, opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pattern = pattern
	e.opts = opts
}

func (e *Engine) currentScope(opts Options) *buffer.Range {
	if !opts.Has(SelectionOnly) {
		return nil
	}
	e.mu.Lock()
	r, pinned := e.scope, e.pinned
	e.mu.Unlock()
	if pinned {
		return &r
	}
	if e.selection == nil {
		return nil
	}
	r = e.selection()
	return &r
}

// findIn scans the lines of scope (or the whole content) for pattern.
func (e *Engine) findIn(pattern string, opts Options, scope *buffer.Range) []buffer.Range {
	if pattern == "" {
		return nil
	}
	re := e.regexpFor(pattern, opts)

	from, to := 0, e.content.LineCount()-1
	if scope != nil {
		from, to = scope.Start.Line, scope.End.Line
	}

	var out []buffer.Range
	for i := from; i <= to; i++ {
		line := e.content.Line(i)
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if opts.Has(WholeWords) && !isWholeWord(line, loc[0], loc[1]) {
				continue
			}
			r := buffer.Range{Start: buffer.Pt(i, loc[0]), End: buffer.Pt(i, loc[1])}
			if scope != nil && !scope.ContainsRange(r) {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// regexpFor compiles pattern as a literal, caching the last one.
func (e *Engine) regexpFor(pattern string, opts Options) *regexp.Regexp {
	caseSensitive := opts.Has(CaseSensitive)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.compiled != nil && e.compPattern == pattern && e.compCase == caseSensitive {
		return e.compiled
	}
	expr := regexp.QuoteMeta(pattern)
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	e.compiled = regexp.MustCompile(expr)
	e.compPattern = pattern
	e.compCase = caseSensitive
	return e.compiled
}

func isWholeWord(line string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(line[:start])
		if buffer.IsWordChar(r) {
			return false
		}
	}
	if end < len(line) {
		r, _ := utf8.DecodeRuneInString(line[end:])
		if buffer.IsWordChar(r) {
			return false
		}
	}
	return true
}

// pick selects the match to move to from pos. From the current match it
// steps by dir with wraparound; otherwise it takes the nearest match after
// pos, or the one before that when going backward.
func pick(matches []buffer.Range, pos buffer.Point, dir int) (buffer.Range, bool) {
	n := len(matches)
	if n == 0 {
		return buffer.Range{}, false
	}

	if cur := current(matches, pos); cur >= 0 {
		if dir == 0 {
			return matches[cur], true
		}
		if n == 1 {
			return buffer.Range{}, false
		}
		return matches[wrapIndex(cur+sign(dir), n)], true
	}

	idx := sort.Search(n, func(i int) bool { return matches[i].Start.After(pos) })
	if dir < 0 {
		idx--
	}
	return matches[wrapIndex(idx, n)], true
}

// current returns the index of the first match covering pos, or -1.
// Matches never overlap, but adjacent ones share a boundary: a position
// there belongs to the match it starts, and only touches the end of the
// one before it.
func current(matches []buffer.Range, pos buffer.Point) int {
	touching := -1
	for i, m := range matches {
		if m.Contains(pos) {
			return i
		}
		if touching < 0 && m.End == pos {
			touching = i
		}
	}
	return touching
}

// first is the opening target of a replace-all: the match covering from,
// else the nearest one in direction dir.
func first(matches []buffer.Range, from buffer.Point, dir int) (buffer.Range, bool) {
	if cur := current(matches, from); cur >= 0 {
		return matches[cur], true
	}
	if dir < 0 {
		return lastBefore(matches, from)
	}
	return firstFrom(matches, from)
}

func firstFrom(matches []buffer.Range, p buffer.Point) (buffer.Range, bool) {
	for _, m := range matches {
		if m.Start.Compare(p) >= 0 {
			return m, true
		}
	}
	return buffer.Range{}, false
}

func lastBefore(matches []buffer.Range, p buffer.Point) (buffer.Range, bool) {
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].End.Compare(p) <= 0 {
			return matches[i], true
		}
	}
	return buffer.Range{}, false
}

func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

// shiftRange moves r's end to account for a change made inside r.
func shiftRange(r buffer.Range, ev buffer.ChangeEvent) buffer.Range {
	end := r.End
	if ev.Range.End.Line == end.Line {
		end.Column = ev.NewEnd.Column + (end.Column - ev.Range.End.Column)
		end.Line = ev.NewEnd.Line
	} else {
		end.Line += ev.LineDelta()
	}
	return buffer.Range{Start: r.Start, End: end}
}
