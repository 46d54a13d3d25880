package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// DefaultCoalesceWindow is the time within which consecutive pushes may merge.
const DefaultCoalesceWindow = time.Second

// Entry is a single undo unit.
type Entry[S any] struct {
	Name   string
	Origin string
	Steps  []S
	When   time.Time
}

// MergeFunc tries to fold next into prev. It returns the merged step and
// true when the two belong to the same undo unit.
type MergeFunc[S any] func(prev, next S) (S, bool)

// History manages undo/redo stacks of steps of type S.
type History[S any] struct {
	undoStack []*Entry[S]
	redoStack []*Entry[S]

	// Grouping state
	grouping    int
	groupName   string
	groupOrigin string
	groupSteps  []S

	// Coalescing
	merge  MergeFunc[S]
	window time.Duration
	sealed bool
	now    func() time.Time

	maxEntries int
}

// Option configures a History.
type Option[S any] func(*History[S])

// WithMerge installs a coalescing function for consecutive pushes.
func WithMerge[S any](fn MergeFunc[S], window time.Duration) Option[S] {
	return func(h *History[S]) {
		h.merge = fn
		if window > 0 {
			h.window = window
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock[S any](now func() time.Time) Option[S] {
	return func(h *History[S]) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates a history holding at most maxEntries undo entries.
func New[S any](maxEntries int, opts ...Option[S]) *History[S] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	h := &History[S]{
		maxEntries: maxEntries,
		window:     DefaultCoalesceWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records a step produced by origin. It clears the redo stack.
func (h *History[S]) Push(origin string, step S) {
	if h.grouping > 0 {
		if len(h.groupSteps) == 0 {
			h.groupOrigin = origin
		}
		h.groupSteps = append(h.groupSteps, step)
		return
	}

	now := h.now()
	h.redoStack = nil

	if top := h.top(); top != nil && h.merge != nil && !h.sealed &&
		top.Origin == origin && now.Sub(top.When) <= h.window {
		last := top.Steps[len(top.Steps)-1]
		if merged, ok := h.merge(last, step); ok {
			top.Steps[len(top.Steps)-1] = merged
			top.When = now
			return
		}
	}

	h.pushEntry(&Entry[S]{Origin: origin, Steps: []S{step}, When: now})
}

func (h *History[S]) pushEntry(e *Entry[S]) {
	h.undoStack = append(h.undoStack, e)
	h.sealed = false
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

func (h *History[S]) top() *Entry[S] {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

// Seal prevents the next push from merging into the current top entry.
func (h *History[S]) Seal() {
	h.sealed = true
}

// Undo pops the top entry and hands its steps to apply in reverse order.
// If apply fails the entry is restored.
func (h *History[S]) Undo(apply func(step S) error) (*Entry[S], error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	for i := len(entry.Steps) - 1; i >= 0; i-- {
		if err := apply(entry.Steps[i]); err != nil {
			h.undoStack = append(h.undoStack, entry)
			return nil, err
		}
	}

	h.redoStack = append(h.redoStack, entry)
	h.sealed = true
	return entry, nil
}

// Redo pops the top redo entry and hands its steps to apply in order.
func (h *History[S]) Redo(apply func(step S) error) (*Entry[S], error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	for _, step := range entry.Steps {
		if err := apply(step); err != nil {
			h.redoStack = append(h.redoStack, entry)
			return nil, err
		}
	}

	h.undoStack = append(h.undoStack, entry)
	h.sealed = true
	return entry, nil
}

// CanUndo returns true if there are entries to undo.
func (h *History[S]) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there are entries to redo.
func (h *History[S]) CanRedo() bool {
	return len(h.redoStack) > 0
}

// BeginGroup starts collecting pushes into one entry. Groups nest; only the
// outermost EndGroup closes the entry.
func (h *History[S]) BeginGroup(name string) {
	if h.grouping == 0 {
		h.groupName = name
		h.groupSteps = nil
		h.groupOrigin = ""
	}
	h.grouping++
}

// EndGroup closes the current group.
func (h *History[S]) EndGroup() {
	if h.grouping == 0 {
		return
	}
	h.grouping--
	if h.grouping > 0 {
		return
	}
	steps := h.groupSteps
	h.groupSteps = nil
	if len(steps) == 0 {
		return
	}
	h.redoStack = nil
	h.pushEntry(&Entry[S]{
		Name:   h.groupName,
		Origin: h.groupOrigin,
		Steps:  steps,
		When:   h.now(),
	})
	h.sealed = true
}
