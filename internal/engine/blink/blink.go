// Package blink drives the caret's blink phase.
//
// A Blinker is a cancellable, self-rearming task: each tick flips the
// phase and hands it to a callback, whose return value decides whether
// the next tick is scheduled. Ticks only run while the owner is focused.
package blink

import (
	"sync"
	"time"
)

const (
	// DefaultInterval is the time between phase flips.
	DefaultInterval = 530 * time.Millisecond
	// DefaultMinRearm is the window in which Reset keeps a pending tick
	// instead of re-arming.
	DefaultMinRearm = 50 * time.Millisecond
)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// TimeScheduler schedules with the time package.
type TimeScheduler struct{}

// AfterFunc implements Scheduler.
func (TimeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// TickFunc receives the new phase. Returning false stops the blinker
// until the next Focus or Reset.
type TickFunc func(visible bool) bool

// Option configures a Blinker.
type Option func(*Blinker)

// WithScheduler replaces the default TimeScheduler.
func WithScheduler(s Scheduler) Option {
	return func(b *Blinker) {
		b.sched = s
	}
}

// WithInterval sets the time between phase flips.
func WithInterval(d time.Duration) Option {
	return func(b *Blinker) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithMinRearm sets the Reset debounce window.
func WithMinRearm(d time.Duration) Option {
	return func(b *Blinker) {
		if d >= 0 {
			b.minRearm = d
		}
	}
}

// WithClock sets the time source used for debouncing.
func WithClock(now func() time.Time) Option {
	return func(b *Blinker) {
		b.now = now
	}
}

// Blinker toggles the caret phase while focused.
type Blinker struct {
	mu       sync.Mutex
	sched    Scheduler
	interval time.Duration
	minRearm time.Duration
	now      func() time.Time
	tick     TickFunc

	visible bool
	focused bool
	closed  bool
	timer   Timer
	armedAt time.Time
	gen     uint64
}

// New creates an idle Blinker. tick may be nil.
func New(tick TickFunc, opts ...Option) *Blinker {
	b := &Blinker{
		sched:    TimeScheduler{},
		interval: DefaultInterval,
		minRearm: DefaultMinRearm,
		now:      time.Now,
		tick:     tick,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Scope is returned by Focus. End blurs the blinker; calling it more than
// once is harmless.
type Scope struct {
	once sync.Once
	b    *Blinker
}

// End cancels the blink task started by Focus.
func (s *Scope) End() {
	s.once.Do(s.b.Blur)
}

// Focus shows the caret and starts blinking.
func (b *Blinker) Focus() *Scope {
	b.mu.Lock()
	if !b.closed {
		b.focused = true
		b.visible = true
		b.armLocked()
	}
	b.mu.Unlock()
	return &Scope{b: b}
}

// Blur stops blinking and hides the caret.
func (b *Blinker) Blur() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = false
	b.visible = false
	b.stopLocked()
}

// Reset shows the caret and restarts the blink cycle. A tick armed less
// than the debounce window ago is kept.
func (b *Blinker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || !b.focused {
		return
	}
	b.visible = true
	if b.timer != nil && b.now().Sub(b.armedAt) < b.minRearm {
		return
	}
	b.armLocked()
}

// Close stops the blinker for good.
func (b *Blinker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.focused = false
	b.stopLocked()
}

// Visible reports the current phase.
func (b *Blinker) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Active reports whether a tick is pending.
func (b *Blinker) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer != nil
}

func (b *Blinker) armLocked() {
	b.stopLocked()
	gen := b.gen
	b.armedAt = b.now()
	b.timer = b.sched.AfterFunc(b.interval, func() { b.fire(gen) })
}

func (b *Blinker) stopLocked() {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// fire runs one tick. Ticks from a cancelled generation are dropped.
func (b *Blinker) fire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.focused || b.closed {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.visible = !b.visible
	visible := b.visible
	tick := b.tick
	b.mu.Unlock()

	again := true
	if tick != nil {
		again = tick(visible)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if again && gen == b.gen && b.focused && !b.closed && b.timer == nil {
		b.armLocked()
	}
}
