package blink

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every pending, unstopped timer once.
func (s *fakeScheduler) fire() int {
	s.mu.Lock()
	pending := s.timers
	s.timers = nil
	s.mu.Unlock()
	n := 0
	for _, t := range pending {
		if !t.stopped {
			t.fn()
			n++
		}
	}
	return n
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFocusStartsBlinking(t *testing.T) {
	sched := &fakeScheduler{}
	var phases []bool
	b := New(func(v bool) bool {
		phases = append(phases, v)
		return true
	}, WithScheduler(sched))

	if b.Visible() {
		t.Error("idle blinker should not be visible")
	}
	scope := b.Focus()
	defer scope.End()

	if !b.Visible() {
		t.Error("focus should show the caret")
	}
	for i := 0; i < 3; i++ {
		if n := sched.fire(); n != 1 {
			t.Fatalf("tick %d: fired %d timers, want 1", i, n)
		}
	}
	want := []bool{false, true, false}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestTickCanStop(t *testing.T) {
	sched := &fakeScheduler{}
	b := New(func(bool) bool { return false }, WithScheduler(sched))
	b.Focus()

	sched.fire()
	if sched.pending() != 0 || b.Active() {
		t.Error("tick returning false should not reschedule")
	}
}

func TestScopeEndCancels(t *testing.T) {
	sched := &fakeScheduler{}
	ticks := 0
	b := New(func(bool) bool { ticks++; return true }, WithScheduler(sched))

	scope := b.Focus()
	scope.End()
	scope.End()

	if sched.fire() != 0 {
		t.Error("timer should be stopped after End")
	}
	if ticks != 0 {
		t.Errorf("ticks = %d, want 0", ticks)
	}
	if b.Visible() {
		t.Error("caret should be hidden after blur")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	sched := &fakeScheduler{}
	ticks := 0
	b := New(func(bool) bool { ticks++; return true }, WithScheduler(sched))
	b.Focus()

	sched.mu.Lock()
	stale := sched.timers[0]
	sched.mu.Unlock()

	b.Blur()
	stale.fn()
	if ticks != 0 {
		t.Error("tick from a cancelled cycle should be dropped")
	}
}

func TestResetDebounce(t *testing.T) {
	sched := &fakeScheduler{}
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New(nil, WithScheduler(sched), WithClock(clock.now), WithMinRearm(100*time.Millisecond))
	b.Focus()
	sched.fire() // hidden phase, re-armed

	b.Reset()
	if !b.Visible() {
		t.Error("Reset should show the caret")
	}
	if got := len(sched.timers); got != 1 {
		t.Errorf("Reset inside the window re-armed: %d timers", got)
	}

	clock.advance(200 * time.Millisecond)
	b.Reset()
	if sched.pending() != 1 {
		t.Errorf("pending = %d, want 1 after re-arm", sched.pending())
	}
	if got := len(sched.timers); got != 2 {
		t.Errorf("Reset outside the window should re-arm, have %d timers", got)
	}
}

func TestResetWhileBlurredIsNoop(t *testing.T) {
	sched := &fakeScheduler{}
	b := New(nil, WithScheduler(sched))
	b.Reset()
	if b.Active() || b.Visible() {
		t.Error("Reset without focus should do nothing")
	}
}

func TestCloseIsFinal(t *testing.T) {
	sched := &fakeScheduler{}
	b := New(nil, WithScheduler(sched))
	b.Focus()
	b.Close()
	if sched.fire() != 0 {
		t.Error("Close should cancel the pending tick")
	}
	b.Focus()
	if b.Active() {
		t.Error("Focus after Close should not arm")
	}
}
