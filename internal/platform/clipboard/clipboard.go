// Package clipboard gives the editor access to a text clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard can be reached.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// System is the operating system clipboard.
type System struct{}

// NewSystem returns the system clipboard. Use Available to check whether a
// clipboard utility was found on this platform.
func NewSystem() System {
	return System{}
}

// Available reports whether the platform has a usable clipboard.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// Get implements Clipboard.
func (s System) Get() (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

// Set implements Clipboard.
func (s System) Set(text string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// Get implements Clipboard.
func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Set implements Clipboard.
func (m *Memory) Set(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Fallback writes to both clipboards and reads from Primary, falling back
// to Secondary when Primary fails.
type Fallback struct {
	Primary   Clipboard
	Secondary Clipboard
}

// Get implements Clipboard.
func (f Fallback) Get() (string, error) {
	text, err := f.Primary.Get()
	if err == nil {
		return text, nil
	}
	if text, serr := f.Secondary.Get(); serr == nil {
		return text, nil
	}
	return "", err
}

// Set implements Clipboard. It fails only if both clipboards fail.
func (f Fallback) Set(text string) error {
	perr := f.Primary.Set(text)
	serr := f.Secondary.Set(text)
	if perr != nil && serr != nil {
		return errors.Join(perr, serr)
	}
	return nil
}

// Default returns the system clipboard backed by an in-memory copy, so
// copy and paste keep working inside the editor on headless machines.
func Default() Clipboard {
	return Fallback{Primary: NewSystem(), Secondary: &Memory{}}
}
