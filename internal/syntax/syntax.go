// Package syntax provides scripted language support for smart indentation
// and comment toggling.
//
// A language is a small Lua script that may define:
//
//	line_comment = "//"
//	function indent_after(line) return line:match("{%s*$") ~= nil end
//	function outdent_line(line) return line:match("^%s*}") ~= nil end
//
// Scripts run in a sandbox with only the base, table, string and math
// libraries, and every call is bounded by a timeout.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/logging"
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = 50 * time.Millisecond

var (
	// ErrScript is returned when a language script fails to load.
	ErrScript = errors.New("syntax script error")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("syntax script closed")
)

// Option configures a Script.
type Option func(*Script)

// WithTimeout bounds each script call.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger receives script failures at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(s *Script) {
		s.logger = l
	}
}

// Script is a loaded language definition. It implements
// buffer.SyntaxSupport. A failing hook behaves as if it returned false.
type Script struct {
	name    string
	timeout time.Duration
	logger  *logging.Logger

	mu      sync.Mutex
	L       *lua.LState
	comment string
	closed  bool
}

// Load runs src and returns the language it defines.
func Load(name, src string, opts ...Option) (*Script, error) {
	s := &Script{
		name:    name,
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("syntax").WithField("language", name)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	s.L = L

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	L.SetContext(ctx)
	err := L.DoString(src)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}

	if c, ok := L.GetGlobal("line_comment").(lua.LString); ok {
		s.comment = string(c)
	}
	return s, nil
}

// LoadFile loads a language script from disk. The language is named after
// the file.
func LoadFile(path string, opts ...Option) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return Load(path, string(src), opts...)
}

// openSafeLibraries opens the libraries a language script may use. io, os,
// debug and package stay closed, and the loaders are removed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Name returns the language name.
func (s *Script) Name() string {
	return s.name
}

// LineComment returns the script's line_comment, or "".
func (s *Script) LineComment() string {
	return s.comment
}

// IndentAfter calls indent_after(line).
func (s *Script) IndentAfter(line string) bool {
	return s.hook("indent_after", line)
}

// OutdentLine calls outdent_line(line).
func (s *Script) OutdentLine(line string) bool {
	return s.hook("outdent_line", line)
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.L.Close()
	return nil
}

// hook calls a boolean script function. Missing functions answer false.
func (s *Script) hook(fn, line string) bool {
	ok, err := s.call(fn, line)
	if err != nil {
		s.logger.Debug("%s failed: %v", fn, err)
		return false
	}
	return ok
}

func (s *Script) call(fn, line string) (result bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	f := s.L.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	if err := s.L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true}, lua.LString(line)); err != nil {
		s.L.SetTop(top)
		return false, err
	}
	ret := s.L.Get(-1)
	s.L.SetTop(top)
	return lua.LVAsBool(ret), nil
}
