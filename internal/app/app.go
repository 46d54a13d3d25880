// Package app runs the terminal front end: it loads configuration, opens
// the file into an editor and drives it from tcell events.
package app

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/editor"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/input"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/syntax"
)

// Options configures the application. Flags override the configuration
// file.
type Options struct {
	// ConfigPath is the configuration file. Empty looks in the user
	// configuration directory.
	ConfigPath string

	// File is opened into the editor. A missing file starts empty.
	File string

	// LogLevel overrides log.level when set.
	LogLevel string

	// ReadOnly forces read-only editing.
	ReadOnly bool

	// WordWrap forces word wrap on.
	WordWrap bool
}

// Application owns the editor and the terminal screen.
type Application struct {
	mu sync.Mutex

	opts       Options
	config     *config.Config
	configPath string
	log        *logging.Logger
	logFile    io.Closer

	editor  *editor.Editor
	opened  buffer.RevisionID
	keymap  *input.Keymap
	script  *syntax.Script
	watcher *config.Watcher

	screen tcell.Screen
	paste  input.Paste
	prompt *prompt
	notice string

	running  atomic.Bool
	quitting atomic.Bool
	release  sync.Once
}

// New loads configuration and opens the file. The returned application
// must be released with Shutdown.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetScreen sets the terminal screen. Must be called before Run.
func (app *Application) SetScreen(s tcell.Screen) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	app.screen = s
	return nil
}

// Run initialises the screen and processes events until the user quits
// or Shutdown is called, then returns ErrQuit.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.close()

	if app.screen == nil {
		return ErrNoScreen
	}
	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()

	app.start()
	if app.quitting.Load() {
		return ErrQuit
	}
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return ErrQuit
		}
		if err := app.handleEvent(ev); err != nil {
			return err
		}
		app.draw()
	}
}

// start prepares a freshly initialised screen.
func (app *Application) start() {
	app.screen.EnablePaste()
	app.screen.EnableFocus()
	app.screen.SetStyle(tcell.StyleDefault)
	w, h := app.screen.Size()
	app.resize(w, h)
	app.editor.Focus()
	app.draw()
	app.log.Info("started: %s", app.describeFile())
}

// Shutdown stops a running application, or releases a stopped one.
// It is safe to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.quitting.Store(true)
	if app.running.Load() {
		app.post(quitMsg{})
		return
	}
	app.close()
}

// close releases everything New acquired.
func (app *Application) close() {
	app.release.Do(func() {
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.log.Debug("closing watcher: %v", err)
			}
		}
		app.editor.Close()
		if app.script != nil {
			app.script.Close()
		}
		app.log.Info("stopped")
		if app.logFile != nil {
			app.logFile.Close()
		}
	})
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Editor returns the editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// post queues an event for the event loop. It is dropped when no screen
// is running.
func (app *Application) post(data any) {
	app.mu.Lock()
	s := app.screen
	app.mu.Unlock()
	if s == nil {
		return
	}
	if err := s.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		app.log.Debug("dropping %T: %v", data, err)
	}
}

// modified reports whether the buffer changed since it was opened.
func (app *Application) modified() bool {
	return app.editor.Buffer().Revision() != app.opened
}

func (app *Application) describeFile() string {
	name := app.opts.File
	if name == "" {
		name = "scratch buffer"
	}
	if app.modified() {
		name += " [+]"
	}
	return name
}
