package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/editor"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/input"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/syntax"
)

// bootstrapper initialises components in dependency order and unwinds
// the ones already started when a later step fails.
type bootstrapper struct {
	app      *Application
	cleanups []func()
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"syntax", b.initSyntax},
		{"editor", b.initEditor},
		{"keymap", b.initKeymap},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
	}
	return nil
}

func (b *bootstrapper) cleanup() {
	for i := len(b.cleanups) - 1; i >= 0; i-- {
		b.cleanups[i]()
	}
}

// initConfig loads the configuration file. A missing file yields the
// defaults; its directory is still watched so creating it takes effect.
func (b *bootstrapper) initConfig() error {
	path := b.app.opts.ConfigPath
	if path == "" {
		path = userConfigPath()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist):
			if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
				return err
			}
		default:
			return err
		}
	} else if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	if err := b.app.applyFlags(cfg); err != nil {
		return err
	}
	b.app.config = cfg
	b.app.configPath = path
	return nil
}

// applyFlags lays the command-line overrides over cfg.
func (app *Application) applyFlags(cfg *config.Config) error {
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	if app.opts.ReadOnly {
		cfg.Editor.ReadOnly = true
	}
	if app.opts.WordWrap {
		cfg.Editor.WordWrap = true
	}
	return cfg.Validate()
}

// userConfigPath returns the first existing config file under the user
// configuration directory, or the TOML path when none exists.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "textcore")
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "config.toml")
}

func (b *bootstrapper) initLogger() error {
	cfg := b.app.config.Log
	if cfg.File == "" {
		// The terminal is taken by the editor, so there is nowhere else
		// to write.
		b.app.log = logging.Nop()
		return nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	b.app.log = logging.New(logging.Config{
		Level:  b.app.config.LogLevel(),
		Output: f,
		Prefix: "textcore",
	})
	b.app.logFile = f
	b.cleanups = append(b.cleanups, func() { f.Close() })
	return nil
}

func (b *bootstrapper) initSyntax() error {
	s, err := loadSyntax(b.app.config.Editor.Syntax, b.app.opts.File, b.app.log)
	if err != nil {
		return err
	}
	b.app.script = s
	if s != nil {
		b.cleanups = append(b.cleanups, func() { s.Close() })
		b.app.log.Debug("syntax %s", s.Name())
	}
	return nil
}

// loadSyntax resolves a syntax setting: a built-in language name, a path
// to a Lua script, or empty to pick by file extension. It returns nil
// when no syntax applies.
func loadSyntax(name, file string, log *logging.Logger) (*syntax.Script, error) {
	opts := []syntax.Option{syntax.WithLogger(log)}
	switch {
	case name == "":
		if s, ok := syntax.ForPath(file, opts...); ok {
			return s, nil
		}
		return nil, nil
	case strings.HasSuffix(name, ".lua"):
		return syntax.LoadFile(name, opts...)
	}
	s, ok := syntax.Builtin(name, opts...)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyntax, name)
	}
	return s, nil
}

func (b *bootstrapper) initEditor() error {
	app := b.app
	text, err := readFile(app.opts.File)
	if err != nil {
		return err
	}

	bufOpts := []buffer.Option{
		buffer.WithTabSize(app.config.Editor.TabSize),
		buffer.WithHistoryLimit(app.config.Editor.HistoryLimit),
	}
	if app.script != nil {
		bufOpts = append(bufOpts, buffer.WithSyntax(app.script))
	}
	buf := buffer.NewBufferFromString(text, bufOpts...)

	app.editor = editor.New(buf,
		editor.WithConfig(app.config),
		editor.WithLogger(app.log),
		editor.WithRedraw(func() { app.post(blinkMsg{}) }),
	)
	app.opened = buf.Revision()
	app.editor.OnStatus(func(cursor.StateChange) {
		app.notice = ""
	})
	b.cleanups = append(b.cleanups, app.editor.Close)
	return nil
}

// readFile returns the file's text; a missing file is an empty document.
func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *bootstrapper) initKeymap() error {
	km, err := keymapFor(b.app.config)
	if err != nil {
		return err
	}
	b.app.keymap = km
	return nil
}

func keymapFor(cfg *config.Config) (*input.Keymap, error) {
	km := input.DefaultKeymap()
	if err := km.Apply(cfg.Keys); err != nil {
		return nil, err
	}
	return km, nil
}

// initWatcher reloads the configuration when its file changes. Failing to
// watch is not fatal.
func (b *bootstrapper) initWatcher() error {
	app := b.app
	if app.configPath == "" {
		return nil
	}
	w, err := config.Watch(app.configPath, func(cfg *config.Config, err error) {
		app.post(reloadMsg{cfg: cfg, err: err})
	}, config.WithWatchLogger(app.log))
	if err != nil {
		app.log.Warn("not watching %s: %v", app.configPath, err)
		return nil
	}
	app.watcher = w
	b.cleanups = append(b.cleanups, func() { w.Close() })
	return nil
}
