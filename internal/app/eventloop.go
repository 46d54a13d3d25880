package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/input"
)

// Messages carried by tcell interrupt events from other goroutines.
type (
	blinkMsg  struct{}
	quitMsg   struct{}
	reloadMsg struct {
		cfg *config.Config
		err error
	}
)

// Keys handled by the application itself rather than the keymap.
var (
	keyQuit    = input.RuneKey('q', input.ModCtrl)
	keyFind    = input.RuneKey('f', input.ModCtrl)
	keyReplace = input.RuneKey('r', input.ModCtrl)
	keyGoto    = input.RuneKey('g', input.ModAlt)
	keyCase    = input.RuneKey('c', input.ModAlt)
	keyWords   = input.RuneKey('w', input.ModAlt)
)

// handleEvent processes one terminal event. It returns ErrQuit when the
// application should exit.
func (app *Application) handleEvent(ev tcell.Event) error {
	if text, consumed := app.paste.Handle(ev); consumed {
		if text != "" {
			app.typeText(text)
		}
		return nil
	}

	switch e := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(input.FromTcell(e))
	case *tcell.EventResize:
		w, h := e.Size()
		app.resize(w, h)
		app.screen.Sync()
	case *tcell.EventFocus:
		if e.Focused {
			app.editor.Focus()
		} else {
			app.editor.Blur()
		}
	case *tcell.EventInterrupt:
		switch msg := e.Data().(type) {
		case quitMsg:
			return ErrQuit
		case reloadMsg:
			app.reload(msg.cfg, msg.err)
		case blinkMsg:
			// repaint only
		}
	}
	return nil
}

func (app *Application) handleKey(k input.Key) error {
	if k == keyQuit {
		return ErrQuit
	}
	switch k {
	case keyCase:
		app.toggleSearchOption("case")
		return nil
	case keyWords:
		app.toggleSearchOption("word")
		return nil
	}
	if app.prompt != nil {
		app.handlePromptKey(k)
		return nil
	}

	switch k {
	case keyFind:
		app.openFind()
		return nil
	case keyReplace:
		app.openReplace()
		return nil
	case keyGoto:
		app.openGoto()
		return nil
	}

	cmd, ok := app.keymap.Resolve(k)
	switch {
	case !ok:
		app.log.Debug("unbound key %s", k)
	case cmd.Action != "":
		app.editor.HandleAction(cmd.Action)
	default:
		app.editor.InsertText(cmd.Text)
	}
	return nil
}

func (app *Application) typeText(text string) {
	if app.prompt != nil {
		app.prompt.insert(text)
		return
	}
	app.editor.InsertText(text)
}

// resize gives the editor every row but the status line.
func (app *Application) resize(w, h int) {
	app.editor.Resize(w, max(h-1, 0))
}

// reload applies a configuration the watcher loaded. Command-line flags
// keep precedence over the file.
func (app *Application) reload(cfg *config.Config, err error) {
	if err == nil {
		err = app.applyFlags(cfg)
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			app.notice = fmt.Sprintf("config: %v", err)
		}
		return
	}

	km, err := keymapFor(cfg)
	if err != nil {
		app.notice = fmt.Sprintf("config: %v", err)
		return
	}
	if cfg.Editor.Syntax != app.config.Editor.Syntax {
		app.swapSyntax(cfg.Editor.Syntax)
	}

	app.keymap = km
	app.log.SetLevel(cfg.LogLevel())
	app.editor.ApplyConfig(cfg)
	app.config = cfg
	app.notice = "configuration reloaded"
}

func (app *Application) swapSyntax(name string) {
	s, err := loadSyntax(name, app.opts.File, app.log)
	if err != nil {
		app.notice = fmt.Sprintf("syntax: %v", err)
		return
	}
	buf := app.editor.Buffer()
	if s == nil {
		buf.SetSyntax(nil)
	} else {
		buf.SetSyntax(s)
	}
	if app.script != nil {
		app.script.Close()
	}
	app.script = s
}
