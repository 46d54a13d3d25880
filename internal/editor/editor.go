package editor

import (
	"sync/atomic"
	"time"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/blink"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/edit"
	"github.com/dshills/textcore/internal/engine/search"
	"github.com/dshills/textcore/internal/engine/wrap"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/platform/clipboard"
)

// Option configures an Editor.
type Option func(*settings)

type settings struct {
	log        *logging.Logger
	clip       clipboard.Clipboard
	measurer   wrap.Measurer
	scheduler  blink.Scheduler
	redraw     func()
	cfg        config.EditorConfig
	searchOpts search.Options
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithClipboard replaces the default system clipboard.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *settings) {
		s.clip = c
	}
}

// WithMeasurer sets how text width is measured. The default counts
// terminal cells.
func WithMeasurer(m wrap.Measurer) Option {
	return func(s *settings) {
		s.measurer = m
	}
}

// WithBlinkScheduler replaces the timer used for caret blinking.
func WithBlinkScheduler(sched blink.Scheduler) Option {
	return func(s *settings) {
		s.scheduler = sched
	}
}

// WithRedraw registers a callback run when the editor needs repainting
// without user input, i.e. on caret blink. It is called from a timer
// goroutine.
func WithRedraw(fn func()) Option {
	return func(s *settings) {
		s.redraw = fn
	}
}

// WithConfig applies the editor and search sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg.Editor
		s.searchOpts = searchOptions(cfg.Search)
	}
}

func searchOptions(c config.SearchConfig) search.Options {
	var o search.Options
	if c.CaseSensitive {
		o |= search.CaseSensitive
	}
	if c.WholeWords {
		o |= search.WholeWords
	}
	return o
}

// Editor is one editable view of a buffer.
type Editor struct {
	buf    *buffer.Buffer
	origin buffer.Origin
	log    *logging.Logger
	clip   clipboard.Clipboard

	layout   *wrap.Cache
	caret    *cursor.Controller
	search   *search.Engine
	edit     *edit.Mediator
	blinker  *blink.Blinker
	sched    blink.Scheduler
	scope    *blink.Scope
	focused  bool
	redraw   func()
	closed   atomic.Bool
	unsubscr func()

	wordWrap   bool
	wrapColumn int

	// viewport, in visual rows and measurer units
	top, topSub int
	left        int
	rows, width int

	pattern    string
	searchOpts search.Options
	match      buffer.Range // last match selected by a search
	searching  bool         // a replace is editing the buffer

	status []func(cursor.StateChange)
}

// New creates an editor over buf. The caret starts at the top of the
// document and the editor is unfocused.
func New(buf *buffer.Buffer, opts ...Option) *Editor {
	s := settings{cfg: config.Default().Editor}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.clip == nil {
		s.clip = clipboard.Default()
	}
	if s.measurer == nil {
		s.measurer = wrap.NewCellMeasurer(1)
	}

	e := &Editor{
		buf:        buf,
		origin:     buffer.NewOrigin(),
		log:        s.log.WithComponent("editor"),
		clip:       s.clip,
		redraw:     s.redraw,
		sched:      s.scheduler,
		searchOpts: s.searchOpts,
	}
	e.layout = wrap.NewCache(buf, s.measurer, buf.TabSize())
	e.caret = cursor.New(buf, cursor.WithLayout(e.layout))
	e.search = search.New(buf,
		search.WithSelection(e.caret.Selection),
		search.WithOrigin(e.origin),
	)
	e.edit = edit.New(buf, e.caret, edit.WithOrigin(e.origin))
	e.applyEditorConfig(s.cfg)

	e.caret.OnStateChange(e.caretChanged)
	e.unsubscr = buf.Subscribe(e.contentChanged)
	e.log.Debug("editor opened: %d lines", buf.LineCount())
	return e
}

// ApplyConfig updates settings from a reloaded configuration.
func (e *Editor) ApplyConfig(cfg *config.Config) {
	e.searchOpts = searchOptions(cfg.Search)
	e.applyEditorConfig(cfg.Editor)
	e.EnsureCaretVisible()
	e.log.Debug("configuration applied")
}

func (e *Editor) applyEditorConfig(c config.EditorConfig) {
	if c.TabSize > 0 {
		e.buf.SetTabSize(c.TabSize)
		e.layout.SetTabSize(c.TabSize)
	}
	e.buf.SetReadOnly(c.ReadOnly)
	e.layout.SetSplitChars(c.SplitChars)
	e.caret.SetCamelCaseWords(c.CamelCaseWords)
	e.edit.SetUseTabs(c.UseTabs)
	e.edit.SetAutoIndent(c.AutoIndent)
	e.wrapColumn = c.WrapColumn
	e.SetWordWrap(c.WordWrap)
	e.setBlinkInterval(c.BlinkInterval.Std())
}

// setBlinkInterval replaces the blinker; zero keeps the caret steady.
func (e *Editor) setBlinkInterval(d time.Duration) {
	if e.blinker != nil {
		e.blinker.Close()
		e.blinker = nil
		e.scope = nil
	}
	if d <= 0 {
		return
	}
	opts := []blink.Option{blink.WithInterval(d)}
	if e.sched != nil {
		opts = append(opts, blink.WithScheduler(e.sched))
	}
	e.blinker = blink.New(e.blinkTick, opts...)
	if e.focused {
		e.scope = e.blinker.Focus()
	}
}

func (e *Editor) blinkTick(bool) bool {
	if e.closed.Load() {
		return false
	}
	if e.redraw != nil {
		e.redraw()
	}
	return true
}

// contentChanged keeps derived state in step with the buffer.
func (e *Editor) contentChanged(ev buffer.ChangeEvent) {
	e.layout.Invalidate()
	if !e.searching {
		e.search.UnpinScope()
	}
	if ev.Origin != e.origin {
		e.caret.CorrectCaretPos()
	}
}

func (e *Editor) caretChanged(sc cursor.StateChange) {
	if e.blinker != nil {
		e.blinker.Reset()
	}
	for _, fn := range e.status {
		fn(sc)
	}
}

// OnStatus registers a listener for caret and selection changes.
func (e *Editor) OnStatus(fn func(cursor.StateChange)) {
	e.status = append(e.status, fn)
}

// Buffer returns the edited buffer.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

// Origin returns the token tagging this editor's edits.
func (e *Editor) Origin() buffer.Origin {
	return e.origin
}

// Caret returns the caret position.
func (e *Editor) Caret() buffer.Point {
	return e.caret.Caret()
}

// Selection returns the selected range.
func (e *Editor) Selection() buffer.Range {
	return e.caret.Selection()
}

// SetCaret moves the caret, extending the selection when extend is set.
func (e *Editor) SetCaret(p buffer.Point, extend bool) {
	e.caret.SetCaret(p, extend)
	e.EnsureCaretVisible()
}

// SetSelection selects r with the caret at its end, or at its start when
// caretAtStart is set.
func (e *Editor) SetSelection(r buffer.Range, caretAtStart bool) {
	e.caret.SetSelection(r, caretAtStart)
	e.EnsureCaretVisible()
}

// ReplaceMode reports whether typing overwrites.
func (e *Editor) ReplaceMode() bool {
	return e.caret.ReplaceMode()
}

// Dirty reports whether the caret state changed since the last View.
func (e *Editor) Dirty() bool {
	return e.caret.Dirty()
}

// WordWrap reports whether word wrap is on.
func (e *Editor) WordWrap() bool {
	return e.wordWrap
}

// SetWordWrap toggles word wrap.
func (e *Editor) SetWordWrap(on bool) {
	e.wordWrap = on
	e.layout.SetEnabled(on)
	e.layout.SetMaxWidth(e.wrapWidth())
	if on {
		e.left = 0
	}
	e.topSub = 0
	e.EnsureCaretVisible()
}

// SetMeasurer replaces the text measurer, e.g. after a font change.
func (e *Editor) SetMeasurer(m wrap.Measurer) {
	e.layout.SetMeasurer(m)
	e.EnsureCaretVisible()
}

// Resize sets the viewport size in measurer units and rows.
func (e *Editor) Resize(width, rows int) {
	if width < 0 {
		width = 0
	}
	if rows < 0 {
		rows = 0
	}
	e.width, e.rows = width, rows
	e.layout.SetMaxWidth(e.wrapWidth())
	e.EnsureCaretVisible()
}

func (e *Editor) wrapWidth() int {
	if e.wrapColumn > 0 && (e.width == 0 || e.wrapColumn < e.width) {
		return e.wrapColumn
	}
	return e.width
}

// Focus starts the caret blinking.
func (e *Editor) Focus() {
	if e.closed.Load() || e.focused {
		return
	}
	e.focused = true
	if e.blinker != nil {
		e.scope = e.blinker.Focus()
	}
}

// Blur stops the caret blinking and hides it.
func (e *Editor) Blur() {
	e.focused = false
	if e.scope != nil {
		e.scope.End()
		e.scope = nil
	}
}

// Focused reports whether the editor has focus.
func (e *Editor) Focused() bool {
	return e.focused
}

// CaretVisible reports whether the caret should be painted now.
func (e *Editor) CaretVisible() bool {
	if !e.focused {
		return false
	}
	if e.blinker == nil {
		return true
	}
	return e.blinker.Visible()
}

// Close releases the editor. The buffer stays usable.
func (e *Editor) Close() {
	if e.closed.Swap(true) {
		return
	}
	e.Blur()
	if e.blinker != nil {
		e.blinker.Close()
	}
	e.unsubscr()
	hits, misses := e.layout.Stats()
	e.log.Debug("editor closed: wrap cache %d hits, %d misses", hits, misses)
}
