package editor

import (
	"errors"
	"strings"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/search"
)

// HandleAction runs one action and reports whether it did anything.
func (e *Editor) HandleAction(a Action) bool {
	if e.closed.Load() {
		return false
	}
	handled := e.dispatch(a)
	e.EnsureCaretVisible()
	return handled
}

func (e *Editor) dispatch(a Action) bool {
	c := e.caret
	page := max(e.rows-1, 1)
	moved := func(fn func(extend bool), extend bool) bool {
		before, sel := c.Caret(), c.Selection()
		fn(extend)
		return c.Caret() != before || c.Selection() != sel
	}

	switch a {
	case ActionMoveLeft:
		if c.HasSelection() {
			c.SetCaret(c.Selection().Start, false)
			return true
		}
		return moved(c.MoveLeft, false)
	case ActionMoveRight:
		if c.HasSelection() {
			c.SetCaret(c.Selection().End, false)
			return true
		}
		return moved(c.MoveRight, false)
	case ActionMoveUp:
		return moved(c.MoveUp, false)
	case ActionMoveDown:
		return moved(c.MoveDown, false)
	case ActionWordLeft:
		return moved(c.MoveWordLeft, false)
	case ActionWordRight:
		return moved(c.MoveWordRight, false)
	case ActionLineStart:
		return moved(c.MoveHome, false)
	case ActionLineEnd:
		return moved(c.MoveEnd, false)
	case ActionPageUp:
		return moved(func(x bool) { c.MovePage(page, -1, x) }, false)
	case ActionPageDown:
		return moved(func(x bool) { c.MovePage(page, 1, x) }, false)
	case ActionDocStart:
		return moved(c.MoveDocStart, false)
	case ActionDocEnd:
		return moved(c.MoveDocEnd, false)

	case ActionSelectLeft:
		return moved(c.MoveLeft, true)
	case ActionSelectRight:
		return moved(c.MoveRight, true)
	case ActionSelectUp:
		return moved(c.MoveUp, true)
	case ActionSelectDown:
		return moved(c.MoveDown, true)
	case ActionSelectWordL:
		return moved(c.MoveWordLeft, true)
	case ActionSelectWordR:
		return moved(c.MoveWordRight, true)
	case ActionSelectHome:
		return moved(c.MoveHome, true)
	case ActionSelectEnd:
		return moved(c.MoveEnd, true)
	case ActionSelectPageUp:
		return moved(func(x bool) { c.MovePage(page, -1, x) }, true)
	case ActionSelectPageDn:
		return moved(func(x bool) { c.MovePage(page, 1, x) }, true)
	case ActionSelectDocHome:
		return moved(c.MoveDocStart, true)
	case ActionSelectDocEnd:
		return moved(c.MoveDocEnd, true)
	case ActionSelectAll:
		c.SelectAll()
		return true
	case ActionSelectWord:
		c.SelectWord()
		return true
	case ActionSelectLine:
		c.SelectLine()
		return true
	case ActionCancel:
		if c.HasSelection() {
			c.ClearSelection()
			return true
		}
		return e.ClearSearch()

	case ActionNewLine:
		return e.edit.NewLine()
	case ActionBackspace:
		return e.edit.Backspace()
	case ActionDelete:
		return e.edit.Delete()
	case ActionIndent:
		return e.edit.Indent()
	case ActionUnindent:
		return e.edit.Unindent()
	case ActionJoinLines:
		return e.edit.JoinLines()
	case ActionToggleComment:
		return e.edit.ToggleComment()
	case ActionDeleteLine:
		return e.edit.DeleteLine()
	case ActionDuplicateLine:
		return e.edit.DuplicateLine()
	case ActionUndo:
		return e.Undo()
	case ActionRedo:
		return e.Redo()
	case ActionCut:
		return e.Cut()
	case ActionCopy:
		return e.Copy()
	case ActionPaste:
		return e.Paste()

	case ActionToggleReplace:
		c.ToggleReplaceMode()
		return true
	case ActionToggleWrap:
		e.SetWordWrap(!e.wordWrap)
		return true
	case ActionFindNext:
		return e.FindNext(1)
	case ActionFindPrev:
		return e.FindNext(-1)
	case ActionClearSearch:
		return e.ClearSearch()
	}

	e.log.Debug("unhandled action %q", a)
	return false
}

// InsertText types text at the caret.
func (e *Editor) InsertText(text string) bool {
	if e.closed.Load() {
		return false
	}
	ok := e.edit.InsertText(normalizeNewlines(text))
	e.EnsureCaretVisible()
	return ok
}

// SearchOptions returns the options used by Find when none are given.
func (e *Editor) SearchOptions() search.Options {
	return e.searchOpts
}

// SetSearchOptions changes the default search options.
func (e *Editor) SetSearchOptions(o search.Options) {
	if o != e.searchOpts {
		e.search.UnpinScope()
	}
	e.searchOpts = o
}

// Find selects the match of pattern at or after the selection start and
// makes pattern the highlight pattern.
func (e *Editor) Find(pattern string) bool {
	return e.FindWith(pattern, e.searchOpts)
}

// FindWith is Find with explicit options. A SelectionOnly search keeps
// the selection it started with as its scope until the pattern, the
// options or the selection change.
func (e *Editor) FindWith(pattern string, opts search.Options) bool {
	e.beginSearch(pattern, opts)
	r, ok := e.search.FindNext(e.caret.Selection().Start, pattern, opts, 0)
	return e.selectMatch(r, ok)
}

// FindNext moves to the next (dir > 0) or previous (dir < 0) match of the
// last pattern, wrapping around the document.
func (e *Editor) FindNext(dir int) bool {
	if e.pattern == "" {
		return false
	}
	r, ok := e.search.FindNext(e.searchFrom(), e.pattern, e.searchOpts, dir)
	return e.selectMatch(r, ok)
}

// beginSearch records pattern and opts. A new SelectionOnly search, or one
// started from a selection other than the last match, pins the selection
// as its scope.
func (e *Editor) beginSearch(pattern string, opts search.Options) {
	sel := e.caret.Selection()
	switch {
	case !opts.Has(search.SelectionOnly):
		e.search.UnpinScope()
	case !e.search.Pinned() || pattern != e.pattern || opts != e.searchOpts,
		!sel.IsEmpty() && sel != e.match:
		e.search.PinScope(sel)
	}
	e.pattern, e.searchOpts = pattern, opts
}

// searchFrom is where navigation starts: the start of the selected match,
// else the caret. The caret sits at the end of a selected match, which is
// also the start of an adjacent one.
func (e *Editor) searchFrom() buffer.Point {
	if sel := e.caret.Selection(); !sel.IsEmpty() && sel == e.match {
		return sel.Start
	}
	return e.caret.Caret()
}

func (e *Editor) selectMatch(r buffer.Range, ok bool) bool {
	if !ok {
		e.log.Debug("no match for %q (%s)", e.pattern, e.searchOpts)
		return false
	}
	e.match = r
	e.caret.SetSelection(r, false)
	e.EnsureCaretVisible()
	return true
}

// Replace replaces the selected match, or the match at or after the caret,
// with repl and leaves the caret after the inserted text.
func (e *Editor) Replace(pattern, repl string) bool {
	e.beginSearch(pattern, e.searchOpts)
	e.searching = true
	r, ok := e.search.Replace(e.searchFrom(), pattern, repl, e.searchOpts)
	e.searching = false
	if !ok {
		return false
	}
	e.caret.SetCaret(r.End, false)
	e.EnsureCaretVisible()
	return true
}

// ReplaceAll replaces every match from the top of the document, or inside
// the search scope when the options say so, and returns the count. It
// undoes as one step.
func (e *Editor) ReplaceAll(pattern, repl string) int {
	e.beginSearch(pattern, e.searchOpts)
	from := buffer.Point{}
	if e.searchOpts.Has(search.SelectionOnly) {
		from = e.search.Scope().Start
	}
	e.searching = true
	n := e.search.ReplaceAll(from, pattern, repl, e.searchOpts, 1)
	e.searching = false
	if n > 0 {
		if e.searchOpts.Has(search.SelectionOnly) {
			e.caret.SetSelection(e.search.Scope(), false)
		}
		e.caret.CorrectCaretPos()
		e.EnsureCaretVisible()
	}
	e.log.Debug("replaced %d matches of %q", n, pattern)
	return n
}

// Highlight returns the current search highlight pattern and options.
func (e *Editor) Highlight() (string, search.Options) {
	return e.search.Highlight()
}

// ClearSearch drops the highlight pattern.
func (e *Editor) ClearSearch() bool {
	if p, _ := e.search.Highlight(); p == "" {
		return false
	}
	e.search.ClearHighlight()
	e.search.UnpinScope()
	return true
}

// Undo reverts the last edit and puts the caret where it happened.
func (e *Editor) Undo() bool {
	return e.replay(e.buf.CanUndo, e.buf.Undo, "undo")
}

// Redo re-applies the last undone edit.
func (e *Editor) Redo() bool {
	return e.replay(e.buf.CanRedo, e.buf.Redo, "redo")
}

func (e *Editor) replay(can func() bool, fn func(buffer.Origin) (buffer.ChangeEvent, error), name string) bool {
	if !can() {
		return false
	}
	ev, err := fn(e.origin)
	if err != nil {
		if !errors.Is(err, buffer.ErrReadOnly) {
			e.log.Debug("%s: %v", name, err)
		}
		return false
	}
	e.caret.SetCaret(ev.NewEnd, false)
	e.EnsureCaretVisible()
	return true
}

// Copy puts the selection on the clipboard.
func (e *Editor) Copy() bool {
	if !e.caret.HasSelection() {
		return false
	}
	if err := e.clip.Set(e.buf.TextIn(e.caret.Selection())); err != nil {
		e.log.Debug("copy: %v", err)
		return false
	}
	return true
}

// Cut copies the selection and deletes it. Nothing is deleted when the
// clipboard cannot be written.
func (e *Editor) Cut() bool {
	if e.buf.ReadOnly() || !e.Copy() {
		return false
	}
	return e.edit.Delete()
}

// Paste types the clipboard text at the caret.
func (e *Editor) Paste() bool {
	text, err := e.clip.Get()
	if err != nil {
		e.log.Debug("paste: %v", err)
		return false
	}
	return e.InsertText(text)
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
