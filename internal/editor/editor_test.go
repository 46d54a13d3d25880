package editor

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/blink"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/search"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/platform/clipboard"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Editor.BlinkInterval = 0
	return cfg
}

func newEditor(t *testing.T, text string, opts ...Option) (*Editor, *clipboard.Memory) {
	t.Helper()
	clip := &clipboard.Memory{}
	base := []Option{WithConfig(testConfig()), WithClipboard(clip)}
	ed := New(buffer.NewBufferFromString(text), append(base, opts...)...)
	t.Cleanup(ed.Close)
	return ed, clip
}

func TestTypingAndUndo(t *testing.T) {
	ed, _ := newEditor(t, "hello")

	require.True(t, ed.HandleAction(ActionDocEnd))
	require.True(t, ed.InsertText(" world"))
	assert.Equal(t, "hello world", ed.Buffer().Text())
	assert.Equal(t, buffer.Pt(0, 11), ed.Caret())

	require.True(t, ed.HandleAction(ActionUndo))
	assert.Equal(t, "hello", ed.Buffer().Text())
	assert.Equal(t, buffer.Pt(0, 5), ed.Caret())

	require.True(t, ed.HandleAction(ActionRedo))
	assert.Equal(t, "hello world", ed.Buffer().Text())
	assert.Equal(t, buffer.Pt(0, 11), ed.Caret())

	ed.HandleAction(ActionRedo)
	assert.False(t, ed.Redo(), "nothing left to redo")
}

func TestInsertTextNormalizesNewlines(t *testing.T) {
	ed, _ := newEditor(t, "")
	ed.InsertText("a\r\nb\rc")
	assert.Equal(t, "a\nb\nc", ed.Buffer().Text())
}

func TestMovementAndSelectionActions(t *testing.T) {
	ed, _ := newEditor(t, "abc\ndef")

	assert.True(t, ed.HandleAction(ActionMoveDown))
	assert.Equal(t, buffer.Pt(1, 0), ed.Caret())
	assert.True(t, ed.HandleAction(ActionMoveDown), "last line moves to its end")
	assert.Equal(t, buffer.Pt(1, 3), ed.Caret())
	assert.False(t, ed.HandleAction(ActionMoveDown))

	ed.HandleAction(ActionLineStart)
	ed.HandleAction(ActionSelectRight)
	ed.HandleAction(ActionSelectRight)
	assert.Equal(t, buffer.NewRange(buffer.Pt(1, 0), buffer.Pt(1, 2)), ed.Selection())

	// Left with a selection collapses to its start.
	ed.HandleAction(ActionMoveLeft)
	assert.Equal(t, buffer.Pt(1, 0), ed.Caret())
	assert.True(t, ed.Selection().IsEmpty())

	ed.HandleAction(ActionSelectAll)
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(1, 3)), ed.Selection())
	assert.True(t, ed.HandleAction(ActionCancel))
	assert.True(t, ed.Selection().IsEmpty())
}

func TestEditingActions(t *testing.T) {
	ed, _ := newEditor(t, "one\ntwo")

	ed.HandleAction(ActionDuplicateLine)
	assert.Equal(t, "one\none\ntwo", ed.Buffer().Text())

	ed.HandleAction(ActionDeleteLine)
	assert.Equal(t, "one\ntwo", ed.Buffer().Text())

	ed.SetCaret(buffer.Pt(0, 0), false)
	ed.HandleAction(ActionJoinLines)
	assert.Equal(t, "one two", ed.Buffer().Text())

	ed.HandleAction(ActionLineEnd)
	ed.HandleAction(ActionNewLine)
	ed.HandleAction(ActionIndent)
	assert.Equal(t, "one two\n    ", ed.Buffer().Text())
	ed.HandleAction(ActionBackspace)
	assert.Equal(t, "one two\n", ed.Buffer().Text())
}

func TestUnknownActionIsIgnored(t *testing.T) {
	ed, _ := newEditor(t, "x")
	assert.False(t, ed.HandleAction(Action("fly")))
	assert.Equal(t, "x", ed.Buffer().Text())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("toggle-wrap")
	require.NoError(t, err)
	assert.Equal(t, ActionToggleWrap, a)

	_, err = ParseAction("fly")
	assert.ErrorIs(t, err, ErrUnknownAction)

	all := Actions()
	assert.Contains(t, all, ActionUndo)
	assert.IsIncreasing(t, all)
}

func TestCutCopyPaste(t *testing.T) {
	ed, clip := newEditor(t, "alpha beta")

	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 5)), false)
	require.True(t, ed.HandleAction(ActionCut))
	assert.Equal(t, " beta", ed.Buffer().Text())
	got, _ := clip.Get()
	assert.Equal(t, "alpha", got)

	ed.HandleAction(ActionDocEnd)
	require.True(t, ed.HandleAction(ActionPaste))
	assert.Equal(t, " betaalpha", ed.Buffer().Text())

	assert.False(t, ed.Copy(), "nothing selected")
}

type brokenClipboard struct{}

func (brokenClipboard) Get() (string, error) { return "", clipboard.ErrUnavailable }
func (brokenClipboard) Set(string) error     { return clipboard.ErrUnavailable }

func TestClipboardFailureIsNoop(t *testing.T) {
	var out bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})
	ed, _ := newEditor(t, "alpha", WithClipboard(brokenClipboard{}), WithLogger(log))

	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 5)), false)
	assert.False(t, ed.Cut())
	assert.False(t, ed.Paste())
	assert.Equal(t, "alpha", ed.Buffer().Text())
	assert.Contains(t, out.String(), "copy: clipboard unavailable")
	assert.Contains(t, out.String(), "paste: clipboard unavailable")
}

func TestExternalEditCorrectsCaret(t *testing.T) {
	ed, _ := newEditor(t, "abc\ndef")
	ed.SetCaret(buffer.Pt(1, 3), false)

	other := buffer.NewOrigin()
	_, err := ed.Buffer().PerformOperation(buffer.Delete(buffer.NewRange(buffer.Pt(0, 3), buffer.Pt(1, 3))), other)
	require.NoError(t, err)

	assert.Equal(t, "abc", ed.Buffer().Text())
	assert.Equal(t, buffer.Pt(0, 3), ed.Caret())
}

func TestFindCyclesThroughMatches(t *testing.T) {
	ed, _ := newEditor(t, "one two one two")

	require.True(t, ed.Find("two"))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 4), buffer.Pt(0, 7)), ed.Selection())

	require.True(t, ed.HandleAction(ActionFindNext))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 12), buffer.Pt(0, 15)), ed.Selection())

	require.True(t, ed.HandleAction(ActionFindNext))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 4), buffer.Pt(0, 7)), ed.Selection(), "wraps around")

	require.True(t, ed.HandleAction(ActionFindPrev))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 12), buffer.Pt(0, 15)), ed.Selection())

	pattern, _ := ed.Highlight()
	assert.Equal(t, "two", pattern)
	assert.False(t, ed.Find("three"))
}

func TestFindAdjacentMatches(t *testing.T) {
	first := buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 2))
	second := buffer.NewRange(buffer.Pt(0, 2), buffer.Pt(0, 4))

	t.Run("next and previous", func(t *testing.T) {
		ed, _ := newEditor(t, "abab")
		require.True(t, ed.Find("ab"))
		assert.Equal(t, first, ed.Selection())

		require.True(t, ed.HandleAction(ActionFindNext))
		assert.Equal(t, second, ed.Selection())
		require.True(t, ed.HandleAction(ActionFindNext))
		assert.Equal(t, first, ed.Selection(), "wraps around")
		require.True(t, ed.HandleAction(ActionFindPrev))
		assert.Equal(t, second, ed.Selection())
		require.True(t, ed.HandleAction(ActionFindPrev))
		assert.Equal(t, first, ed.Selection())
	})

	t.Run("overlapping text", func(t *testing.T) {
		ed, _ := newEditor(t, "aaaa")
		require.True(t, ed.Find("aa"))
		assert.Equal(t, first, ed.Selection())
		require.True(t, ed.FindNext(1))
		assert.Equal(t, second, ed.Selection())
	})

	t.Run("replace selected match", func(t *testing.T) {
		ed, _ := newEditor(t, "abab")
		require.True(t, ed.Find("ab"))
		require.True(t, ed.Replace("ab", "X"))
		assert.Equal(t, "Xab", ed.Buffer().Text())
		assert.Equal(t, buffer.Pt(0, 1), ed.Caret())

		require.True(t, ed.Replace("ab", "X"))
		assert.Equal(t, "XX", ed.Buffer().Text())
	})

	t.Run("replace after find next", func(t *testing.T) {
		ed, _ := newEditor(t, "abab")
		require.True(t, ed.Find("ab"))
		require.True(t, ed.FindNext(1))
		require.True(t, ed.Replace("ab", "X"))
		assert.Equal(t, "abX", ed.Buffer().Text())
	})
}

func TestFindInSelectionKeepsScope(t *testing.T) {
	ed, _ := newEditor(t, "ab x ab x ab")
	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 8)), false)

	require.True(t, ed.FindWith("ab", search.SelectionOnly))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 2)), ed.Selection())

	require.True(t, ed.FindNext(1))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 5), buffer.Pt(0, 7)), ed.Selection())

	require.True(t, ed.FindNext(1))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 2)), ed.Selection(), "stays inside the scope")

	// Finding again from the selected match keeps the scope too.
	require.True(t, ed.FindWith("ab", search.SelectionOnly))
	require.True(t, ed.FindNext(-1))
	assert.Equal(t, buffer.Pt(0, 5), ed.Selection().Start)

	// A new selection starts a new scope.
	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 3), buffer.Pt(0, 12)), false)
	require.True(t, ed.FindWith("ab", search.SelectionOnly))
	assert.Equal(t, buffer.Pt(0, 5), ed.Selection().Start)
	require.True(t, ed.FindNext(1))
	assert.Equal(t, buffer.Pt(0, 10), ed.Selection().Start)

	// Editing drops the scope; the search follows the selection again.
	ed.SetCaret(buffer.Pt(0, 3), false)
	require.True(t, ed.InsertText("y"))
	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 8)), false)
	require.True(t, ed.FindNext(1))
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 2)), ed.Selection())
}

func TestReplaceAllFromMidDocument(t *testing.T) {
	ed, _ := newEditor(t, "one\ntwo one\none")
	ed.SetCaret(buffer.Pt(1, 5), false)

	assert.Equal(t, 3, ed.ReplaceAll("one", "1"))
	assert.Equal(t, "1\ntwo 1\n1", ed.Buffer().Text())
}

func TestFindUsesConfiguredOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Search.CaseSensitive = true
	ed, _ := newEditor(t, "Go go", WithConfig(cfg))

	require.True(t, ed.Find("go"))
	assert.Equal(t, buffer.Pt(0, 3), ed.Selection().Start)
	assert.Equal(t, search.CaseSensitive, ed.SearchOptions())
}

func TestReplace(t *testing.T) {
	ed, _ := newEditor(t, "one two one two")

	require.True(t, ed.Replace("two", "2"))
	assert.Equal(t, "one 2 one two", ed.Buffer().Text())
	assert.Equal(t, buffer.Pt(0, 5), ed.Caret())

	n := ed.ReplaceAll("one", "1")
	assert.Equal(t, 2, n)
	assert.Equal(t, "1 2 1 two", ed.Buffer().Text())

	require.True(t, ed.Undo())
	assert.Equal(t, "one 2 one two", ed.Buffer().Text(), "replace all undoes as one step")
}

func TestReplaceAllInSelection(t *testing.T) {
	ed, _ := newEditor(t, "a a a a")
	ed.SetSearchOptions(search.SelectionOnly)
	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 2), buffer.Pt(0, 5)), false)

	assert.Equal(t, 2, ed.ReplaceAll("a", "bb"))
	assert.Equal(t, "a bb bb a", ed.Buffer().Text())
	assert.Equal(t, buffer.NewRange(buffer.Pt(0, 2), buffer.Pt(0, 7)), ed.Selection())
}

func TestReadOnlyBufferRejectsEdits(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.ReadOnly = true
	ed, clip := newEditor(t, "text", WithConfig(cfg))
	require.NoError(t, clip.Set("x"))

	assert.False(t, ed.InsertText("y"))
	assert.False(t, ed.HandleAction(ActionPaste))
	assert.False(t, ed.HandleAction(ActionBackspace))
	assert.False(t, ed.ReplaceAll("t", "T") > 0)
	assert.False(t, ed.Undo())
	assert.Equal(t, "text", ed.Buffer().Text())

	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 0), buffer.Pt(0, 2)), false)
	assert.True(t, ed.Copy(), "copying from read-only text is allowed")
	assert.False(t, ed.Cut())
}

func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i)
	}
	return strings.Join(lines, "\n")
}

func TestEnsureCaretVisibleScrollsVertically(t *testing.T) {
	ed, _ := newEditor(t, numbered(20))
	ed.Resize(10, 5)

	ed.SetCaret(buffer.Pt(10, 0), false)
	assert.Equal(t, 6, ed.Viewport().Top)

	v := ed.View()
	require.Len(t, v.Rows, 5)
	assert.Equal(t, "l6", v.Rows[0].Text)
	assert.Equal(t, 4, v.CaretRow)

	ed.SetCaret(buffer.Pt(2, 0), false)
	assert.Equal(t, 2, ed.Viewport().Top)

	ed.HandleAction(ActionPageDown)
	assert.Equal(t, buffer.Pt(6, 0), ed.Caret())
	assert.Equal(t, 2, ed.Viewport().Top, "caret still inside the viewport")
}

func TestEnsureCaretVisibleScrollsHorizontally(t *testing.T) {
	ed, _ := newEditor(t, strings.Repeat("x", 30))
	ed.Resize(10, 3)

	ed.SetCaret(buffer.Pt(0, 25), false)
	assert.Equal(t, 16, ed.Viewport().Left)
	ed.SetCaret(buffer.Pt(0, 3), false)
	assert.Equal(t, 3, ed.Viewport().Left)
}

func TestEnsureCaretVisibleWithWrap(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.WordWrap = true
	ed, _ := newEditor(t, "aaaa bbbb cccc\nx\ny\nz", WithConfig(cfg))
	ed.Resize(5, 4)

	ed.SetCaret(buffer.Pt(2, 0), false)
	vp := ed.Viewport()
	assert.Equal(t, 0, vp.Top)
	assert.Equal(t, 1, vp.TopSub)

	v := ed.View()
	texts := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		texts[i] = r.Text
	}
	assert.Equal(t, []string{"bbbb ", "cccc", "x", "y"}, texts)
	assert.Equal(t, 3, v.CaretRow)
	assert.Equal(t, 0, v.CaretX)

	ed.HandleAction(ActionToggleWrap)
	assert.False(t, ed.WordWrap())
	v = ed.View()
	assert.Equal(t, "aaaa bbbb cccc", v.Rows[0].Text)
	assert.Equal(t, 2, v.CaretRow)
}

func TestViewMarksSelectionAndMatches(t *testing.T) {
	ed, _ := newEditor(t, "abc\nabc")
	ed.Resize(10, 5)
	require.True(t, ed.Find("b"))
	ed.SetSelection(buffer.NewRange(buffer.Pt(0, 1), buffer.Pt(1, 2)), false)

	v := ed.View()
	require.Len(t, v.Rows, 2)
	assert.Equal(t, [2]int{1, 3}, v.Rows[0].Selected)
	assert.True(t, v.Rows[0].SelectedEOL)
	assert.Equal(t, [2]int{0, 2}, v.Rows[1].Selected)
	assert.False(t, v.Rows[1].SelectedEOL)
	assert.Equal(t, [][2]int{{1, 2}}, v.Rows[0].Matches)
	assert.Equal(t, [][2]int{{1, 2}}, v.Rows[1].Matches)
	assert.Equal(t, "b", v.Highlight)
	assert.False(t, ed.Dirty(), "View clears the dirty flag")
}

func TestStatusListener(t *testing.T) {
	ed, _ := newEditor(t, "héllo")
	var last cursor.StateChange
	ed.OnStatus(func(sc cursor.StateChange) { last = sc })

	ed.SetCaret(buffer.Pt(0, 3), false)
	assert.Equal(t, 1, last.Line)
	assert.Equal(t, 3, last.Column)
	assert.Equal(t, 'l', last.Char)

	ed.HandleAction(ActionToggleReplace)
	assert.True(t, last.Replace)
	assert.True(t, ed.ReplaceMode())
}

func TestApplyConfig(t *testing.T) {
	ed, _ := newEditor(t, "x")

	cfg := testConfig()
	cfg.Editor.TabSize = 2
	cfg.Editor.ReadOnly = true
	ed.ApplyConfig(cfg)

	assert.Equal(t, 2, ed.Buffer().TabSize())
	assert.False(t, ed.InsertText("y"))
}

type fakeTimer struct {
	s  *fakeScheduler
	id int
}

func (t fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	_, ok := t.s.pending[t.id]
	delete(t.s.pending, t.id)
	return ok
}

type fakeScheduler struct {
	mu      sync.Mutex
	next    int
	pending map[int]func()
}

func (s *fakeScheduler) AfterFunc(_ time.Duration, fn func()) blink.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	return fakeTimer{s: s, id: s.next}
}

func (s *fakeScheduler) fire() int {
	s.mu.Lock()
	fns := s.pending
	s.pending = make(map[int]func())
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func TestBlinkFocusAndClose(t *testing.T) {
	sched := &fakeScheduler{pending: make(map[int]func())}
	cfg := config.Default()
	redraws := 0
	ed := New(buffer.NewBufferFromString("x"),
		WithConfig(cfg),
		WithClipboard(&clipboard.Memory{}),
		WithBlinkScheduler(sched),
		WithRedraw(func() { redraws++ }),
	)

	assert.False(t, ed.CaretVisible(), "unfocused")
	ed.Focus()
	assert.True(t, ed.Focused())
	assert.True(t, ed.CaretVisible())

	require.Equal(t, 1, sched.fire())
	assert.Equal(t, 1, redraws)
	assert.False(t, ed.CaretVisible())

	sched.fire()
	assert.True(t, ed.CaretVisible())

	ed.Blur()
	assert.False(t, ed.CaretVisible())
	assert.Equal(t, 0, sched.fire(), "blur cancels the pending tick")

	ed.Focus()
	ed.Close()
	assert.Equal(t, 0, sched.fire())
	assert.False(t, ed.HandleAction(ActionMoveRight))
	assert.False(t, ed.Focused())
}

func TestSteadyCaretWithoutBlink(t *testing.T) {
	ed, _ := newEditor(t, "x")
	ed.Focus()
	assert.True(t, ed.CaretVisible())
	ed.Blur()
	assert.False(t, ed.CaretVisible())
}

func TestCloseLogsWrapCacheUse(t *testing.T) {
	var out bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})
	ed := New(buffer.NewBufferFromString("one two three"),
		WithConfig(testConfig()),
		WithClipboard(&clipboard.Memory{}),
		WithLogger(log),
	)
	ed.Resize(5, 3)
	ed.SetWordWrap(true)
	ed.View()
	ed.View()

	ed.Close()
	assert.Regexp(t, `editor closed: wrap cache [1-9]\d* hits, [1-9]\d* misses`, out.String())
}
