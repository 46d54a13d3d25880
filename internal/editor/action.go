package editor

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAction is returned for an action name the editor does not know.
var ErrUnknownAction = errors.New("unknown action")

// Action names an editor command that takes no arguments.
type Action string

// Caret movement.
const (
	ActionMoveLeft      Action = "move-left"
	ActionMoveRight     Action = "move-right"
	ActionMoveUp        Action = "move-up"
	ActionMoveDown      Action = "move-down"
	ActionWordLeft      Action = "word-left"
	ActionWordRight     Action = "word-right"
	ActionLineStart     Action = "line-start"
	ActionLineEnd       Action = "line-end"
	ActionPageUp        Action = "page-up"
	ActionPageDown      Action = "page-down"
	ActionDocStart      Action = "doc-start"
	ActionDocEnd        Action = "doc-end"
	ActionSelectLeft    Action = "select-left"
	ActionSelectRight   Action = "select-right"
	ActionSelectUp      Action = "select-up"
	ActionSelectDown    Action = "select-down"
	ActionSelectWordL   Action = "select-word-left"
	ActionSelectWordR   Action = "select-word-right"
	ActionSelectHome    Action = "select-line-start"
	ActionSelectEnd     Action = "select-line-end"
	ActionSelectPageUp  Action = "select-page-up"
	ActionSelectPageDn  Action = "select-page-down"
	ActionSelectDocHome Action = "select-doc-start"
	ActionSelectDocEnd  Action = "select-doc-end"
	ActionSelectAll     Action = "select-all"
	ActionSelectWord    Action = "select-word"
	ActionSelectLine    Action = "select-line"
	ActionCancel        Action = "cancel"
)

// Editing.
const (
	ActionNewLine       Action = "newline"
	ActionBackspace     Action = "backspace"
	ActionDelete        Action = "delete"
	ActionIndent        Action = "indent"
	ActionUnindent      Action = "unindent"
	ActionJoinLines     Action = "join-lines"
	ActionToggleComment Action = "toggle-comment"
	ActionDeleteLine    Action = "delete-line"
	ActionDuplicateLine Action = "duplicate-line"
	ActionUndo          Action = "undo"
	ActionRedo          Action = "redo"
	ActionCut           Action = "cut"
	ActionCopy          Action = "copy"
	ActionPaste         Action = "paste"
)

// Modes and search.
const (
	ActionToggleReplace Action = "toggle-overtype"
	ActionToggleWrap    Action = "toggle-wrap"
	ActionFindNext      Action = "find-next"
	ActionFindPrev      Action = "find-prev"
	ActionClearSearch   Action = "clear-search"
)

var knownActions = map[Action]struct{}{}

func init() {
	for _, a := range []Action{
		ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown,
		ActionWordLeft, ActionWordRight, ActionLineStart, ActionLineEnd,
		ActionPageUp, ActionPageDown, ActionDocStart, ActionDocEnd,
		ActionSelectLeft, ActionSelectRight, ActionSelectUp, ActionSelectDown,
		ActionSelectWordL, ActionSelectWordR, ActionSelectHome, ActionSelectEnd,
		ActionSelectPageUp, ActionSelectPageDn, ActionSelectDocHome, ActionSelectDocEnd,
		ActionSelectAll, ActionSelectWord, ActionSelectLine, ActionCancel,
		ActionNewLine, ActionBackspace, ActionDelete, ActionIndent, ActionUnindent,
		ActionJoinLines, ActionToggleComment, ActionDeleteLine, ActionDuplicateLine,
		ActionUndo, ActionRedo, ActionCut, ActionCopy, ActionPaste,
		ActionToggleReplace, ActionToggleWrap, ActionFindNext, ActionFindPrev,
		ActionClearSearch,
	} {
		knownActions[a] = struct{}{}
	}
}

// Actions returns every action name, sorted.
func Actions() []Action {
	out := make([]Action, 0, len(knownActions))
	for a := range knownActions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if _, ok := knownActions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a, nil
}
