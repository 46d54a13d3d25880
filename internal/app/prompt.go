package app

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/search"
	"github.com/dshills/textcore/internal/input"
)

// prompt is a one-line input on the status row.
type prompt struct {
	label  func() string
	text   string
	submit func(text string)
}

func (p *prompt) insert(text string) {
	// The status row holds a single line.
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	p.text += text
}

func (p *prompt) edit(k input.Key) {
	switch {
	case k.IsText():
		p.insert(string(k.Rune))
	case k == keyBackspace:
		if _, n := utf8.DecodeLastRuneInString(p.text); n > 0 {
			p.text = p.text[:len(p.text)-n]
		}
	}
}

var (
	keyEnter     = input.SpecialKey(input.CodeEnter, 0)
	keyEscape    = input.SpecialKey(input.CodeEscape, 0)
	keyBackspace = input.SpecialKey(input.CodeBackspace, 0)
)

// handlePromptKey edits the open prompt. Enter submits and Esc cancels;
// either closes it before submit runs, so submit may open another.
func (app *Application) handlePromptKey(k input.Key) {
	p := app.prompt
	switch k {
	case keyEnter:
		app.prompt = nil
		p.submit(p.text)
	case keyEscape:
		app.prompt = nil
	default:
		p.edit(k)
	}
}

// openFind prompts for a pattern and selects its next occurrence.
func (app *Application) openFind() {
	last, _ := app.editor.Highlight()
	app.prompt = &prompt{
		label: app.searchLabel("Find"),
		text:  last,
		submit: func(pattern string) {
			if pattern == "" {
				app.editor.ClearSearch()
				return
			}
			if !app.editor.Find(pattern) {
				app.notice = fmt.Sprintf("not found: %s", pattern)
			}
		},
	}
}

// openReplace prompts for a pattern, then its replacement, and replaces
// every occurrence.
func (app *Application) openReplace() {
	last, _ := app.editor.Highlight()
	app.prompt = &prompt{
		label: app.searchLabel("Replace"),
		text:  last,
		submit: func(pattern string) {
			if pattern == "" {
				return
			}
			app.prompt = &prompt{
				label: func() string { return fmt.Sprintf("Replace %q with", pattern) },
				submit: func(repl string) {
					n := app.editor.ReplaceAll(pattern, repl)
					app.notice = fmt.Sprintf("replaced %d", n)
				},
			}
		},
	}
}

// openGoto prompts for a line number, moves the caret to it and scrolls
// it to the top of the view.
func (app *Application) openGoto() {
	app.prompt = &prompt{
		label: func() string { return "Go to line" },
		submit: func(text string) {
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil || n < 1 {
				app.notice = fmt.Sprintf("not a line number: %s", text)
				return
			}
			line := min(n, app.editor.Buffer().LineCount()) - 1
			app.editor.ScrollTo(line)
			app.editor.SetCaret(buffer.Pt(line, 0), false)
		},
	}
}

// toggleSearchOption flips a search flag; the notice shows the result.
func (app *Application) toggleSearchOption(name string) {
	opts := app.editor.SearchOptions()
	var flag search.Options
	switch name {
	case "case":
		flag = search.CaseSensitive
	case "word":
		flag = search.WholeWords
	default:
		return
	}
	opts ^= flag
	app.editor.SetSearchOptions(opts)
	app.notice = describeSearch(opts)
}

// searchLabel labels a prompt with the search flags in effect.
func (app *Application) searchLabel(verb string) func() string {
	return func() string {
		if flags := searchFlags(app.editor.SearchOptions()); flags != "" {
			return verb + " [" + flags + "]"
		}
		return verb
	}
}

func searchFlags(opts search.Options) string {
	var flags []string
	if opts.Has(search.CaseSensitive) {
		flags = append(flags, "case")
	}
	if opts.Has(search.WholeWords) {
		flags = append(flags, "word")
	}
	return strings.Join(flags, ",")
}

func describeSearch(opts search.Options) string {
	if flags := searchFlags(opts); flags != "" {
		return "search: " + flags
	}
	return "search: any case"
}
