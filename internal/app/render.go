package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/editor"
)

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleMatch     = tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack)
	styleStatus    = tcell.StyleDefault.Reverse(true)
)

// cells must agree with the editor's measurer.
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// draw paints the editor view and the status line.
func (app *Application) draw() {
	s := app.screen
	if s == nil {
		return
	}
	s.Clear()
	w, h := s.Size()
	v := app.editor.View()
	for y, row := range v.Rows {
		drawRow(s, y, w, v.Left, app.editor.Buffer().TabSize(), row)
	}
	app.drawStatus(s, w, h-1, v)

	switch {
	case app.prompt != nil:
		label := app.prompt.label() + ": "
		s.ShowCursor(min(cells.StringWidth(label+app.prompt.text), w-1), h-1)
	case v.CaretVisible && v.CaretRow >= 0:
		if v.Replace {
			s.SetCursorStyle(tcell.CursorStyleSteadyBlock)
		} else {
			s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		}
		s.ShowCursor(v.CaretX-v.Left, v.CaretRow)
	default:
		s.HideCursor()
	}
	s.Show()
}

// drawRow paints one row grapheme by grapheme. Tabs expand to spaces;
// clusters cut by the left or right edge are skipped.
func drawRow(s tcell.Screen, y, width, left, tabSize int, row editor.Row) {
	x := 0
	g := uniseg.NewGraphemes(row.Text)
	for g.Next() {
		from, to := g.Positions()
		cluster := g.Str()
		style := styleFor(row, from, to)

		if cluster == "\t" {
			next := (x/tabSize + 1) * tabSize
			for ; x < next; x++ {
				if sx := x - left; sx >= 0 && sx < width {
					s.SetContent(sx, y, ' ', nil, style)
				}
			}
			continue
		}

		runes := []rune(cluster)
		cw := 0
		for _, r := range runes {
			cw += cells.RuneWidth(r)
		}
		if sx := x - left; sx >= 0 && sx+cw <= width && cw > 0 {
			s.SetContent(sx, y, runes[0], runes[1:], style)
		}
		x += cw
	}
	if row.SelectedEOL {
		if sx := x - left; sx >= 0 && sx < width {
			s.SetContent(sx, y, ' ', nil, styleSelection)
		}
	}
}

func styleFor(row editor.Row, from, to int) tcell.Style {
	if sel := row.Selected; from >= sel[0] && to <= sel[1] && sel[0] < sel[1] {
		return styleSelection
	}
	for _, m := range row.Matches {
		if from >= m[0] && to <= m[1] {
			return styleMatch
		}
	}
	return styleText
}

// drawStatus paints the status line: the prompt or notice on the left,
// caret position and modes on the right.
func (app *Application) drawStatus(s tcell.Screen, w, y int, v editor.View) {
	if y < 0 {
		return
	}
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, styleStatus)
	}

	left := app.describeFile()
	switch {
	case app.prompt != nil:
		left = app.prompt.label() + ": " + app.prompt.text
	case app.notice != "":
		left = app.notice
	}

	line := app.editor.Buffer().Line(v.Caret.Line)
	col := utf8.RuneCountInString(line[:min(v.Caret.Column, len(line))]) + 1
	modes := []string{fmt.Sprintf("Ln %d, Col %d", v.Caret.Line+1, col)}
	if v.Replace {
		modes = append(modes, "OVR")
	}
	if v.ReadOnly {
		modes = append(modes, "RO")
	}
	if app.editor.WordWrap() {
		modes = append(modes, "WRAP")
	}
	right := strings.Join(modes, "  ")

	rx := max(w-cells.StringWidth(right)-1, 0)
	drawText(s, 0, y, rx, left, styleStatus)
	if app.prompt == nil {
		drawText(s, rx, y, w, right, styleStatus)
	}
}

// drawText paints text from x up to limit.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		cw := cells.StringWidth(g.Str())
		if x+cw > limit {
			return
		}
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += cw
	}
}
