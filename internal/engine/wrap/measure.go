package wrap

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Measurer reports text widths.
//
// Measure returns one entry per rune of text: the width of text up to and
// including that rune. Tabs advance to the next multiple of tabSize cells,
// counted from the start of text.
type Measurer interface {
	Measure(text string, tabSize int) []int
}

// CellMeasurer measures text in terminal cells scaled by CellWidth, using
// East Asian width rules for wide characters.
type CellMeasurer struct {
	CellWidth int
	cond      *runewidth.Condition
}

// NewCellMeasurer returns a measurer where one cell is cellWidth units wide.
func NewCellMeasurer(cellWidth int) *CellMeasurer {
	if cellWidth < 1 {
		cellWidth = 1
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &CellMeasurer{CellWidth: cellWidth, cond: cond}
}

// Measure implements Measurer.
func (m *CellMeasurer) Measure(text string, tabSize int) []int {
	if tabSize < 1 {
		tabSize = 4
	}
	widths := make([]int, 0, utf8.RuneCountInString(text))
	cells := 0
	for _, r := range text {
		if r == '\t' {
			cells = (cells/tabSize + 1) * tabSize
		} else {
			cells += m.cond.RuneWidth(r)
		}
		widths = append(widths, cells*m.CellWidth)
	}
	return widths
}

// Width returns the total width of text.
func Width(m Measurer, text string, tabSize int) int {
	w := m.Measure(text, tabSize)
	if len(w) == 0 {
		return 0
	}
	return w[len(w)-1]
}
