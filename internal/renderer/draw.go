package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/renderer/backend"
	"github.com/dshills/blockdnd/internal/selection"
)

// Glyphs drawn in the gutter.
const (
	HandleRune = '⠿'
	MarkerRune = '▸'
)

const tabWidth = 4

var (
	styleText         = backend.StyleDefault
	styleCode         = backend.StyleDefault.Foreground(tcell.ColorTeal)
	styleHeading      = backend.StyleDefault.Bold(true)
	styleQuote        = backend.StyleDefault.Italic(true)
	styleHandle       = backend.StyleDefault.Foreground(tcell.ColorGray)
	styleHandleActive = backend.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMarker       = backend.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus       = backend.StyleDefault.Reverse(true)
	styleSelection    = tcell.ColorNavy
)

// Frame is the editor state drawn alongside the document.
type Frame struct {
	Selection  selection.Selection
	Caret      selection.Cursor
	ShowCursor bool
	Status     string
}

// Draw paints the visible lines, gutter, drop marker and status row.
func (v *View) Draw(b backend.Backend, f Frame) {
	b.Clear()

	var span selection.Range
	hasSpan := !f.Selection.IsCollapsed()
	if hasSpan {
		span = f.Selection.Lines()
	}

	marker := -1
	if v.indicator != nil {
		marker = int(v.indicator.Y)
	}

	handles := make(map[int]int, len(v.shown))
	for i := range v.shown {
		if i >= 0 && i < len(v.blocks) {
			handles[v.blocks[i].StartLine] = i
		}
	}

	for row, l := range v.lines {
		if i, ok := handles[row]; ok {
			st := styleHandle
			if v.active[i] {
				st = styleHandleActive
			}
			b.SetContent(0, row, HandleRune, st)
		}

		st := lineStyle(l.sig)
		if v.dragging[l.index] {
			st = st.Dim(true)
		}
		if v.selected[l.index] {
			st = st.Reverse(true)
		}
		if hasSpan && span.Contains(l.index) {
			st = st.Background(styleSelection)
		}
		if marker == row+1 {
			st = st.Underline(true)
		}
		drawText(b, GutterWidth, row, v.width, l.text, st)
	}

	if marker >= 0 && marker < v.TextRows() {
		b.SetContent(1, marker, MarkerRune, styleMarker)
	}

	if status := v.height - 1; status >= 0 {
		for x := 0; x < v.width; x++ {
			b.SetContent(x, status, ' ', styleStatus)
		}
		drawText(b, 1, status, v.width, f.Status, styleStatus)
	}

	row := f.Caret.Line - v.scroll
	if f.ShowCursor && row >= 0 && row < len(v.lines) {
		b.ShowCursor(GutterWidth+textWidth(v.lines[row].text, f.Caret.Col), row)
	} else {
		b.HideCursor()
	}
	b.Show()
}

func lineStyle(sig block.Signal) backend.Style {
	switch {
	case sig.Has(block.SignalCode):
		return styleCode
	case sig.Has(block.SignalHeading):
		return styleHeading
	case sig.Has(block.SignalQuote), sig.Has(block.SignalCallout):
		return styleQuote
	}
	return styleText
}

// drawText writes s from column x, clipped at limit. Wide runes take two
// cells and tabs expand to the next stop.
func drawText(b backend.Backend, x, y, limit int, s string, st backend.Style) int {
	col := x
	for _, r := range s {
		if r == '\t' {
			next := x + ((col-x)/tabWidth+1)*tabWidth
			for ; col < next && col < limit; col++ {
				b.SetContent(col, y, ' ', st)
			}
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > limit {
			break
		}
		b.SetContent(col, y, r, st)
		col += w
	}
	return col
}

// textWidth is the display width of the first n runes of s.
func textWidth(s string, n int) int {
	w := 0
	for i, r := range []rune(s) {
		if i >= n {
			break
		}
		if r == '\t' {
			w = (w/tabWidth + 1) * tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// ColumnAt returns the rune index under display cell x of s, clamped to the
// end of the line.
func ColumnAt(s string, x int) int {
	if x <= 0 {
		return 0
	}
	w := 0
	runes := []rune(s)
	for i, r := range runes {
		next := w + runewidth.RuneWidth(r)
		if r == '\t' {
			next = (w/tabWidth + 1) * tabWidth
		}
		if x < next {
			return i
		}
		w = next
	}
	return len(runes)
}
