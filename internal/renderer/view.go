package renderer

import (
	"errors"

	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/block/markdown"
	"github.com/dshills/blockdnd/internal/drag"
)

// GutterWidth is the number of columns left of the text.
const GutterWidth = 2

var (
	// ErrForeignElement is returned for elements another view produced.
	ErrForeignElement = errors.New("element does not belong to this view")

	// ErrDetached is returned for elements from an earlier layout.
	ErrDetached = errors.New("element belongs to an earlier layout")
)

// Source supplies the document lines to lay out.
type Source interface {
	Lines() []string
}

// Line is one laid-out document line. It implements drag.Element.
type Line struct {
	view  *View
	gen   uint64
	index int
	row   int
	text  string
	sig   block.Signal
}

// Attached reports whether the line belongs to the current layout.
func (l *Line) Attached() bool {
	return l.gen == l.view.gen
}

// Rect returns the line's row box.
func (l *Line) Rect() drag.Rect {
	return drag.Rect{
		Top:    float64(l.row),
		Bottom: float64(l.row + 1),
		Left:   GutterWidth,
		Width:  float64(max(l.view.width-GutterWidth, 0)),
	}
}

func (l *Line) Text() string          { return l.text }
func (l *Line) Signals() block.Signal { return l.sig }

// DocLine returns the zero-based document line.
func (l *Line) DocLine() int {
	return l.index
}

// Row returns the screen row.
func (l *Line) Row() int {
	return l.row
}

// View is a scrolled window onto a document.
type View struct {
	src    Source
	width  int
	height int
	scroll int
	total  int

	gen   uint64
	lines []*Line

	blocks    []block.Block
	shown     map[int]bool
	active    map[int]bool
	selected  map[int]bool
	dragging  map[int]bool
	indicator *drag.Indicator
}

// NewView creates a view and lays it out.
func NewView(src Source, width, height int) *View {
	v := &View{
		src:      src,
		width:    width,
		height:   height,
		shown:    make(map[int]bool),
		active:   make(map[int]bool),
		selected: make(map[int]bool),
		dragging: make(map[int]bool),
	}
	v.Layout()
	return v
}

// Size returns the view dimensions, status row included.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Resize changes the dimensions and lays out again.
func (v *View) Resize(width, height int) {
	v.width, v.height = width, height
	v.Layout()
}

// TextRows is the number of rows available to document lines.
func (v *View) TextRows() int {
	return max(v.height-1, 0)
}

// Scroll returns the first visible document line.
func (v *View) Scroll() int {
	return v.scroll
}

// ScrollBy moves the window by delta lines and reports whether it moved.
func (v *View) ScrollBy(delta int) bool {
	return v.scrollTo(v.scroll + delta)
}

// EnsureVisible scrolls the minimum needed to show line.
func (v *View) EnsureVisible(line int) bool {
	rows := v.TextRows()
	switch {
	case rows == 0:
		return false
	case line < v.scroll:
		return v.scrollTo(line)
	case line >= v.scroll+rows:
		return v.scrollTo(line - rows + 1)
	}
	return false
}

func (v *View) scrollTo(top int) bool {
	top = min(top, v.total-1)
	top = max(top, 0)
	if top == v.scroll {
		return false
	}
	v.scroll = top
	v.Layout()
	return true
}

// Layout rebuilds the visible lines from the source. Every call starts a new
// generation.
func (v *View) Layout() {
	all := v.src.Lines()
	v.total = len(all)
	v.scroll = max(min(v.scroll, v.total-1), 0)

	// Signals need the whole document: fences opened above the window still
	// apply inside it.
	sigs := markdown.Signals(all)

	v.gen++
	end := min(v.scroll+v.TextRows(), v.total)
	v.lines = v.lines[:0]
	for i := v.scroll; i < end; i++ {
		v.lines = append(v.lines, &Line{
			view:  v,
			gen:   v.gen,
			index: i,
			row:   i - v.scroll,
			text:  all[i],
			sig:   sigs[i],
		})
	}
}

// Generation identifies the current layout.
func (v *View) Generation() uint64 {
	return v.gen
}

// Lines returns the visible lines.
func (v *View) Lines() []*Line {
	out := make([]*Line, len(v.lines))
	copy(out, v.lines)
	return out
}

// Elements returns the visible lines as drag elements.
func (v *View) Elements() []drag.Element {
	out := make([]drag.Element, len(v.lines))
	for i, l := range v.lines {
		out[i] = l
	}
	return out
}

// LineOf maps an element of the current layout to its document line.
func (v *View) LineOf(el drag.Element) (int, error) {
	l, ok := el.(*Line)
	if !ok || l.view != v {
		return 0, ErrForeignElement
	}
	if !l.Attached() {
		return 0, ErrDetached
	}
	return l.index, nil
}

// ElementAt returns the element index on row, or drag.NoTarget.
func (v *View) ElementAt(row int) int {
	if row < 0 || row >= len(v.lines) {
		return drag.NoTarget
	}
	return row
}

// HandleAt returns the block whose visible handle is at (x, row), or
// drag.NoTarget.
func (v *View) HandleAt(x, row int) int {
	if x < 0 || x >= GutterWidth {
		return drag.NoTarget
	}
	for i, b := range v.blocks {
		if b.StartLine == row && v.shown[i] {
			return i
		}
	}
	return drag.NoTarget
}

// PointerY converts a screen row to a view coordinate.
func PointerY(row int) float64 {
	return float64(row)
}
