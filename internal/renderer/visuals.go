package renderer

import (
	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/drag"
)

// RenderHandles replaces the handle set. All handles start hidden.
func (v *View) RenderHandles(blocks []block.Block) {
	v.blocks = blocks
	v.shown = make(map[int]bool)
	v.active = make(map[int]bool)
	v.selected = make(map[int]bool)
}

func (v *View) ShowHandle(i int) { v.shown[i] = true }
func (v *View) HideHandle(i int) { delete(v.shown, i) }

func (v *View) HideHandles() {
	v.shown = make(map[int]bool)
}

func (v *View) SetHandleActive(i int, active bool) {
	if active {
		v.active[i] = true
	} else {
		delete(v.active, i)
	}
}

// SetSelected highlights b's lines. Selection is kept by document line so it
// survives scrolling.
func (v *View) SetSelected(b block.Block, selected bool) {
	for i := b.StartLine; i <= b.EndLine && i < len(v.lines); i++ {
		if i < 0 {
			continue
		}
		if selected {
			v.selected[v.lines[i].index] = true
		} else {
			delete(v.selected, v.lines[i].index)
		}
	}
}

// MarkDragging dims the given lines.
func (v *View) MarkDragging(els []drag.Element) {
	v.dragging = make(map[int]bool)
	for _, el := range els {
		if line, err := v.LineOf(el); err == nil {
			v.dragging[line] = true
		}
	}
}

func (v *View) ClearDragging() {
	v.dragging = make(map[int]bool)
}

func (v *View) ShowIndicator(ind drag.Indicator) {
	v.indicator = &ind
}

func (v *View) HideIndicator() {
	v.indicator = nil
}

// HandleShown reports whether block i's handle is visible.
func (v *View) HandleShown(i int) bool {
	return v.shown[i]
}

// Indicator returns the drop indicator, if shown.
func (v *View) Indicator() (drag.Indicator, bool) {
	if v.indicator == nil {
		return drag.Indicator{}, false
	}
	return *v.indicator, true
}

// Dragging reports whether a document line is dimmed as part of a drag.
func (v *View) Dragging(line int) bool {
	return v.dragging[line]
}
