package drag

import (
	"time"

	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/selection"
)

// Rect is an element's bounding box in view coordinates.
type Rect struct {
	Top    float64
	Bottom float64
	Left   float64
	Width  float64
}

// Mid returns the vertical midpoint.
func (r Rect) Mid() float64 {
	return (r.Top + r.Bottom) / 2
}

// Element is one rendered line.
type Element interface {
	// Attached reports whether the element is still part of the live view.
	Attached() bool

	// Rect returns the element's current bounds.
	Rect() Rect

	// Text returns the line's rendered text.
	Text() string

	// Signals returns the structural signals the view attached to the line.
	Signals() block.Signal
}

// View is the geometry provider.
type View interface {
	// Elements returns the rendered line elements in vertical order.
	Elements() []Element

	// LineOf maps an element to its zero-based document line. It fails when
	// the element is stale.
	LineOf(el Element) (int, error)
}

// Document is the narrow document contract.
type Document interface {
	ReadAllText() string

	// ReplaceAllText swaps the whole text in one undoable step and puts the
	// caret on caretLine.
	ReplaceAllText(text string, caretLine int) error
}

// Editor is an open document with a selection.
type Editor interface {
	Document

	// Selection returns the current selection; collapsed means none.
	Selection() selection.Selection
}

// Workspace resolves the editor the view is showing.
type Workspace interface {
	// ActiveEditor returns the active editor or an error when none is open.
	ActiveEditor() (Editor, error)
}

// Indicator places the drop-position line.
type Indicator struct {
	Y     float64
	Left  float64
	Width float64
}

// Visuals is the rendering side of the interaction. All calls must be
// idempotent.
type Visuals interface {
	// RenderHandles rebuilds the handle set for a fresh segmentation.
	// Handles start hidden.
	RenderHandles(blocks []block.Block)
	ShowHandle(blockIndex int)
	HideHandle(blockIndex int)
	HideHandles()

	// SetHandleActive highlights the handle being pressed.
	SetHandleActive(blockIndex int, active bool)

	// SetSelected toggles the tap-to-select highlight of b's lines.
	SetSelected(b block.Block, selected bool)

	// MarkDragging dims the elements being dragged.
	MarkDragging(els []Element)
	ClearDragging()

	ShowIndicator(ind Indicator)
	HideIndicator()
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already ran.
	Stop() bool
}

// Scheduler runs deferred work on the host's event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
