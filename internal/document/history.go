package document

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Change is one whole-document replacement.
type Change struct {
	Label       string
	Before      string
	After       string
	CaretBefore int
	CaretAfter  int
	Timestamp   time.Time
}

// History keeps undo and redo stacks of Changes.
// It is not synchronized; Buffer guards it with its own lock.
type History struct {
	undo       []Change
	redo       []Change
	maxEntries int
}

// NewHistory creates a history holding at most maxEntries undo steps.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Push records a change and clears the redo stack.
func (h *History) Push(c Change) {
	h.undo = append(h.undo, c)
	h.redo = nil

	if len(h.undo) > h.maxEntries {
		excess := len(h.undo) - h.maxEntries
		h.undo = h.undo[excess:]
	}
}

// popUndo moves the newest change to the redo stack and returns it.
func (h *History) popUndo() (Change, error) {
	if len(h.undo) == 0 {
		return Change{}, ErrNothingToUndo
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, c)
	return c, nil
}

// popRedo moves the newest undone change back to the undo stack.
func (h *History) popRedo() (Change, error) {
	if len(h.redo) == 0 {
		return Change{}, ErrNothingToRedo
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, c)
	return c, nil
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	return len(h.undo)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	return len(h.redo)
}

// Clear removes all history.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
