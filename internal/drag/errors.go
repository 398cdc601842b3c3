package drag

import (
	"errors"
	"fmt"

	"github.com/dshills/blockdnd/internal/linemove"
)

// Errors describing why an interaction did not complete. None of them reach
// the user: the controller recovers locally and re-renders.
var (
	// ErrStaleElement means a line element the interaction relies on is no
	// longer attached to the view.
	ErrStaleElement = errors.New("line element detached")

	// ErrUnresolvablePosition means an element could not be mapped to a
	// document line.
	ErrUnresolvablePosition = errors.New("line position unresolvable")

	// ErrNoActiveEditor means no editor is open.
	ErrNoActiveEditor = errors.New("no active editor")

	// ErrIllegalTarget means the drop target lies inside the dragged range.
	ErrIllegalTarget = linemove.ErrIllegalTarget

	// ErrMutationApply means the document rejected the replacement.
	ErrMutationApply = errors.New("applying move failed")
)

// Error is an interaction failure with its context.
type Error struct {
	Op        string
	SessionID string
	Err       error
}

func (e *Error) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("drag %s (session %s): %v", e.Op, e.SessionID, e.Err)
	}
	return fmt.Sprintf("drag %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
