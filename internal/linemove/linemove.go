// Package linemove relocates a contiguous run of lines within a sequence.
package linemove

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeInvalid is returned when the source range is empty or out of bounds.
	ErrRangeInvalid = errors.New("invalid source range")

	// ErrTargetOutOfRange is returned when the target is outside [0, len(lines)].
	ErrTargetOutOfRange = errors.New("target line out of range")

	// ErrIllegalTarget is returned when the target lies inside [start, end+1],
	// where the move would be a no-op or would split the source range.
	ErrIllegalTarget = errors.New("target inside source range")
)

// Result is the outcome of a move.
type Result struct {
	// Lines is the full reordered sequence.
	Lines []string

	// Caret is the index of the first relocated line.
	Caret int
}

// Legal reports whether moving [start, end] to target changes anything.
func Legal(start, end, target int) bool {
	return target < start || target > end+1
}

// Move removes lines[start:end+1] and reinserts it so that it lands
// immediately before the line that originally sat at target. A target equal
// to len(lines) appends the range at the end.
// The input slice is never modified.
func Move(lines []string, start, end, target int) (Result, error) {
	if start < 0 || end < start || end >= len(lines) {
		return Result{}, fmt.Errorf("%w: [%d, %d] of %d lines", ErrRangeInvalid, start, end, len(lines))
	}
	if target < 0 || target > len(lines) {
		return Result{}, fmt.Errorf("%w: %d of %d lines", ErrTargetOutOfRange, target, len(lines))
	}
	if !Legal(start, end, target) {
		return Result{}, fmt.Errorf("%w: %d in [%d, %d]", ErrIllegalTarget, target, start, end+1)
	}

	k := end - start + 1
	insertAt := target
	if target > end {
		insertAt = target - k
	}

	rest := make([]string, 0, len(lines)-k)
	rest = append(rest, lines[:start]...)
	rest = append(rest, lines[end+1:]...)

	out := make([]string, 0, len(lines))
	out = append(out, rest[:insertAt]...)
	out = append(out, lines[start:end+1]...)
	out = append(out, rest[insertAt:]...)

	return Result{Lines: out, Caret: insertAt}, nil
}

// ReturnTarget returns the target that moves a range relocated by
// Move(_, start, end, target) back to where it came from.
func ReturnTarget(start, end, target int) int {
	if target > end {
		// Moved down: the block now sits at target-k; the lines that
		// followed it originally begin at start.
		return start
	}
	// Moved up: the block sits at target; its original successor is now
	// at end+1.
	return end + 1
}
