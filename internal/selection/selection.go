// Package selection maps an editor text selection onto a drag range.
package selection

import "github.com/dshills/blockdnd/internal/block"

// Cursor is a (line, column) position in the document.
type Cursor struct {
	Line int
	Col  int
}

// Selection is an anchor/head pair. Either end may come first.
type Selection struct {
	Anchor Cursor
	Head   Cursor
}

// None is the collapsed, empty selection.
var None = Selection{}

// IsCollapsed reports whether anchor and head coincide.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Head
}

// Lines returns the normalized line span of the selection.
func (s Selection) Lines() Range {
	from, to := s.Anchor.Line, s.Head.Line
	if from > to {
		from, to = to, from
	}
	return Range{Start: from, End: to}
}

// Range is an inclusive line range.
type Range struct {
	Start int
	End   int
}

// Contains reports whether line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Extend returns the effective drag range for b.
// A non-collapsed selection whose line span contains the block's first line
// takes over the whole range, so several blocks (or partial lines across
// blocks) drag together by the handle of the first block they touch.
// Otherwise the block's own range is returned.
func Extend(b block.Block, sel Selection) Range {
	own := Range{Start: b.StartLine, End: b.EndLine}
	if sel.IsCollapsed() {
		return own
	}
	span := sel.Lines()
	if !span.Contains(b.StartLine) {
		return own
	}
	return span
}
