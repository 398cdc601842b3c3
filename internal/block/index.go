package block

import (
	"errors"
	"sort"
)

// ErrRefreshSuspended is returned by Index.Refresh while a drag session is open.
var ErrRefreshSuspended = errors.New("block index refresh suspended during drag")

// Gate reports whether refreshes are currently suspended.
// The drag controller implements it; its open session is the only gate.
type Gate interface {
	SessionOpen() bool
}

// Index owns the block list of the active view snapshot.
// It is not safe for concurrent use; callers drive it from the view's event
// loop.
type Index struct {
	gate     Gate
	blocks   []Block
	lines    int
	revision uint64
}

// NewIndex creates an empty index. A nil gate never suspends refreshes.
func NewIndex(gate Gate) *Index {
	return &Index{gate: gate}
}

// SetGate replaces the suspension gate.
func (x *Index) SetGate(gate Gate) {
	x.gate = gate
}

// RefreshSuspended reports whether Refresh would currently be refused.
func (x *Index) RefreshSuspended() bool {
	return x.gate != nil && x.gate.SessionOpen()
}

// Refresh re-segments lines and replaces the block list wholesale.
// While suspended the previous blocks are kept and ErrRefreshSuspended is
// returned.
func (x *Index) Refresh(lines []Line) error {
	if x.RefreshSuspended() {
		return ErrRefreshSuspended
	}
	x.blocks = Segment(lines)
	x.lines = len(lines)
	x.revision++
	return nil
}

// Revision increments on every successful Refresh.
func (x *Index) Revision() uint64 {
	return x.revision
}

// Len returns the number of blocks.
func (x *Index) Len() int {
	return len(x.blocks)
}

// LineCount returns the number of lines covered by the index.
func (x *Index) LineCount() int {
	return x.lines
}

// At returns the i-th block.
func (x *Index) At(i int) (Block, bool) {
	if i < 0 || i >= len(x.blocks) {
		return Block{}, false
	}
	return x.blocks[i], true
}

// Blocks returns a copy of the block list.
func (x *Index) Blocks() []Block {
	out := make([]Block, len(x.blocks))
	copy(out, x.blocks)
	return out
}

// BlockContaining returns the block that covers line.
func (x *Index) BlockContaining(line int) (Block, bool) {
	i := x.IndexOf(line)
	if i < 0 {
		return Block{}, false
	}
	return x.blocks[i], true
}

// IndexOf returns the position of the block covering line, or -1.
func (x *Index) IndexOf(line int) int {
	if line < 0 || line >= x.lines {
		return -1
	}
	i := sort.Search(len(x.blocks), func(i int) bool {
		return x.blocks[i].EndLine >= line
	})
	if i < len(x.blocks) && x.blocks[i].Contains(line) {
		return i
	}
	return -1
}
