// Package drag implements the block drag interaction.
//
// A Controller turns pointer and touch input into one atomic document
// mutation that relocates a block of lines. It is defined purely against
// the host interfaces in host.go (View, Workspace, Visuals, Scheduler), so
// the terminal adapter is the only code aware of a concrete screen.
//
// # State Machine
//
//	Idle ──down on handle──▶ Armed ──(pointer: now, touch: long press)──▶ Dragging
//	  ▲                        │                                            │
//	  └────── lift / wander ───┘◀──────────── release / cancel ─────────────┘
//
// Pointer input passes through Armed instantly. Touch input waits
// Options.LongPressDelay in Armed; lifting or moving beyond
// Options.DragThreshold first returns to Idle with no side effects, which
// is how a long press to drag differs from a tap.
//
// While Dragging, every move rescans the live line elements: the target is
// the first line whose vertical midpoint lies below the pointer, or the line
// after the last one. On release the move is applied only if the target lies
// outside [start, end+1]; the document replace is the single point where a
// session becomes visible and runs at most once.
//
// # Sessions
//
// At most one Session exists per Controller. Its presence suspends block
// index refreshes, hover-driven handle visibility and debounced re-renders.
// Invalidations that arrive during a session are remembered and honoured
// when the session ends.
//
// # Thread Safety
//
// Controller is not safe for concurrent use. The host calls it from one
// event loop, and Scheduler implementations must run callbacks on that same
// loop.
package drag
