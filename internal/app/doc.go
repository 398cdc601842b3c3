// Package app wires the document, the view and the drag controller into a
// terminal application and runs its event loop.
//
// Everything that touches the controller runs on the loop goroutine:
// terminal events arrive through Backend.PollEvent, and timers and config
// reloads re-enter the loop as posted interrupts. The event bus is
// synchronous, so subscribers also run on the loop.
//
// Key bindings:
//
//	arrows, Home, End, PgUp, PgDn   move the caret
//	shift + movement                extend the selection
//	Ctrl-Z / Ctrl-Y                 undo / redo
//	Ctrl-S                          save
//	Esc                             cancel a drag in progress
//	Ctrl-Q / Ctrl-C                 quit
package app
