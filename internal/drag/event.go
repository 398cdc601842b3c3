package drag

import "math"

// NoTarget marks an absent handle, line or drop target.
const NoTarget = -1

// Modality is the input device family.
type Modality uint8

const (
	// ModalityPointer is a mouse or trackpad.
	ModalityPointer Modality = iota
	// ModalityTouch is a finger on a touch screen.
	ModalityTouch
)

// String returns the modality name.
func (m Modality) String() string {
	if m == ModalityTouch {
		return "touch"
	}
	return "pointer"
}

// EventType is the kind of input event.
type EventType uint8

const (
	EventNone EventType = iota
	// EventDown is pointer-down or touch-start.
	EventDown
	// EventMove is pointer-move or touch-move.
	EventMove
	// EventUp is pointer-up or touch-end.
	EventUp
	// EventCancel is touch-cancel or an explicit abort such as Escape.
	EventCancel
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Event is one input event in view coordinates.
type Event struct {
	Type     EventType
	Modality Modality

	X float64
	Y float64

	// Handle is the block index whose handle is under the pointer, or
	// NoTarget.
	Handle int

	// Line is the rendered element index under the pointer, or NoTarget.
	Line int
}

// Down builds a down event.
func Down(m Modality, x, y float64, handle, line int) Event {
	return Event{Type: EventDown, Modality: m, X: x, Y: y, Handle: handle, Line: line}
}

// Move builds a move event.
func Move(m Modality, x, y float64, handle, line int) Event {
	return Event{Type: EventMove, Modality: m, X: x, Y: y, Handle: handle, Line: line}
}

// Up builds an up event.
func Up(m Modality, x, y float64) Event {
	return Event{Type: EventUp, Modality: m, X: x, Y: y, Handle: NoTarget, Line: NoTarget}
}

// Cancel builds a cancel event.
func Cancel(m Modality) Event {
	return Event{Type: EventCancel, Modality: m, Handle: NoTarget, Line: NoTarget}
}

// point is a position in view coordinates.
type point struct {
	X, Y float64
}

func (p point) dist(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

// State is the controller state.
type State uint8

const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}
