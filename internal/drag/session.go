package drag

// Session is the live state of one drag, from arm to commit or cancel.
type Session struct {
	// ID correlates the session's log lines and events.
	ID string

	// Block is the index of the block whose handle started the drag.
	Block int

	// SourceStart and SourceEnd are the inclusive document lines being
	// moved, after selection extension.
	SourceStart int
	SourceEnd   int

	// OriginY is the pointer position when the drag started.
	OriginY float64

	// Target is the current insertion line, or NoTarget.
	Target int

	Modality Modality

	editor Editor
	marked []Element
}

// sourceAttached reports whether every element being moved is still
// rendered. A re-layout under the session detaches them.
func (s *Session) sourceAttached() bool {
	for _, el := range s.marked {
		if !el.Attached() {
			return false
		}
	}
	return true
}

// Len returns the number of lines being dragged.
func (s *Session) Len() int {
	return s.SourceEnd - s.SourceStart + 1
}

// Started is published on drag.started.
type Started struct {
	SessionID string
	Start     int
	End       int
	Modality  Modality
}

// Committed is published on drag.committed.
type Committed struct {
	SessionID string
	Start     int
	End       int
	Target    int
	Caret     int
}

// Cancelled is published on drag.cancelled.
type Cancelled struct {
	SessionID string
	Reason    error
}
