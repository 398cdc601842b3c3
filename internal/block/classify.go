package block

import "strings"

// Classify returns the block type of a single line.
// Checks run in priority order and the first match wins, so structural
// signals always beat the generic paragraph and empty outcomes.
func Classify(line Line) Type {
	s := line.Signals
	switch {
	case s.Has(SignalEmbed):
		return TypeEmbed
	case s.Has(SignalCallout):
		return TypeCallout
	case s.Has(SignalCode):
		return TypeCode
	case s.Has(SignalTable):
		return TypeTable
	case s.Has(SignalList):
		return TypeList
	case s.Has(SignalHeading):
		return TypeHeading
	case s.Has(SignalQuote):
		return TypeQuote
	case s.Has(SignalHR):
		return TypeHR
	case strings.TrimSpace(line.Text) == "" && !s.Has(SignalWidget):
		return TypeEmpty
	default:
		return TypeParagraph
	}
}
