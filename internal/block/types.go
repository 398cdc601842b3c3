package block

import "strings"

// Signal is a set of structural flags observed on one rendered line.
type Signal uint16

const (
	// SignalEmbed marks a line rendering an embedded note or transclusion.
	SignalEmbed Signal = 1 << iota
	// SignalWidget marks a line carrying any rendered widget (embeds, images).
	SignalWidget
	// SignalCallout marks a line belonging to a callout container.
	SignalCallout
	// SignalCode marks a line inside a fenced code block, fences included.
	SignalCode
	// SignalTable marks a table row.
	SignalTable
	// SignalList marks a list item line.
	SignalList
	// SignalHeading marks a heading line.
	SignalHeading
	// SignalQuote marks a blockquote line.
	SignalQuote
	// SignalHR marks a horizontal rule.
	SignalHR
)

// Has reports whether all flags in f are set.
func (s Signal) Has(f Signal) bool {
	return s&f == f
}

// String returns the set flags joined by "|".
func (s Signal) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		flag Signal
		name string
	}{
		{SignalEmbed, "embed"},
		{SignalWidget, "widget"},
		{SignalCallout, "callout"},
		{SignalCode, "code"},
		{SignalTable, "table"},
		{SignalList, "list"},
		{SignalHeading, "heading"},
		{SignalQuote, "quote"},
		{SignalHR, "hr"},
	}
	var parts []string
	for _, n := range names {
		if s.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Type is the semantic kind of a line or block.
type Type uint8

const (
	TypeEmpty Type = iota
	TypeParagraph
	TypeHeading
	TypeList
	TypeTable
	TypeCode
	TypeQuote
	TypeCallout
	TypeHR
	TypeEmbed
)

// String returns the lowercase type name.
func (t Type) String() string {
	switch t {
	case TypeEmpty:
		return "empty"
	case TypeParagraph:
		return "paragraph"
	case TypeHeading:
		return "heading"
	case TypeList:
		return "list"
	case TypeTable:
		return "table"
	case TypeCode:
		return "code"
	case TypeQuote:
		return "quote"
	case TypeCallout:
		return "callout"
	case TypeHR:
		return "hr"
	case TypeEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// Line is one rendered line as seen by the segmenter.
// Lines are never mutated once built.
type Line struct {
	// Index is the line's position in the rendered sequence.
	Index int

	// Text is the raw line text.
	Text string

	// Signals are the structural flags observed on the line.
	Signals Signal
}

// Block is a contiguous run of lines dragged as one unit.
type Block struct {
	// StartLine is the first line of the block (inclusive).
	StartLine int

	// EndLine is the last line of the block (inclusive).
	EndLine int

	// Type is the type of the block's first line.
	Type Type

	// IsEmpty is true for blank separator blocks. Empty blocks always span
	// exactly one line and never get a handle.
	IsEmpty bool
}

// Len returns the number of lines in the block.
func (b Block) Len() int {
	return b.EndLine - b.StartLine + 1
}

// Contains reports whether line falls inside the block.
func (b Block) Contains(line int) bool {
	return line >= b.StartLine && line <= b.EndLine
}
