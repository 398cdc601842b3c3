package block

// Mergeable reports whether a line of type next joins an open block of type
// current. The rule is order-sensitive: a callout absorbs trailing quote
// lines but a quote never absorbs a callout.
func Mergeable(current, next Type) bool {
	switch current {
	case TypeCode:
		return next == TypeCode
	case TypeTable:
		return next == TypeTable
	case TypeCallout:
		return next == TypeCallout || next == TypeQuote
	case TypeQuote:
		return next == TypeQuote
	default:
		return false
	}
}

// Segment partitions lines into blocks in document order.
// Block line numbers are positions in lines, not Line.Index values.
// The returned blocks are contiguous, non-overlapping and cover every line
// exactly once.
func Segment(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}

	blocks := make([]Block, 0, len(lines))
	open := false
	var cur Block

	flush := func() {
		if open {
			blocks = append(blocks, cur)
			open = false
		}
	}

	for i, line := range lines {
		t := Classify(line)

		if t == TypeEmpty {
			flush()
			blocks = append(blocks, Block{StartLine: i, EndLine: i, Type: TypeEmpty, IsEmpty: true})
			continue
		}

		if open && Mergeable(cur.Type, t) {
			cur.EndLine = i
			continue
		}

		flush()
		cur = Block{StartLine: i, EndLine: i, Type: t}
		open = true
	}
	flush()

	return blocks
}
