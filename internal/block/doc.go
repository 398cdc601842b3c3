// Package block partitions a rendered line sequence into draggable blocks.
//
// The package has three layers:
//
//   - Classify maps one line's structural signals to a Type.
//   - Segment scans classified lines and merges adjacent lines into Blocks
//     using the Mergeable rule.
//   - Index owns the last segmentation of the active view and answers
//     lookups against it.
//
// # Merge Rule
//
// Container constructs (code fences, tables, blockquotes and callouts) drag
// as one unit, so adjacent lines of those types merge. Headings, list items
// and paragraphs never merge, even with a neighbour of the same type: a
// bullet list is many separately draggable blocks.
//
//	blocks := block.Segment(lines)
//	for _, b := range blocks {
//	    fmt.Println(b.StartLine, b.EndLine, b.Type)
//	}
//
// # Freshness
//
// An Index is rebuilt wholesale on every Refresh; it is never patched.
// Refresh is refused while the Index gate reports an open drag session so
// the geometry a session relies on cannot shift underneath it.
package block
