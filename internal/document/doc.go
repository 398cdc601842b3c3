// Package document holds the text being edited.
//
// Buffer stores the document as LF-separated text and exposes the narrow
// contract the drag core consumes: read everything, and replace everything
// atomically while placing the caret on a line. Each replacement is one
// History entry, so a block move undoes in a single step.
//
// Files keep their original line-ending style: it is detected on load,
// normalized away in memory and restored on save.
package document
