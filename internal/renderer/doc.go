// Package renderer lays out a markdown document on a terminal grid and draws
// the block handles, drag feedback and status line.
//
// A View is the geometry provider and the visual surface of the drag
// controller: it implements drag.View and drag.Visuals. Each layout pass
// produces a new generation of Line elements; elements from an earlier
// generation report themselves detached, which is how the controller notices
// that the screen changed under it.
//
// Rows are one unit tall. Row r spans [r, r+1) in view coordinates, and a
// pointer on row r is reported at y = r, above that row's midpoint, so the
// drop target is the line under the pointer.
//
// The gutter is two columns wide: the handle glyph in the first, the drop
// marker in the second.
package renderer
