// Package buffer is the editable text of an open scene: lines of runes, a
// cursor, a version counter and listeners for edits and cursor moves.
//
// Positions are (Row, Col) in runes. Ranges are half-open.
package buffer
