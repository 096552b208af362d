// Package textpos converts between absolute byte offsets into a text and
// row/column positions, and between node-local offsets and host document
// offsets.
//
// Rows are newline-delimited and 0-indexed; columns are byte offsets within
// the row, matching the addressing the inner editor uses. Host document
// offsets place a node's text one unit after the node's own position, the
// node's opening boundary marker.
package textpos

import (
	"fmt"
	"strings"
)

// Point is a row/column position. Row and Column are 0-indexed; Column is
// measured in bytes from the start of the row.
type Point struct {
	Row    int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Row != other.Row {
		if p.Row < other.Row {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Range is a directional pair of points. Anchor is where a selection started;
// Head is the moving end. Anchor may come after Head for backward selections.
type Range struct {
	Anchor Point
	Head   Point
}

// NewRange creates a range from anchor to head.
func NewRange(anchor, head Point) Range {
	return Range{Anchor: anchor, Head: head}
}

// Caret creates an empty range at the given point.
func Caret(p Point) Range {
	return Range{Anchor: p, Head: p}
}

// IsEmpty returns true if the range has no extent.
func (r Range) IsEmpty() bool {
	return r.Anchor == r.Head
}

// IsBackward returns true if the head precedes the anchor.
func (r Range) IsBackward() bool {
	return r.Head.Before(r.Anchor)
}

// Start returns the lesser of anchor and head.
func (r Range) Start() Point {
	if r.IsBackward() {
		return r.Head
	}
	return r.Anchor
}

// End returns the greater of anchor and head.
func (r Range) End() Point {
	if r.IsBackward() {
		return r.Anchor
	}
	return r.Head
}

// Normalize returns a forward range covering the same points.
func (r Range) Normalize() Range {
	return Range{Anchor: r.Start(), Head: r.End()}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	if r.IsEmpty() {
		return r.Head.String()
	}
	return fmt.Sprintf("[%s %s]", r.Anchor.String(), r.Head.String())
}

// PointOf converts a byte offset into text to a row/column point. Offsets
// outside [0, len(text)] are clamped.
func PointOf(text string, offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	before := text[:offset]
	row := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1

	return Point{Row: row, Column: offset - lineStart}
}

// OffsetOf converts a row/column point to a byte offset into text. Rows past
// the last row clamp to the end of the text; columns past the end of a row
// clamp to the row's length.
func OffsetOf(text string, p Point) int {
	if p.Row < 0 {
		return 0
	}

	offset := 0
	row := 0
	rest := text
	for row < p.Row {
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
		rest = rest[nl+1:]
		row++
	}

	lineLen := len(rest)
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		lineLen = nl
	}

	col := p.Column
	if col < 0 {
		col = 0
	}
	if col > lineLen {
		col = lineLen
	}
	return offset + col
}

// HostOffset maps a node-local text offset to a host document offset. The
// node's text content starts one unit after the node's own position.
func HostOffset(nodeStart, local int) int {
	return nodeStart + 1 + local
}

// LocalOffset maps a host document offset back to a node-local text offset.
// Inverse of HostOffset; the caller clamps against the node's text length
// when the host offset may lie outside the node.
func LocalOffset(nodeStart, host int) int {
	return host - nodeStart - 1
}
