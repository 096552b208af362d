package doc

// ResolvedPos carries the structural context around an absolute position:
// the block containing it, or, at block boundaries, the blocks on either
// side. It is recomputed on demand and never cached across document
// versions.
type ResolvedPos struct {
	// Pos is the resolved absolute position.
	Pos int

	// Index is the index of the block containing pos, or of the block
	// starting at pos for boundary positions. Equal to the block count at
	// the end of the document.
	Index int

	// Node is the block strictly containing pos, nil at block boundaries.
	Node *Node

	// NodeBefore is the block ending exactly at pos, nil elsewhere.
	NodeBefore *Node

	// NodeAfter is the block starting exactly at pos, nil elsewhere.
	NodeAfter *Node

	// BlockStart is the start position of Node, or of NodeAfter at a
	// boundary; equal to the document size at the end.
	BlockStart int
}

// Resolve computes the structural context for an absolute position.
func (d *Document) Resolve(pos int) (ResolvedPos, error) {
	if pos < 0 || pos > d.Size() {
		return ResolvedPos{}, ErrPosOutOfRange
	}

	start := 0
	for i, b := range d.blocks {
		end := start + b.NodeSize()
		if pos == start {
			rp := ResolvedPos{Pos: pos, Index: i, NodeAfter: b, BlockStart: start}
			if i > 0 {
				rp.NodeBefore = d.blocks[i-1]
			}
			return rp, nil
		}
		if pos < end {
			return ResolvedPos{Pos: pos, Index: i, Node: b, BlockStart: start}, nil
		}
		start = end
	}

	rp := ResolvedPos{Pos: pos, Index: len(d.blocks), BlockStart: start}
	if len(d.blocks) > 0 {
		rp.NodeBefore = d.blocks[len(d.blocks)-1]
	}
	return rp, nil
}

// AtBoundary returns true if the position sits between blocks rather than
// inside one.
func (rp ResolvedPos) AtBoundary() bool {
	return rp.Node == nil
}

// TextOffset returns the offset of pos into the containing block's text
// content. Valid only when Node is a text block; the opening boundary
// marker counts as offset -1 and is reported as 0.
func (rp ResolvedPos) TextOffset() int {
	if rp.Node == nil || !rp.Node.Type().Text {
		return 0
	}
	off := rp.Pos - rp.BlockStart - 1
	if off < 0 {
		off = 0
	}
	if off > len(rp.Node.TextContent()) {
		off = len(rp.Node.TextContent())
	}
	return off
}
