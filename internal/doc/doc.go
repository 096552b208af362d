// Package doc implements the host structured document: a flat sequence of
// block nodes with absolute-offset addressing, ordered text and node-level
// selections, and atomic transactions.
//
// Addressing follows the boundary-marker convention: a text-bearing block of
// length n occupies n+2 units (one marker each side of the content), so the
// content of a block starting at position p begins at p+1. Leaf blocks
// occupy a single unit. The document's own boundaries carry no markers; the
// first block starts at position 0.
//
// Nodes are immutable per version: every mutation replaces the affected
// block with a fresh instance, and the document version increases once per
// committed transaction that changes the block list.
package doc

import "errors"

// Errors returned by document operations.
var (
	ErrPosOutOfRange = errors.New("position out of range")
	ErrRangeInvalid  = errors.New("invalid range")
	ErrStaleDoc      = errors.New("transaction built against an older document version")
	ErrNotSelectable = errors.New("node type is not selectable as a node")
)

// Document is a flat list of block nodes plus the current selection.
type Document struct {
	blocks  []*Node
	sel     Selection
	version uint64
}

// New creates a document from the given blocks. The initial selection is the
// nearest valid text position from the start, or nil if the document has no
// text-bearing blocks.
func New(blocks ...*Node) *Document {
	d := &Document{blocks: append([]*Node(nil), blocks...)}
	d.sel = SelectionNear(d, 0, 1)
	return d
}

// BlockCount returns the number of top-level blocks.
func (d *Document) BlockCount() int {
	return len(d.blocks)
}

// Block returns the block at the given index.
func (d *Document) Block(i int) *Node {
	return d.blocks[i]
}

// Blocks returns a copy of the block list.
func (d *Document) Blocks() []*Node {
	return append([]*Node(nil), d.blocks...)
}

// Size returns the total document size in position units.
func (d *Document) Size() int {
	size := 0
	for _, b := range d.blocks {
		size += b.NodeSize()
	}
	return size
}

// Version returns the current document version. Each committed transaction
// that changes the block list increases it by one.
func (d *Document) Version() uint64 {
	return d.version
}

// Selection returns the current selection, or nil if the document has none.
func (d *Document) Selection() Selection {
	return d.sel
}

// BlockStart returns the absolute position at which block i starts.
func (d *Document) BlockStart(i int) int {
	pos := 0
	for j := 0; j < i && j < len(d.blocks); j++ {
		pos += d.blocks[j].NodeSize()
	}
	return pos
}

// NodePos locates a block by identity and returns its start position.
// Returns false if the node instance is not part of this document version.
func (d *Document) NodePos(n *Node) (int, bool) {
	pos := 0
	for _, b := range d.blocks {
		if b == n {
			return pos, true
		}
		pos += b.NodeSize()
	}
	return 0, false
}

// BlockAt returns the index of the block whose span contains pos, treating
// each block's span as the half-open range [start, start+size). Returns
// len(blocks) when pos equals the document size.
func (d *Document) BlockAt(pos int) (int, error) {
	if pos < 0 || pos > d.Size() {
		return 0, ErrPosOutOfRange
	}
	start := 0
	for i, b := range d.blocks {
		end := start + b.NodeSize()
		if pos < end {
			return i, nil
		}
		start = end
	}
	return len(d.blocks), nil
}

// TextBetween returns the text content covered by [from, to), with block
// boundaries rendered as newlines. Used for clipboard-style extraction and
// debugging rather than patching.
func (d *Document) TextBetween(from, to int) string {
	if from > to {
		from, to = to, from
	}
	out := make([]byte, 0, to-from)
	start := 0
	for _, b := range d.blocks {
		end := start + b.NodeSize()
		if b.Type().Text && to > start+1 && from < end-1 {
			lo := from - start - 1
			hi := to - start - 1
			text := b.TextContent()
			if lo < 0 {
				lo = 0
			}
			if hi > len(text) {
				hi = len(text)
			}
			if len(out) > 0 {
				out = append(out, '\n')
			}
			out = append(out, text[lo:hi]...)
		}
		start = end
	}
	return string(out)
}
