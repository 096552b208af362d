package doc

import "fmt"

// Selection is a host document selection: either an ordered text range or a
// whole-node selection.
type Selection interface {
	// From returns the lower bound of the selected span.
	From() int

	// To returns the upper bound of the selected span.
	To() int

	// Eq reports whether two selections are identical, including direction
	// for text selections.
	Eq(other Selection) bool

	// String returns a human-readable representation.
	String() string
}

// TextSelection is an ordered pair of text positions. Anchor is where the
// selection started; Head is the moving end and may precede the anchor.
type TextSelection struct {
	Anchor int
	Head   int
}

// NewTextSelection creates a text selection from anchor to head.
func NewTextSelection(anchor, head int) TextSelection {
	return TextSelection{Anchor: anchor, Head: head}
}

// CaretAt creates an empty text selection at pos.
func CaretAt(pos int) TextSelection {
	return TextSelection{Anchor: pos, Head: pos}
}

// From returns the lower of anchor and head.
func (s TextSelection) From() int {
	if s.Head < s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// To returns the higher of anchor and head.
func (s TextSelection) To() int {
	if s.Head > s.Anchor {
		return s.Head
	}
	return s.Anchor
}

// IsCaret returns true if the selection has no extent.
func (s TextSelection) IsCaret() bool {
	return s.Anchor == s.Head
}

// IsBackward returns true if the head precedes the anchor.
func (s TextSelection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Eq reports whether the other selection is a text selection with the same
// anchor and head.
func (s TextSelection) Eq(other Selection) bool {
	o, ok := other.(TextSelection)
	return ok && o.Anchor == s.Anchor && o.Head == s.Head
}

// String returns a human-readable representation.
func (s TextSelection) String() string {
	if s.IsCaret() {
		return fmt.Sprintf("caret(%d)", s.Head)
	}
	return fmt.Sprintf("text(%d..%d)", s.Anchor, s.Head)
}

// NodeSelection selects one block as a unit.
type NodeSelection struct {
	// Pos is the start position of the selected block.
	Pos int

	node *Node
}

// NewNodeSelection creates a node selection for the block starting at pos.
// The block's type must declare SelectableAsNode.
func NewNodeSelection(d *Document, pos int) (NodeSelection, error) {
	rp, err := d.Resolve(pos)
	if err != nil {
		return NodeSelection{}, err
	}
	if rp.NodeAfter == nil || rp.BlockStart != pos {
		return NodeSelection{}, ErrPosOutOfRange
	}
	if !rp.NodeAfter.Type().SelectableAsNode {
		return NodeSelection{}, ErrNotSelectable
	}
	return NodeSelection{Pos: pos, node: rp.NodeAfter}, nil
}

// Node returns the selected block.
func (s NodeSelection) Node() *Node {
	return s.node
}

// From returns the block's start position.
func (s NodeSelection) From() int {
	return s.Pos
}

// To returns the position just after the block.
func (s NodeSelection) To() int {
	if s.node == nil {
		return s.Pos
	}
	return s.Pos + s.node.NodeSize()
}

// Eq reports whether the other selection selects the same block position.
func (s NodeSelection) Eq(other Selection) bool {
	o, ok := other.(NodeSelection)
	return ok && o.Pos == s.Pos
}

// String returns a human-readable representation.
func (s NodeSelection) String() string {
	if s.node == nil {
		return fmt.Sprintf("node(%d)", s.Pos)
	}
	return fmt.Sprintf("node(%d %s)", s.Pos, s.node.Type().Name)
}

// ValidTextPos returns true if pos is a valid caret position: inside a
// text block's content span, boundary markers excluded.
func (d *Document) ValidTextPos(pos int) bool {
	rp, err := d.Resolve(pos)
	if err != nil {
		return false
	}
	if rp.Node != nil {
		return rp.Node.Type().Text
	}
	return false
}

// SelectionNear finds a caret at the nearest valid text position to pos,
// scanning in the direction of bias (negative scans toward the document
// start). A position already inside a text block resolves to itself.
// Returns nil when no text block exists in the scanned direction; callers
// treat nil as "leave the selection unchanged".
func SelectionNear(d *Document, pos, bias int) Selection {
	if pos < 0 {
		pos = 0
	}
	if pos > d.Size() {
		pos = d.Size()
	}

	rp, err := d.Resolve(pos)
	if err != nil {
		return nil
	}
	if rp.Node != nil && rp.Node.Type().Text {
		return CaretAt(pos)
	}

	if bias >= 0 {
		start := rp.BlockStart
		for i := rp.Index; i < len(d.blocks); i++ {
			b := d.blocks[i]
			if b.Type().Text {
				return CaretAt(start + 1)
			}
			start += b.NodeSize()
		}
		return nil
	}

	end := rp.BlockStart
	for i := rp.Index - 1; i >= 0; i-- {
		b := d.blocks[i]
		if b.Type().Text {
			return CaretAt(end - 1)
		}
		end -= b.NodeSize()
	}
	return nil
}
