package doc

// Transaction accumulates edits against a snapshot of a document. Edits
// apply eagerly to a draft block list; nothing is visible to the document
// until Apply commits the draft. A transaction built against a document
// that has since changed is rejected as stale.
type Transaction struct {
	doc         *Document
	baseVersion uint64
	blocks      []*Node
	sel         Selection
	scroll      bool
	dirty       bool
}

// Tr starts a transaction against the document's current state.
func (d *Document) Tr() *Transaction {
	blocks := make([]*Node, len(d.blocks))
	copy(blocks, d.blocks)
	return &Transaction{
		doc:         d,
		baseVersion: d.version,
		blocks:      blocks,
	}
}

// size returns the total size of the draft block list.
func (t *Transaction) size() int {
	n := 0
	for _, b := range t.blocks {
		n += b.NodeSize()
	}
	return n
}

// DocChanged returns true if the transaction edits the block list.
func (t *Transaction) DocChanged() bool {
	return t.dirty
}

// Selection returns the pending selection, or nil if the transaction does
// not change it.
func (t *Transaction) Selection() Selection {
	return t.sel
}

// ScrollIntoView requests that the host scroll the selection into view
// after the transaction commits.
func (t *Transaction) ScrollIntoView() {
	t.scroll = true
}

// ScrollRequested returns true if ScrollIntoView was called.
func (t *Transaction) ScrollRequested() bool {
	return t.scroll
}

// ReplaceRange replaces [from, to) with text. Two shapes are supported:
// a span within a single block's content, and whole-block deletion when
// text is empty and the range covers complete blocks exactly.
func (t *Transaction) ReplaceRange(from, to int, text string) error {
	if from < 0 || to > t.size() {
		return ErrPosOutOfRange
	}
	if from > to {
		return ErrRangeInvalid
	}

	start := 0
	for i, b := range t.blocks {
		size := b.NodeSize()
		end := start + size

		if b.Type().Text && from >= start+1 && to <= end-1 {
			content := b.TextContent()
			local := content[:from-start-1] + text + content[to-start-1:]
			t.blocks[i] = b.WithText(local)
			t.dirty = true
			return nil
		}

		if from == start && text == "" {
			// Whole-block deletion: to must land exactly on a block end.
			cut := start
			for j := i; j < len(t.blocks); j++ {
				cut += t.blocks[j].NodeSize()
				if cut == to {
					t.blocks = append(t.blocks[:i], t.blocks[j+1:]...)
					t.dirty = true
					return nil
				}
				if cut > to {
					break
				}
			}
			return ErrRangeInvalid
		}

		if from < end {
			break
		}
		start = end
	}
	return ErrRangeInvalid
}

// InsertBlock inserts a block at pos, which must fall on a block boundary.
func (t *Transaction) InsertBlock(pos int, n *Node) error {
	if pos < 0 || pos > t.size() {
		return ErrPosOutOfRange
	}
	start := 0
	for i, b := range t.blocks {
		if pos == start {
			t.blocks = append(t.blocks[:i], append([]*Node{n}, t.blocks[i:]...)...)
			t.dirty = true
			return nil
		}
		start += b.NodeSize()
	}
	if pos == start {
		t.blocks = append(t.blocks, n)
		t.dirty = true
		return nil
	}
	return ErrRangeInvalid
}

// ReplaceBlockAt swaps the block starting at pos for n.
func (t *Transaction) ReplaceBlockAt(pos int, n *Node) error {
	if pos < 0 || pos > t.size() {
		return ErrPosOutOfRange
	}
	start := 0
	for i, b := range t.blocks {
		if pos == start {
			t.blocks[i] = n
			t.dirty = true
			return nil
		}
		start += b.NodeSize()
	}
	return ErrRangeInvalid
}

// SetSelection records the selection to install when the transaction
// commits.
func (t *Transaction) SetSelection(sel Selection) {
	t.sel = sel
}

// SelectNear places a caret at the nearest valid text position to pos in
// the draft, preferring the direction of bias and falling back to the
// opposite direction. The selection is left unchanged when the draft has
// no text position at all.
func (t *Transaction) SelectNear(pos, bias int) {
	draft := &Document{blocks: t.blocks}
	sel := SelectionNear(draft, pos, bias)
	if sel == nil {
		sel = SelectionNear(draft, pos, -bias)
	}
	if sel != nil {
		t.sel = sel
	}
}

// Apply commits the transaction. It fails with ErrStaleDoc when the
// document has moved past the transaction's base version.
func (d *Document) Apply(t *Transaction) error {
	if t.doc != d || t.baseVersion != d.version {
		return ErrStaleDoc
	}
	d.blocks = t.blocks
	if t.dirty {
		d.version++
	}

	if t.sel != nil {
		d.sel = clampSelection(d, t.sel)
		return nil
	}
	if d.sel == nil || d.sel.To() > d.Size() {
		if near := SelectionNear(d, d.Size(), -1); near != nil {
			d.sel = near
		} else {
			d.sel = CaretAt(0)
		}
	}
	return nil
}

// clampSelection bounds a selection to the document. Node selections whose
// block no longer exists degrade to a nearby caret.
func clampSelection(d *Document, sel Selection) Selection {
	size := d.Size()
	switch s := sel.(type) {
	case TextSelection:
		if s.Anchor < 0 {
			s.Anchor = 0
		}
		if s.Head < 0 {
			s.Head = 0
		}
		if s.Anchor > size {
			s.Anchor = size
		}
		if s.Head > size {
			s.Head = size
		}
		return s
	case NodeSelection:
		if ns, err := NewNodeSelection(d, s.Pos); err == nil {
			return ns
		}
		if near := SelectionNear(d, s.Pos, -1); near != nil {
			return near
		}
		return CaretAt(0)
	default:
		return sel
	}
}
