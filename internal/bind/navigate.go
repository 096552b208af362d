package bind

import (
	"inlay/internal/doc"
	"inlay/internal/editor"
)

// HandleArrow decides whether a directional command issued inside the
// session escapes to the host. It reports true when the command was
// consumed by an escape attempt and false when the caller should forward
// the command to the session as ordinary movement.
//
// Escape requires an empty selection on the boundary row for the
// direction, and for character movement additionally a boundary column.
func (b *Binding) HandleArrow(unit editor.Unit, dir int) bool {
	sel := b.session.Selection()
	if !sel.IsEmpty() {
		return false
	}

	head := sel.Head
	if dir < 0 && head.Row != 0 {
		return false
	}
	if dir > 0 && head.Row != b.session.RowCount()-1 {
		return false
	}
	if unit == editor.UnitChar {
		if dir < 0 && head.Column != 0 {
			return false
		}
		if dir > 0 && head.Column != b.session.LineLength(head.Row) {
			return false
		}
	}

	b.escape(dir)
	return true
}

// escape transfers selection and focus to the host on the given side of
// the node. A node-level selectable neighbor is selected as a node;
// otherwise the nearest valid text position biased by direction is used.
// When neither resolves the escape is a silent no-op: focus has moved to
// the host but selection stays put.
func (b *Binding) escape(dir int) {
	defer b.enter(StateEscaping)()
	b.host.Focus()

	pos := b.getPos()
	target := pos
	if dir >= 0 {
		target = pos + b.node.NodeSize()
	}

	d := b.host.Doc()
	sel := b.adjacentSelection(d, target, dir)
	if sel == nil {
		return
	}

	tr := d.Tr()
	tr.SetSelection(sel)
	tr.ScrollIntoView()
	if err := b.host.Dispatch(tr); err != nil {
		b.log.Errorf("binding %s: escape dispatch failed: %s", b.id, err)
		return
	}
	b.host.Focus()
}

// adjacentSelection resolves what an escape at target should select:
// the neighboring node when its type is node-level selectable, else the
// nearest valid text position biased by dir, else nothing.
func (b *Binding) adjacentSelection(d *doc.Document, target, dir int) doc.Selection {
	rp, err := d.Resolve(target)
	if err != nil {
		return nil
	}

	if dir < 0 && rp.NodeBefore != nil && rp.NodeBefore.Type().SelectableAsNode {
		ns, err := doc.NewNodeSelection(d, target-rp.NodeBefore.NodeSize())
		if err == nil {
			return ns
		}
	}
	if dir >= 0 && rp.NodeAfter != nil && rp.NodeAfter.Type().SelectableAsNode {
		ns, err := doc.NewNodeSelection(d, target)
		if err == nil {
			return ns
		}
	}
	return doc.SelectionNear(d, target, dir)
}

// HandleBackspace decides whether delete-backward removes the bound node.
// On an empty node a pending input rule is undone if the host has one,
// otherwise the whole node is deleted and the host selection lands
// immediately before its former position. It reports true when consumed
// at the host level and false when the caller should forward the command
// to the session.
func (b *Binding) HandleBackspace() bool {
	if b.session.Value() != "" {
		return false
	}
	if b.host.UndoInputRule() {
		return true
	}

	pos := b.getPos()
	tr := b.host.Doc().Tr()
	if err := tr.ReplaceRange(pos, pos+b.node.NodeSize(), ""); err != nil {
		b.log.Errorf("binding %s: node delete failed: %s", b.id, err)
		return true
	}
	tr.SelectNear(pos, -1)
	if err := b.host.Dispatch(tr); err != nil {
		b.log.Errorf("binding %s: node delete dispatch failed: %s", b.id, err)
		return true
	}
	b.host.Focus()
	return true
}
