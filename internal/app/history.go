package app

import "inlay/internal/doc"

// historyLimit bounds how many document states undo keeps.
const historyLimit = 200

// snapshot is one undoable document state: the block list plus the
// selection that was current when it was live.
type snapshot struct {
	blocks []*doc.Node
	sel    doc.Selection
}

func snapshotOf(d *doc.Document) snapshot {
	return snapshot{blocks: d.Blocks(), sel: d.Selection()}
}

// history is a two-stack undo model over document snapshots. Dispatch
// pushes the pre-edit state; undo and redo trade the current state for a
// stacked one.
type history struct {
	past   []snapshot
	future []snapshot
}

func (h *history) push(s snapshot) {
	h.past = append(h.past, s)
	if len(h.past) > historyLimit {
		h.past = append(h.past[:0], h.past[len(h.past)-historyLimit:]...)
	}
	h.future = h.future[:0]
}

// undo trades cur for the most recent past state. Returns false when
// there is nothing to undo.
func (h *history) undo(cur snapshot) (snapshot, bool) {
	if len(h.past) == 0 {
		return snapshot{}, false
	}
	s := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, cur)
	return s, true
}

// redo trades cur for the most recently undone state. Returns false when
// there is nothing to redo.
func (h *history) redo(cur snapshot) (snapshot, bool) {
	if len(h.future) == 0 {
		return snapshot{}, false
	}
	s := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, cur)
	return s, true
}
