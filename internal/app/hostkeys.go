package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"inlay/internal/doc"
	"inlay/internal/keys"
)

// hostSpecs is the application-level key table. Chords here fire when the
// host surface has focus, and also when a session declines a chord and it
// bubbles out.
func hostSpecs() []keys.Spec {
	return []keys.Spec{
		{Action: "app.quit", Chord: "Ctrl-q"},
		{Action: "host.undo", Chord: "Mod-z"},
		{Action: "host.redo", Chord: "Shift-Mod-z", Extra: "Mod-y"},
		{Action: "host.select-all", Chord: "Mod-a"},
		{Action: "host.save", Chord: "Mod-s"},
		{Action: "host.escape", Chord: "Escape"},
		{Action: "chunk.next", Chord: "Tab"},
		{Action: "chunk.prev", Chord: "Shift-Tab"},
	}
}

// handleKey routes one key press. A focused session gets it first; chords
// it declines fall through to the host table. With the host focused, the
// host table runs first and anything unbound becomes a default edit.
func (app *App) handleKey(ev *tcell.EventKey) error {
	c, r := chordFromEvent(ev)
	if c == (keys.Chord{}) {
		return nil
	}
	if v := app.activeView(); v != nil {
		if v.binding.Session().HandleKey(c, r) {
			return nil
		}
		_, err := app.runHostChord(c)
		return err
	}
	consumed, err := app.runHostChord(c)
	if err != nil || consumed {
		return err
	}
	app.defaultHostKey(c, r)
	return nil
}

func (app *App) runHostChord(c keys.Chord) (bool, error) {
	name, ok := app.hostKeys[c]
	if !ok {
		return false, nil
	}
	return app.runHostAction(name)
}

func (app *App) runHostAction(name string) (bool, error) {
	switch name {
	case "app.quit":
		return true, ErrQuit
	case "host.undo":
		return app.Undo(), nil
	case "host.redo":
		return app.Redo(), nil
	case "host.select-all":
		return app.SelectAll(), nil
	case "host.save":
		return app.save(), nil
	case "host.escape":
		app.Focus()
		app.status = "host focused"
		return true, nil
	case "chunk.next":
		return app.focusChunk(1), nil
	case "chunk.prev":
		return app.focusChunk(-1), nil
	}
	app.log.Warningf("unknown host action %q", name)
	return false, nil
}

// defaultHostKey is the host surface's unbound-key behavior: caret motion,
// paragraph editing and plain typing. Keys landing while the caret sits
// inside a code block's span are routed into that block's session, which
// also returns focus to it.
func (app *App) defaultHostKey(c keys.Chord, r rune) {
	if c.Mods.Has(keys.ModCtrl) || c.Mods.Has(keys.ModAlt) || c.Mods.Has(keys.ModMeta) {
		return
	}
	switch c.Key {
	case keys.KeyLeft:
		app.stepCaret(-1)
	case keys.KeyRight:
		app.stepCaret(1)
	case keys.KeyUp:
		app.moveBlock(-1)
	case keys.KeyDown:
		app.moveBlock(1)
	case keys.KeyHome:
		app.caretToEdge(-1)
	case keys.KeyEnd:
		app.caretToEdge(1)
	case keys.KeyEnter:
		app.hostEnter()
	case keys.KeyBackspace:
		app.hostBackspace()
	case keys.KeyRune:
		if r != 0 {
			app.hostInsert(string(r))
		}
	}
}

// stepCaret moves the caret one character left or right. Crossing a block
// boundary onto a node-selectable neighbor selects it whole; otherwise the
// caret lands at the nearest text position beyond the boundary.
func (app *App) stepCaret(dir int) bool {
	switch s := app.d.Selection().(type) {
	case doc.NodeSelection:
		if dir < 0 {
			return app.dispatchSelection(app.nearOrNode(s.From(), dir))
		}
		return app.dispatchSelection(app.nearOrNode(s.To(), dir))
	case doc.TextSelection:
		if !s.IsCaret() {
			if dir < 0 {
				return app.dispatchSelection(doc.CaretAt(s.From()))
			}
			return app.dispatchSelection(doc.CaretAt(s.To()))
		}
		i, err := app.d.BlockAt(s.Head)
		if err != nil || i >= app.d.BlockCount() {
			return false
		}
		blk := app.d.Block(i)
		start := app.d.BlockStart(i)
		text := blk.TextContent()
		off := s.Head - start - 1
		if dir < 0 && off > 0 {
			_, w := utf8.DecodeLastRuneInString(text[:off])
			return app.dispatchSelection(doc.CaretAt(s.Head - w))
		}
		if dir > 0 && off >= 0 && off < len(text) {
			_, w := utf8.DecodeRuneInString(text[off:])
			return app.dispatchSelection(doc.CaretAt(s.Head + w))
		}
		if dir < 0 {
			return app.dispatchSelection(app.nearOrNode(start, dir))
		}
		return app.dispatchSelection(app.nearOrNode(start+blk.NodeSize(), dir))
	}
	return false
}

// nearOrNode resolves a boundary crossing: a leaf node-selectable
// neighbor in the travel direction becomes a node selection, while text
// blocks, code included, are entered at the facing edge so the caret
// flows through them.
func (app *App) nearOrNode(target, dir int) doc.Selection {
	rp, err := app.d.Resolve(target)
	if err != nil {
		return nil
	}
	if dir < 0 && rp.NodeBefore != nil && leafSelectable(rp.NodeBefore.Type()) {
		if ns, err := doc.NewNodeSelection(app.d, target-rp.NodeBefore.NodeSize()); err == nil {
			return ns
		}
	}
	if dir >= 0 && rp.NodeAfter != nil && leafSelectable(rp.NodeAfter.Type()) {
		if ns, err := doc.NewNodeSelection(app.d, target); err == nil {
			return ns
		}
	}
	return doc.SelectionNear(app.d, target, dir)
}

func leafSelectable(t *doc.NodeType) bool {
	return t.SelectableAsNode && !t.Text
}

// moveBlock moves the selection to the neighboring block: text blocks get
// a caret at the facing content edge, leaf blocks a node selection.
func (app *App) moveBlock(dir int) bool {
	i := app.selectionBlock()
	if i < 0 {
		return false
	}
	j := i + dir
	if j < 0 || j >= app.d.BlockCount() {
		return false
	}
	blk := app.d.Block(j)
	start := app.d.BlockStart(j)
	if !blk.Type().Text {
		if blk.Type().SelectableAsNode {
			if ns, err := doc.NewNodeSelection(app.d, start); err == nil {
				return app.dispatchSelection(ns)
			}
		}
		return false
	}
	if dir < 0 {
		return app.dispatchSelection(doc.SelectionNear(app.d, start+blk.NodeSize(), -1))
	}
	return app.dispatchSelection(doc.SelectionNear(app.d, start, 1))
}

// selectionBlock returns the block index holding the current selection.
func (app *App) selectionBlock() int {
	sel := app.d.Selection()
	if sel == nil {
		return -1
	}
	i, err := app.d.BlockAt(sel.From())
	if err != nil {
		return -1
	}
	if i >= app.d.BlockCount() {
		i = app.d.BlockCount() - 1
	}
	return i
}

// caretToEdge sends the caret to the containing block's content start or
// end.
func (app *App) caretToEdge(dir int) bool {
	s, ok := app.d.Selection().(doc.TextSelection)
	if !ok {
		return false
	}
	i, err := app.d.BlockAt(s.Head)
	if err != nil || i >= app.d.BlockCount() {
		return false
	}
	blk := app.d.Block(i)
	if !blk.Type().Text {
		return false
	}
	start := app.d.BlockStart(i)
	if dir < 0 {
		return app.dispatchSelection(doc.CaretAt(start + 1))
	}
	return app.dispatchSelection(doc.CaretAt(start + 1 + len(blk.TextContent())))
}

// dispatchSelection commits a selection-only transaction. A nil selection
// or one equal to the current selection is a no-op.
func (app *App) dispatchSelection(sel doc.Selection) bool {
	if sel == nil {
		return false
	}
	if cur := app.d.Selection(); cur != nil && cur.Eq(sel) {
		return true
	}
	tr := app.d.Tr()
	tr.SetSelection(sel)
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("selection dispatch: %s", err)
		return false
	}
	return true
}

// hostEnter: opening a selected code block, inserting after a leaf, a
// newline inside a code span, or a paragraph split.
func (app *App) hostEnter() {
	switch s := app.d.Selection().(type) {
	case doc.NodeSelection:
		if app.viewAtPos(s.From()) != nil {
			// Dispatching a caret into the block's span routes focus to
			// its session and keeps the host selection in step.
			app.dispatchSelection(doc.CaretAt(s.From() + 1))
			return
		}
		app.InsertParagraphAt(s.To())
	case doc.TextSelection:
		if v := app.viewContaining(s.Anchor, s.Head); v != nil {
			app.routeKeyIntoView(v, s, keys.Chord{Key: keys.KeyEnter}, 0)
			return
		}
		app.splitParagraph(s)
	}
}

// splitParagraph breaks the paragraph at the selection, dropping any
// selected text, and puts the caret at the start of the new paragraph.
func (app *App) splitParagraph(s doc.TextSelection) {
	i, err := app.d.BlockAt(s.From())
	if err != nil || i >= app.d.BlockCount() {
		return
	}
	blk := app.d.Block(i)
	if !blk.Type().Text || blk.Type().Code {
		return
	}
	start := app.d.BlockStart(i)
	text := blk.TextContent()
	from := s.From() - start - 1
	to := s.To() - start - 1
	if from < 0 || to > len(text) || from > to {
		return
	}
	head := text[:from]
	tail := text[to:]

	tr := app.d.Tr()
	if err := tr.ReplaceBlockAt(start, blk.WithText(head)); err != nil {
		app.log.Errorf("splitting paragraph: %s", err)
		return
	}
	if err := tr.InsertBlock(start+len(head)+2, doc.NewNode(blk.Type(), tail, blk.Attrs())); err != nil {
		app.log.Errorf("splitting paragraph: %s", err)
		return
	}
	tr.SetSelection(doc.CaretAt(start + len(head) + 2 + 1))
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("splitting paragraph: %s", err)
	}
}

// hostBackspace: deleting a selected node, delete-backward inside a code
// span, or paragraph editing including the merge at a paragraph start.
func (app *App) hostBackspace() {
	switch s := app.d.Selection().(type) {
	case doc.NodeSelection:
		app.deleteSelectedNode(s)
	case doc.TextSelection:
		if v := app.viewContaining(s.Anchor, s.Head); v != nil {
			app.routeKeyIntoView(v, s, keys.Chord{Key: keys.KeyBackspace}, 0)
			return
		}
		app.textBackspace(s)
	}
}

func (app *App) deleteSelectedNode(s doc.NodeSelection) {
	tr := app.d.Tr()
	if err := tr.ReplaceRange(s.From(), s.To(), ""); err != nil {
		app.log.Errorf("deleting selected block: %s", err)
		return
	}
	tr.SelectNear(s.From(), -1)
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("deleting selected block: %s", err)
		return
	}
	app.Focus()
	app.status = "block deleted"
}

func (app *App) textBackspace(s doc.TextSelection) {
	if !s.IsCaret() {
		app.replaceTextSelection(s, "")
		return
	}
	i, err := app.d.BlockAt(s.Head)
	if err != nil || i >= app.d.BlockCount() {
		return
	}
	blk := app.d.Block(i)
	start := app.d.BlockStart(i)
	off := s.Head - start - 1
	if off > 0 {
		_, w := utf8.DecodeLastRuneInString(blk.TextContent()[:off])
		app.replaceTextSelection(doc.NewTextSelection(s.Head-w, s.Head), "")
		return
	}
	if i == 0 {
		return
	}

	prev := app.d.Block(i - 1)
	prevStart := app.d.BlockStart(i - 1)
	if prev.Type().Text && !prev.Type().Code {
		app.mergeWithPrevious(i, prevStart, prev, blk)
		return
	}
	// Backspace against a non-joinable block selects it whole; the next
	// backspace deletes it. Focus returns to the host so the selection
	// stays operable.
	if prev.Type().SelectableAsNode {
		if ns, err := doc.NewNodeSelection(app.d, prevStart); err == nil {
			if app.dispatchSelection(ns) {
				app.Focus()
			}
		}
	}
}

// mergeWithPrevious joins block i onto the text block before it, caret at
// the join point.
func (app *App) mergeWithPrevious(i, prevStart int, prev, blk *doc.Node) {
	merged := prev.WithText(prev.TextContent() + blk.TextContent())
	runStart := prevStart + merged.NodeSize()

	tr := app.d.Tr()
	if err := tr.ReplaceBlockAt(prevStart, merged); err != nil {
		app.log.Errorf("merging block %d: %s", i, err)
		return
	}
	if err := tr.ReplaceRange(runStart, runStart+blk.NodeSize(), ""); err != nil {
		app.log.Errorf("merging block %d: %s", i, err)
		return
	}
	tr.SetSelection(doc.CaretAt(prevStart + 1 + len(prev.TextContent())))
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("merging block %d: %s", i, err)
	}
}

// hostInsert types text at the host selection. Typing over a selected
// node replaces it with a paragraph. After the edit the fence input rule
// gets a chance to run.
func (app *App) hostInsert(text string) {
	switch s := app.d.Selection().(type) {
	case doc.NodeSelection:
		start := s.From()
		tr := app.d.Tr()
		if err := tr.ReplaceBlockAt(start, doc.NewNode(Paragraph, text, nil)); err != nil {
			app.log.Errorf("replacing selected block: %s", err)
			return
		}
		tr.SetSelection(doc.CaretAt(start + 1 + len(text)))
		tr.ScrollIntoView()
		if err := app.Dispatch(tr); err != nil {
			app.log.Errorf("replacing selected block: %s", err)
			return
		}
		app.Focus()
	case doc.TextSelection:
		if v := app.viewContaining(s.Anchor, s.Head); v != nil {
			r, _ := utf8.DecodeRuneInString(text)
			app.routeKeyIntoView(v, s, keys.RuneChord(r, keys.ModNone), r)
			return
		}
		if app.replaceTextSelection(s, text) {
			app.maybeApplyInputRule()
		}
	}
}

// replaceTextSelection replaces a text selection with text and leaves the
// caret after it. A range spanning several blocks collapses them into the
// first, keeping the text outside the range.
func (app *App) replaceTextSelection(s doc.TextSelection, text string) bool {
	from, to := s.From(), s.To()
	i, err := app.d.BlockAt(from)
	if err != nil || i >= app.d.BlockCount() {
		return false
	}
	j, err := app.d.BlockAt(to)
	if err != nil {
		return false
	}
	if j >= app.d.BlockCount() {
		j = app.d.BlockCount() - 1
	}

	if i == j {
		tr := app.d.Tr()
		if err := tr.ReplaceRange(from, to, text); err != nil {
			app.log.Warningf("replacing %d..%d: %s", from, to, err)
			return false
		}
		tr.SetSelection(doc.CaretAt(from + len(text)))
		tr.ScrollIntoView()
		if err := app.Dispatch(tr); err != nil {
			app.log.Errorf("replacing %d..%d: %s", from, to, err)
			return false
		}
		return true
	}

	first, last := app.d.Block(i), app.d.Block(j)
	if !first.Type().Text || !last.Type().Text {
		return false
	}
	startI := app.d.BlockStart(i)
	startJ := app.d.BlockStart(j)
	head := first.TextContent()[:clampOffset(from-startI-1, len(first.TextContent()))]
	tail := last.TextContent()[clampOffset(to-startJ-1, len(last.TextContent())):]
	merged := first.WithText(head + text + tail)

	runStart := startI + merged.NodeSize()
	runEnd := runStart
	for k := i + 1; k <= j; k++ {
		runEnd += app.d.Block(k).NodeSize()
	}

	tr := app.d.Tr()
	if err := tr.ReplaceBlockAt(startI, merged); err != nil {
		app.log.Errorf("replacing %d..%d: %s", from, to, err)
		return false
	}
	if err := tr.ReplaceRange(runStart, runEnd, ""); err != nil {
		app.log.Errorf("replacing %d..%d: %s", from, to, err)
		return false
	}
	tr.SetSelection(doc.CaretAt(startI + 1 + len(head) + len(text)))
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("replacing %d..%d: %s", from, to, err)
		return false
	}
	return true
}

func clampOffset(off, max int) int {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}

// routeKeyIntoView hands a key to the session whose span holds the
// selection. Setting the binding selection first restores the session's
// focus and caret, so the key lands where the document says it should.
func (app *App) routeKeyIntoView(v *nodeView, s doc.TextSelection, c keys.Chord, r rune) {
	v.binding.SetSelection(s.Anchor, s.Head)
	v.binding.Session().HandleKey(c, r)
}

// focusChunk moves editing focus to the next or previous code block,
// wrapping around the document.
func (app *App) focusChunk(dir int) bool {
	if len(app.views) == 0 {
		return false
	}
	i := app.selectionBlock()
	var target *nodeView
	if dir > 0 {
		for _, v := range app.views {
			if v.index > i {
				target = v
				break
			}
		}
		if target == nil {
			target = app.views[0]
		}
	} else {
		for k := len(app.views) - 1; k >= 0; k-- {
			if app.views[k].index < i {
				target = app.views[k]
				break
			}
		}
		if target == nil {
			target = app.views[len(app.views)-1]
		}
	}
	pos := app.d.BlockStart(target.index) + 1
	if !app.dispatchSelection(doc.CaretAt(pos)) {
		return false
	}
	if app.activeView() != target {
		// The selection already sat at the target; route focus directly.
		target.binding.SetSelection(pos, pos)
	}
	mode := target.binding.Mode()
	if mode == "" {
		mode = "code"
	}
	app.status = fmt.Sprintf("editing %s block", mode)
	return true
}
