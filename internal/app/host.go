package app

import (
	"os"

	"inlay/internal/bind"
	"inlay/internal/doc"
)

// App is the bind.Host for every view it owns.
var _ bind.Host = (*App)(nil)

// Doc returns the current host document.
func (app *App) Doc() *doc.Document {
	return app.d
}

// Dispatch commits a transaction, records undo history for document
// changes, realigns views and forwards the resulting selection into the
// view containing it. Every mutation of the host document funnels through
// here, whether it came from a binding or from host-side editing.
func (app *App) Dispatch(tr *doc.Transaction) error {
	before := snapshotOf(app.d)
	changed := tr.DocChanged()
	if err := app.d.Apply(tr); err != nil {
		return err
	}
	if changed {
		app.history.push(before)
		app.inputRule = nil
		app.reconcile()
	}
	app.routeSelection()
	return nil
}

// Focus moves input focus to the host surface by blurring every focused
// session. The document selection is left alone.
func (app *App) Focus() {
	for _, v := range app.views {
		if v.binding.Active() {
			v.binding.Session().Blur()
		}
	}
}

// Undo restores the document state before the last committed change.
func (app *App) Undo() bool {
	s, ok := app.history.undo(snapshotOf(app.d))
	if !ok {
		return false
	}
	app.restore(s)
	app.status = "undo"
	return true
}

// Redo reverses the last undo.
func (app *App) Redo() bool {
	s, ok := app.history.redo(snapshotOf(app.d))
	if !ok {
		return false
	}
	app.restore(s)
	app.status = "redo"
	return true
}

// restore replaces the document with a snapshot, outside the undo
// bookkeeping. Focus follows the restored selection.
func (app *App) restore(s snapshot) {
	app.d = doc.New(s.blocks...)
	if s.sel != nil {
		tr := app.d.Tr()
		tr.SetSelection(s.sel)
		if err := app.d.Apply(tr); err != nil {
			app.log.Errorf("restoring selection: %s", err)
		}
	}
	app.inputRule = nil
	app.Focus()
	app.reconcile()
	app.routeSelection()
}

// SelectAll selects the document's full text span and pulls focus to the
// host so the selection is operable.
func (app *App) SelectAll() bool {
	first := doc.SelectionNear(app.d, 0, 1)
	last := doc.SelectionNear(app.d, app.d.Size(), -1)
	if first == nil || last == nil {
		return false
	}
	tr := app.d.Tr()
	tr.SetSelection(doc.NewTextSelection(first.From(), last.To()))
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("select all: %s", err)
		return false
	}
	app.Focus()
	app.status = "selected all"
	return true
}

// ExitCode moves the caret just past the focused code block, inserting a
// trailing paragraph when the block ends the document.
func (app *App) ExitCode() bool {
	v := app.activeView()
	if v == nil {
		return false
	}
	end := app.d.BlockStart(v.index) + app.d.Block(v.index).NodeSize()
	app.Focus()

	if v.index == app.d.BlockCount()-1 {
		return app.InsertParagraphAt(end)
	}

	sel := doc.SelectionNear(app.d, end, 1)
	if sel == nil {
		return false
	}
	tr := app.d.Tr()
	tr.SetSelection(sel)
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("exiting code block: %s", err)
		return false
	}
	return true
}

// InsertParagraphAt inserts an empty paragraph at a block boundary and
// places the caret inside it, with focus on the host.
func (app *App) InsertParagraphAt(pos int) bool {
	tr := app.d.Tr()
	if err := tr.InsertBlock(pos, doc.NewNode(Paragraph, "", nil)); err != nil {
		app.log.Warningf("inserting paragraph at %d: %s", pos, err)
		return false
	}
	tr.SetSelection(doc.CaretAt(pos + 1))
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("inserting paragraph: %s", err)
		return false
	}
	app.Focus()
	return true
}

// save writes the document back to its path in fenced-text form.
func (app *App) save() bool {
	if app.path == "" {
		app.status = "no document path to save to"
		return true
	}
	if err := os.WriteFile(app.path, []byte(SerializeDocument(app.d)), 0o644); err != nil {
		app.status = "save failed: " + err.Error()
		app.log.Errorf("saving %s: %s", app.path, err)
		return true
	}
	app.status = "saved " + app.path
	return true
}
