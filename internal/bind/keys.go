package bind

import (
	"fmt"

	"inlay/internal/chunk"
	"inlay/internal/editor"
	"inlay/internal/keys"
)

// keySpecs builds the binding's declarative chord table: the built-in
// defaults, then the optional affordances that have callbacks, then the
// caller's overrides. Later entries win chord collisions.
func (b *Binding) keySpecs() []keys.Spec {
	specs := []keys.Spec{
		{Action: "nav.left", Chord: "Left"},
		{Action: "nav.right", Chord: "Right"},
		{Action: "nav.up", Chord: "Up"},
		{Action: "nav.down", Chord: "Down"},
		{Action: "nav.backspace", Chord: "Backspace"},
		{Action: "host.undo", Chord: "Mod-z"},
		{Action: "host.redo", Chord: "Shift-Mod-z", Extra: "Mod-y"},
		{Action: "host.select-all", Chord: "Mod-a"},
		{Action: "host.insert-paragraph", Chord: "Mod-Shift-Enter"},
		{Action: "code.exit", Chord: "Shift-Enter"},
	}
	if b.opts.EditAttrs != nil {
		specs = append(specs, keys.Spec{Action: "attrs.edit", Chord: "Mod-e"})
	}
	if b.opts.Execute != nil {
		specs = append(specs,
			keys.Spec{Action: "chunk.run", Chord: "Mod-Enter"},
			keys.Spec{Action: "chunk.run-previous", Chord: "Mod-Alt-p"},
		)
	}
	return append(specs, b.opts.Keymap...)
}

// actions maps action names to their commands. A command returning false
// falls through to the session's default key handling.
func (b *Binding) actions() map[string]editor.Command {
	return map[string]editor.Command{
		"nav.left":              func() bool { return b.HandleArrow(editor.UnitChar, -1) },
		"nav.right":             func() bool { return b.HandleArrow(editor.UnitChar, 1) },
		"nav.up":                func() bool { return b.HandleArrow(editor.UnitLine, -1) },
		"nav.down":              func() bool { return b.HandleArrow(editor.UnitLine, 1) },
		"nav.backspace":         b.HandleBackspace,
		"host.undo":             b.host.Undo,
		"host.redo":             b.host.Redo,
		"host.select-all":       b.host.SelectAll,
		"host.insert-paragraph": b.insertParagraphAfter,
		"code.exit":             b.host.ExitCode,
		"attrs.edit":            b.editAttrs,
		"chunk.run":             b.runChunk,
		"chunk.run-previous":    b.runPreceding,
	}
}

// registerKeys resolves the spec table for the platform and installs the
// resulting chord commands on the session. Overrides naming an unknown
// action are skipped with a warning rather than failing the binding.
func (b *Binding) registerKeys(goos string) error {
	table, err := keys.ResolveTable(b.keySpecs(), goos)
	if err != nil {
		return fmt.Errorf("resolving key table: %w", err)
	}

	actions := b.actions()
	cmds := make(map[keys.Chord]editor.Command, len(table))
	for chord, action := range table {
		fn, ok := actions[action]
		if !ok {
			b.log.Warningf("binding %s: no action %q for chord %s", b.id, action, chord)
			continue
		}
		cmds[chord] = fn
	}
	b.session.RegisterCommands(cmds)
	return nil
}

// runChunk extracts the session content as a chunk and hands it to the
// execute callback. Inert unless the run affordance is currently offered.
func (b *Binding) runChunk() bool {
	if b.opts.Execute == nil || !b.runnable {
		return false
	}
	c := chunk.Extract(b.session.Value())
	if c.Language == "" {
		c.Language = b.mode
	}
	return b.opts.Execute(c)
}

// runPreceding merges every runnable chunk before this node in document
// order and hands the result to the execute callback.
func (b *Binding) runPreceding() bool {
	if b.opts.Execute == nil {
		return false
	}
	merged := chunk.MergePreceding(b.host.Doc(), b.getPos(), b.matcher)
	if merged.IsEmpty() {
		return false
	}
	return b.opts.Execute(merged)
}

// editAttrs invokes the attribute-edit callback when one is configured.
func (b *Binding) editAttrs() bool {
	if b.opts.EditAttrs == nil {
		return false
	}
	return b.opts.EditAttrs(b)
}

// insertParagraphAfter asks the host for a new paragraph just after the
// bound node.
func (b *Binding) insertParagraphAfter() bool {
	return b.host.InsertParagraphAt(b.getPos() + b.node.NodeSize())
}
