package bind

import (
	"inlay/internal/chunk"
	"inlay/internal/classify"
	"inlay/internal/keys"
)

// Options is the per-node-type configuration bundle for a Binding.
// Optional callbacks that are left nil simply do not register their
// affordance; absence is never an error.
type Options struct {
	// Language classifies the bound node into a mode tag from its
	// attributes and text. Defaults to the fence-header classifier.
	Language classify.Func

	// EditAttrs, when set, is bound to the attribute-edit chord and
	// invoked with the binding whose node attributes should be edited.
	EditAttrs func(*Binding) bool

	// Execute, when set, receives runnable chunks from the run actions.
	// The run affordance is only offered when Execute is set and the
	// detected language matches Executable.
	Execute func(chunk.Chunk) bool

	// Executable lists languages the run affordance is offered for.
	// Matching ignores case and diacritics.
	Executable []string

	// Classes are style tags the surface applies to the embedded editor.
	Classes []string

	// Border is the border style tag for the embedded editor.
	Border string

	// Keymap appends chord overrides after the built-in key table; a
	// later spec wins its chord.
	Keymap []keys.Spec

	// OnRunnableChanged is notified whenever the run affordance
	// visibility flips.
	OnRunnableChanged func(runnable bool)
}
