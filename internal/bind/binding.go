// Package bind keeps one embedded editor session and one host document
// node mutually consistent. A Binding owns the session, watches it
// through cancelable subscriptions, mirrors edits in both directions as
// minimal patches, forwards selections, and decides when boundary
// keystrokes escape to the host. A guard state machine prevents each
// direction's apply from re-triggering the other.
package bind

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"inlay/internal/classify"
	"inlay/internal/doc"
	"inlay/internal/editor"
	"inlay/internal/textdiff"
	"inlay/internal/textpos"
)

// Host is the structured-document side of a binding. Implementations own
// the document, commit transactions against it, and carry the host-level
// commands the embedded editor's chords invoke.
type Host interface {
	// Doc returns the current document.
	Doc() *doc.Document

	// Dispatch commits a transaction. It is the only way binding code
	// mutates host state.
	Dispatch(tr *doc.Transaction) error

	// Focus moves input focus to the host surface.
	Focus()

	// UndoInputRule reverts a just-applied input rule transformation,
	// reporting whether one was pending.
	UndoInputRule() bool

	// Host-level commands invoked by chords registered on the session.
	// Each reports whether it ran.
	Undo() bool
	Redo() bool
	SelectAll() bool
	ExitCode() bool
	InsertParagraphAt(pos int) bool
}

// Binding pairs one host node with one editor session and mediates all
// synchronization between them. It is not internally locked; all calls
// must come from the host's single event loop.
type Binding struct {
	id      string
	node    *doc.Node
	getPos  func() int
	host    Host
	session *editor.Session
	opts    Options

	state    State
	mode     string
	runnable bool
	active   bool

	classifier classify.Func
	matcher    *classify.Matcher
	subs       []editor.Subscription
	log        commonlog.Logger
}

// New binds node to a fresh editor session seeded with the node's text.
// getPos resolves the node's current start position in the host document
// and is consulted on every use, never cached. The returned binding has
// its four session listeners registered and its key table installed.
func New(node *doc.Node, getPos func() int, host Host, opts Options) (*Binding, error) {
	b := &Binding{
		id:         uuid.NewString(),
		node:       node,
		getPos:     getPos,
		host:       host,
		opts:       opts,
		state:      StateIdle,
		classifier: opts.Language,
		matcher:    classify.NewMatcher(opts.Executable),
		log:        commonlog.GetLogger("inlay.bind"),
	}
	if b.classifier == nil {
		b.classifier = classify.Fence()
	}

	b.session = editor.NewSession(editor.WithValue(node.TextContent()))
	b.subs = []editor.Subscription{
		b.session.OnChange(b.handleContentChange),
		b.session.OnSelectionChange(b.handleSelectionChange),
		b.session.OnFocus(b.handleFocus),
		b.session.OnBlur(b.handleBlur),
	}

	if err := b.registerKeys(runtime.GOOS); err != nil {
		b.Close()
		return nil, err
	}

	b.refreshMode()
	return b, nil
}

// ID returns the binding's stable identity.
func (b *Binding) ID() string { return b.id }

// Node returns the currently bound host node.
func (b *Binding) Node() *doc.Node { return b.node }

// Session returns the embedded editor session.
func (b *Binding) Session() *editor.Session { return b.session }

// State returns the current guard state.
func (b *Binding) State() State { return b.state }

// Mode returns the detected language tag.
func (b *Binding) Mode() string { return b.mode }

// Runnable reports whether the run affordance is currently offered.
func (b *Binding) Runnable() bool { return b.runnable }

// Active reports whether the session holds input focus.
func (b *Binding) Active() bool { return b.active }

// Pos resolves the node's current start position in the host document.
func (b *Binding) Pos() int { return b.getPos() }

// Border returns the configured border style tag.
func (b *Binding) Border() string { return b.opts.Border }

// Classes returns the configured style classes.
func (b *Binding) Classes() []string { return b.opts.Classes }

// Close cancels the binding's session subscriptions. After Close the
// session no longer feeds the host.
func (b *Binding) Close() {
	for _, sub := range b.subs {
		sub.Cancel()
	}
	b.subs = nil
}

// Update absorbs a host-side replacement of the bound node. A node of a
// different type cannot be absorbed; Update returns false and the host
// discards and recreates the binding. Otherwise the node reference is
// replaced, the mode recomputed, and any text difference patched into the
// session under the sync guard.
func (b *Binding) Update(newNode *doc.Node) bool {
	if !newNode.SameType(b.node) {
		return false
	}
	b.node = newNode
	b.refreshMode()

	value := b.session.Value()
	change := textdiff.Compute(value, newNode.TextContent())
	if change == nil {
		return true
	}

	defer b.enter(StateSyncing)()
	b.session.ReplaceRange(
		textpos.PointOf(value, change.From),
		textpos.PointOf(value, change.To),
		change.Text,
	)
	return true
}

// SetSelection places a host-driven selection, given in host absolute
// offsets, inside the session. The session is focused first so the
// selection is visible; the sync guard covers the focus call too, so the
// focus listener cannot bounce the session's stale caret back at the
// host. During an escape the call is ignored entirely, since the binding
// is in the middle of giving focus away.
func (b *Binding) SetSelection(anchor, head int) {
	if b.state == StateEscaping {
		return
	}
	defer b.enter(StateSyncing)()
	b.session.Focus()

	value := b.session.Value()
	pos := b.getPos()
	b.session.SetSelection(
		textpos.PointOf(value, textpos.LocalOffset(pos, anchor)),
		textpos.PointOf(value, textpos.LocalOffset(pos, head)),
	)
}

// SelectNode handles a host-level node selection of the bound node.
// Selecting the embedded region as a whole is represented by focusing it,
// under the sync guard so the host's node selection survives the focus
// listener.
func (b *Binding) SelectNode() {
	defer b.enter(StateSyncing)()
	b.session.Focus()
}

// handleContentChange mirrors a session edit into the host document. The
// diff runs node text against session text, so the patch addresses the
// node's previous content; the session selection is forwarded in the same
// transaction. This is the only path by which keystrokes inside the
// session reach the host.
func (b *Binding) handleContentChange() {
	if b.state != StateIdle {
		return
	}
	change := textdiff.Compute(b.node.TextContent(), b.session.Value())
	if change == nil {
		return
	}

	pos := b.getPos()
	tr := b.host.Doc().Tr()
	err := tr.ReplaceRange(
		textpos.HostOffset(pos, change.From),
		textpos.HostOffset(pos, change.To),
		change.Text,
	)
	if err != nil {
		b.log.Errorf("binding %s: patching host failed: %s", b.id, err)
		return
	}
	anchor, head := b.hostSelection()
	tr.SetSelection(doc.NewTextSelection(anchor, head))

	if err := b.host.Dispatch(tr); err != nil {
		b.log.Errorf("binding %s: content dispatch failed: %s", b.id, err)
	}
}

// handleSelectionChange forwards a session cursor move to the host.
// Selections are never forwarded while the session lacks focus, so
// programmatic selection changes cannot fight the host's own selection.
func (b *Binding) handleSelectionChange() {
	if b.state != StateIdle || !b.session.HasFocus() {
		return
	}
	b.forwardSelection()
}

// handleFocus marks the binding active and immediately forwards the
// current session selection.
func (b *Binding) handleFocus() {
	b.active = true
	if b.state != StateIdle {
		return
	}
	b.forwardSelection()
}

// handleBlur marks the binding inactive. Nothing else happens on blur.
func (b *Binding) handleBlur() {
	b.active = false
}

// forwardSelection dispatches the session selection as a host text
// selection when it differs from the host's current one.
func (b *Binding) forwardSelection() {
	anchor, head := b.hostSelection()
	want := doc.NewTextSelection(anchor, head)
	if cur := b.host.Doc().Selection(); cur != nil && want.Eq(cur) {
		return
	}
	tr := b.host.Doc().Tr()
	tr.SetSelection(want)
	if err := b.host.Dispatch(tr); err != nil {
		b.log.Errorf("binding %s: selection dispatch failed: %s", b.id, err)
	}
}

// hostSelection maps the session selection into host absolute offsets.
func (b *Binding) hostSelection() (anchor, head int) {
	sel := b.session.Selection()
	value := b.session.Value()
	pos := b.getPos()
	anchor = textpos.HostOffset(pos, textpos.OffsetOf(value, sel.Anchor))
	head = textpos.HostOffset(pos, textpos.OffsetOf(value, sel.Head))
	return anchor, head
}

// refreshMode re-derives the language tag and the run affordance
// visibility. The session mode is set only when the tag actually changed;
// visibility is recomputed every time and OnRunnableChanged fires on each
// flip.
func (b *Binding) refreshMode() {
	tag := b.classifier(b.node.Attrs(), b.node.TextContent())
	if tag != b.mode {
		b.mode = tag
		b.session.SetMode(tag)
	}

	runnable := b.opts.Execute != nil && b.matcher.Match(tag)
	if runnable != b.runnable {
		b.runnable = runnable
		if b.opts.OnRunnableChanged != nil {
			b.opts.OnRunnableChanged(runnable)
		}
	}
}

// String identifies the binding in logs.
func (b *Binding) String() string {
	return fmt.Sprintf("binding(%s, %s)", b.id[:8], b.node.Type())
}
