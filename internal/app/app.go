// Package app is the demo host surface: a tcell-rendered structured
// document whose code blocks are bound to embedded editor sessions. The
// App implements bind.Host, routes keys to the host document or the
// focused session, and applies configuration reloads handed over from the
// watcher goroutine through the event loop.
package app

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"

	"inlay/internal/bind"
	"inlay/internal/chunk"
	"inlay/internal/classify"
	"inlay/internal/config"
	"inlay/internal/doc"
	"inlay/internal/keys"
)

// Options configures the application.
type Options struct {
	// ConfigPaths are layered configuration files, later files overriding
	// earlier ones. They are watched for changes while the app runs.
	ConfigPaths []string

	// Path is a fenced-text document to open. Empty loads the built-in
	// sample document.
	Path string

	// Execute overrides the built-in run recorder. Chunks handed to the
	// run actions go here.
	Execute func(chunk.Chunk) bool
}

// App owns the host document and one binding per code block. All state is
// confined to the event loop; the only concurrent visitor is the config
// watcher, which communicates through the reloads channel.
type App struct {
	screen tcell.Screen
	cfg    *config.Config
	d      *doc.Document
	path   string

	views []*nodeView

	history   history
	inputRule *ruleSnapshot

	hostKeys map[keys.Chord]string
	execute  func(chunk.Chunk) bool
	lua      *classify.LuaClassifier

	runs   []chunk.Chunk
	status string
	scroll int

	configPaths []string
	reloads     chan *config.Config
	watcher     *config.Watcher

	log commonlog.Logger
}

// nodeView pairs one code block with its binding. The index tracks the
// block's position in the current document version and is fixed up on
// every committed transaction, so the binding's position resolver stays
// correct across structural edits.
type nodeView struct {
	index   int
	binding *bind.Binding
}

// New builds the application: configuration, document, key table and one
// binding per code block.
func New(opts Options) (*App, error) {
	app := &App{
		path:        opts.Path,
		configPaths: opts.ConfigPaths,
		reloads:     make(chan *config.Config, 1),
		log:         commonlog.GetLogger("inlay.app"),
	}

	app.cfg = config.Default()
	if len(opts.ConfigPaths) > 0 {
		cfg, err := config.Load(opts.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		app.cfg = cfg
	}

	app.execute = opts.Execute
	if app.execute == nil {
		app.execute = app.recordRun
	}

	text := sampleText
	if opts.Path != "" {
		raw, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("loading document: %w", err)
		}
		text = string(raw)
	}
	app.d = ParseDocument(text)

	table, err := keys.ResolveTable(hostSpecs(), runtime.GOOS)
	if err != nil {
		return nil, fmt.Errorf("resolving host key table: %w", err)
	}
	app.hostKeys = table

	if err := app.rebuildViews(); err != nil {
		return nil, err
	}
	app.routeSelection()
	return app, nil
}

// Close tears down bindings, the classifier script and the config watcher.
func (app *App) Close() {
	for _, v := range app.views {
		v.binding.Close()
	}
	app.views = nil
	app.closeLua()
	if app.watcher != nil {
		_ = app.watcher.Close()
		app.watcher = nil
	}
}

// Config returns the active configuration.
func (app *App) Config() *config.Config {
	return app.cfg
}

// Runs returns the chunks handed to the built-in run recorder.
func (app *App) Runs() []chunk.Chunk {
	return app.runs
}

// recordRun is the default execute callback: it keeps the chunk and shows
// a status note.
func (app *App) recordRun(c chunk.Chunk) bool {
	app.runs = append(app.runs, c)
	lines := 0
	if c.Code != "" {
		lines = 1 + strings.Count(c.Code, "\n")
	}
	app.status = fmt.Sprintf("ran %s chunk (%d lines)", c.Language, lines)
	return true
}

// bindOptions assembles the per-binding option bundle from the active
// configuration.
func (app *App) bindOptions() bind.Options {
	return bind.Options{
		Language:   app.classifier(),
		Execute:    app.execute,
		EditAttrs:  app.showAttrs,
		Executable: app.cfg.Languages.Executable,
		Classes:    app.cfg.Editor.Classes,
		Border:     app.cfg.Editor.Border,
		Keymap:     app.cfg.KeymapSpecs(),
	}
}

// classifier builds the language classifier chain: the configured Lua
// script when one loads, then fence headers, then the language attribute.
func (app *App) classifier() classify.Func {
	var fns []classify.Func
	if path := app.cfg.Languages.Classifier; path != "" {
		lc, err := classify.NewLuaClassifierFile(path)
		if err != nil {
			app.log.Warningf("lua classifier %s: %s", path, err)
		} else {
			app.lua = lc
			fns = append(fns, lc.Func())
		}
	}
	fns = append(fns, classify.Fence(), classify.Attr("language"))
	return classify.FirstOf(fns...)
}

func (app *App) closeLua() {
	if app.lua != nil {
		app.lua.Close()
		app.lua = nil
	}
}

// showAttrs is the demo attribute editor: it surfaces the bound node's
// attributes in the status line.
func (app *App) showAttrs(b *bind.Binding) bool {
	attrs := b.Node().Attrs()
	if len(attrs) == 0 {
		app.status = "no attributes on this block"
		return true
	}
	app.status = fmt.Sprintf("attributes: %v", attrs)
	return true
}

// newView binds the code block at block index i.
func (app *App) newView(i int) (*nodeView, error) {
	v := &nodeView{index: i}
	b, err := bind.New(app.d.Block(i), func() int { return app.d.BlockStart(v.index) }, app, app.bindOptions())
	if err != nil {
		return nil, fmt.Errorf("binding block %d: %w", i, err)
	}
	v.binding = b
	return v, nil
}

// rebuildViews drops all bindings and creates fresh ones for every code
// block, used at startup and after configuration changes.
func (app *App) rebuildViews() error {
	for _, v := range app.views {
		v.binding.Close()
	}
	app.views = nil
	for i, blk := range app.d.Blocks() {
		if !blk.Type().Code {
			continue
		}
		v, err := app.newView(i)
		if err != nil {
			return err
		}
		app.views = append(app.views, v)
	}
	return nil
}

// reconcile realigns views with the document after a committed
// transaction: the k-th code block keeps the k-th surviving view, whose
// binding is updated in place; leftover views are closed and new blocks
// get fresh bindings.
func (app *App) reconcile() {
	old := app.views
	app.views = nil
	next := 0
	for i, blk := range app.d.Blocks() {
		if !blk.Type().Code {
			continue
		}
		if next < len(old) {
			v := old[next]
			next++
			v.index = i
			if v.binding.Update(blk) {
				app.views = append(app.views, v)
				continue
			}
			v.binding.Close()
		}
		v, err := app.newView(i)
		if err != nil {
			app.log.Errorf("rebinding block %d: %s", i, err)
			continue
		}
		app.views = append(app.views, v)
	}
	for ; next < len(old); next++ {
		old[next].binding.Close()
	}
}

// routeSelection forwards the document selection into the view containing
// it: a text selection inside a code block focuses that block's session,
// a node selection on a code block selects it whole.
func (app *App) routeSelection() {
	switch s := app.d.Selection().(type) {
	case doc.TextSelection:
		if v := app.viewContaining(s.Anchor, s.Head); v != nil {
			v.binding.SetSelection(s.Anchor, s.Head)
		}
	case doc.NodeSelection:
		if v := app.viewAtPos(s.From()); v != nil {
			v.binding.SelectNode()
		}
	}
}

// viewContaining returns the view whose content span covers both anchor
// and head, or nil.
func (app *App) viewContaining(anchor, head int) *nodeView {
	for _, v := range app.views {
		start := app.d.BlockStart(v.index) + 1
		end := start + len(app.d.Block(v.index).TextContent())
		if anchor >= start && anchor <= end && head >= start && head <= end {
			return v
		}
	}
	return nil
}

// viewAtPos returns the view whose block starts at pos, or nil.
func (app *App) viewAtPos(pos int) *nodeView {
	for _, v := range app.views {
		if app.d.BlockStart(v.index) == pos {
			return v
		}
	}
	return nil
}

// viewAtBlock returns the view bound to block index i, or nil.
func (app *App) viewAtBlock(i int) *nodeView {
	for _, v := range app.views {
		if v.index == i {
			return v
		}
	}
	return nil
}

// activeView returns the view whose session holds input focus, or nil
// when the host surface does.
func (app *App) activeView() *nodeView {
	for _, v := range app.views {
		if v.binding.Active() {
			return v
		}
	}
	return nil
}

// applyConfig installs a reloaded configuration and rebinds every code
// block under the new options.
func (app *App) applyConfig(cfg *config.Config) {
	app.cfg = cfg
	app.closeLua()
	if err := app.rebuildViews(); err != nil {
		app.log.Errorf("applying configuration: %s", err)
	}
	app.routeSelection()
	app.status = "configuration reloaded"
	app.log.Infof("configuration reloaded (%d executable languages)", len(cfg.Languages.Executable))
}
