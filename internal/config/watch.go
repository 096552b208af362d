package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// ReloadHandler receives the configuration produced by re-reading the
// watched files after a change settles. When the re-read fails cfg is
// nil and err describes the failure; callers normally keep the previous
// configuration in that case.
type ReloadHandler func(cfg *Config, err error)

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithReloadDelay sets how long the watcher waits after the last file
// event before reloading. Rapid successive writes coalesce into a
// single reload.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// Watcher reloads configuration when any of its source files change.
//
// Parent directories are registered with fsnotify rather than the files
// themselves so that editors which save by rename keep producing
// events. A single debounce timer covers all sources because any change
// forces a full re-read of every layer.
type Watcher struct {
	sources []string
	watched map[string]bool
	handler ReloadHandler
	delay   time.Duration

	fsw *fsnotify.Watcher
	log commonlog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher starts watching the given configuration files and calls
// handler with the result of Load whenever one of them changes. Files
// that do not exist yet are still watched as long as their directory
// exists; creating one later triggers a reload. Directories that do not
// exist are skipped.
func NewWatcher(paths []string, handler ReloadHandler, opts ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		handler: handler,
		delay:   100 * time.Millisecond,
		fsw:     fsw,
		log:     commonlog.GetLogger("inlay.config"),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.sources = make([]string, 0, len(paths))
	w.watched = make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.sources = append(w.sources, abs)
		w.watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			fsw.Close()
			return nil, err
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Sources returns the watched file paths in load order.
func (w *Watcher) Sources() []string {
	out := make([]string, len(w.sources))
	copy(out, w.sources)
	return out
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop dispatches fsnotify events until the watcher closes.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %s", err)
		}
	}
}

// handleEvent schedules a reload when the event concerns a watched file.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return
	}
	if !w.watched[filepath.Clean(ev.Name)] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.delay)
		return
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

// reload re-reads every layer and reports the result.
func (w *Watcher) reload() {
	w.mu.Lock()
	w.timer = nil
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	cfg, err := Load(w.sources...)
	if err != nil {
		w.log.Errorf("reload failed: %s", err)
	} else {
		w.log.Info("configuration reloaded")
	}
	w.handler(cfg, err)
}
