package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type reloadResult struct {
	cfg *Config
	err error
}

func collectReloads(buf int) (ReloadHandler, chan reloadResult) {
	ch := make(chan reloadResult, buf)
	handler := func(cfg *Config, err error) {
		select {
		case ch <- reloadResult{cfg, err}:
		default:
		}
	}
	return handler, ch
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[editor]
border = "double"
`)

	handler, ch := collectReloads(8)
	w, err := NewWatcher([]string{path}, handler, WithReloadDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\nborder = \"ascii\"\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-ch:
			if res.err != nil {
				t.Fatalf("reload error = %v", res.err)
			}
			if res.cfg.Editor.Border == "ascii" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatcher_ReloadError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[editor]
border = "double"
`)

	handler, ch := collectReloads(8)
	w, err := NewWatcher([]string{path}, handler, WithReloadDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("editor = = broken"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-ch:
			if res.err != nil {
				if res.cfg != nil {
					t.Errorf("cfg = %v, want nil on error", res.cfg)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload error")
		}
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[editor]
border = "double"
`)

	handler, ch := collectReloads(8)
	w, err := NewWatcher([]string{path}, handler, WithReloadDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "notes.txt", "unrelated")

	select {
	case res := <-ch:
		t.Fatalf("unexpected reload: %+v", res)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "config.toml")

	handler, _ := collectReloads(1)
	w, err := NewWatcher([]string{missing}, handler)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "")

	handler, _ := collectReloads(1)
	w, err := NewWatcher([]string{path}, handler)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWatcher_Sources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.toml", "")
	b := writeFile(t, dir, "b.yaml", "")

	handler, _ := collectReloads(1)
	w, err := NewWatcher([]string{a, b}, handler)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	sources := w.Sources()
	if len(sources) != 2 || sources[0] != a || sources[1] != b {
		t.Errorf("Sources() = %v, want [%s %s]", sources, a, b)
	}
}
