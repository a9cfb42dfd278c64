package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// changeLog collects onChange callbacks for assertions.
type changeLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeLog) record(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
}

func (c *changeLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func (c *changeLog) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.paths) == 0 {
		return ""
	}
	return c.paths[len(c.paths)-1]
}

func waitForCount(t *testing.T, log *changeLog, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if log.count() >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d change callbacks, got %d", want, log.count())
}

func startWatcher(t *testing.T, paths []string, log *changeLog) *Watcher {
	t.Helper()
	w := New(paths, log.record, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var log changeLog
	startWatcher(t, []string{target}, &log)

	if err := os.WriteFile(target, []byte("{\"id\":\"a\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, &log, 1)
	if got := log.last(); got != filepath.Clean(target) {
		t.Errorf("callback path = %q, want %q", got, target)
	}
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")
	if err := os.WriteFile(target, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var log changeLog
	startWatcher(t, []string{target}, &log)

	tmp := filepath.Join(dir, "catalog.jsonl.tmp")
	if err := os.WriteFile(tmp, []byte("new\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, &log, 1)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var log changeLog
	startWatcher(t, []string{target}, &log)

	sibling := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(sibling, []byte("unrelated"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := log.count(); n != 0 {
		t.Errorf("sibling write triggered %d callbacks", n)
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var log changeLog
	w := New([]string{target}, log.record, WithDebounce(200*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	f, err := os.OpenFile(target, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.WriteString("{\"id\":\"x\"}\n"); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	waitForCount(t, &log, 1)
	time.Sleep(400 * time.Millisecond)
	if n := log.count(); n != 1 {
		t.Errorf("burst of writes triggered %d callbacks, want 1", n)
	}
}

func TestWatcher_CreatesMissingParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data", "catalog.jsonl")

	var log changeLog
	startWatcher(t, []string{target}, &log)

	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, &log, 1)
}

func TestWatcher_StopCancelsPending(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var log changeLog
	w := New([]string{target}, log.record, WithDebounce(500*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(target, []byte("changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Give the event time to reach the debounce timer, then stop before
	// it fires.
	time.Sleep(100 * time.Millisecond)
	w.Stop()
	time.Sleep(700 * time.Millisecond)
	if n := log.count(); n != 0 {
		t.Errorf("stopped watcher delivered %d callbacks", n)
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.jsonl")

	var log changeLog
	w := startWatcher(t, []string{target}, &log)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
}

func TestWatcher_Paths(t *testing.T) {
	w := New([]string{"/b/catalog.jsonl", "/a/catalog.jsonl", ""}, nil)
	got := w.Paths()
	if len(got) != 2 || got[0] != "/a/catalog.jsonl" || got[1] != "/b/catalog.jsonl" {
		t.Errorf("Paths() = %v", got)
	}
}
