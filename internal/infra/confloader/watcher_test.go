package confloader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...WatcherOption) *Watcher {
	t.Helper()
	w, err := NewWatcher(opts...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestNewWatcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := newTestWatcher(t, WithWatcherLogger(logger), WithDebounce(time.Second))

	if w.logger != logger {
		t.Error("WithWatcherLogger() option not applied")
	}
	if w.debounce != time.Second {
		t.Errorf("debounce = %v, want 1s", w.debounce)
	}
}

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Watch("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Watch() expected error for nonexistent directory")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()
	time.Sleep(20 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_FileChange(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(configFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})

	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case path := <-changed:
		if filepath.Base(path) != "config.yaml" {
			t.Errorf("OnChange() path = %q, want config.yaml", path)
		}
	case <-time.After(2 * time.Second):
		t.Error("OnChange() callback was not triggered within timeout")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("a: 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w := newTestWatcher(t, WithDebounce(0))
	if err := w.Watch(configFile); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })

	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 2\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case path := <-changed:
		t.Errorf("callback fired for unwatched file %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ConcurrentCallbacks(t *testing.T) {
	w := newTestWatcher(t)

	var (
		mu    sync.Mutex
		count int
	)
	w.OnChange(func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.notifyCallbacks("/test/path")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 100 {
		t.Errorf("count = %d, want 100", count)
	}
}
