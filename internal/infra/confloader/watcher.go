package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches configuration files for changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once

	mu        sync.RWMutex
	files     map[string]struct{}
	callbacks []func(string)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period before callbacks fire. Zero fires on
// every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		done:     make(chan struct{}),
		files:    make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch adds a file to watch. The parent directory is watched so that
// rename-on-save editors are seen; events for other files are ignored.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching config file", "path", abs)
	return nil
}

// OnChange registers a callback invoked with the changed file path.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events until Stop is called.
func (w *Watcher) Start() {
	w.logger.Info("configuration watcher started")

	var (
		timer   *time.Timer
		pending string
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			w.logger.Debug("configuration file changed", "file", ev.Name, "op", ev.Op.String())

			if w.debounce <= 0 {
				w.notifyCallbacks(ev.Name)
				continue
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.notifyCallbacks(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("configuration watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		if err != nil {
			w.logger.Error("failed to close watcher", "error", err)
			return
		}
		w.logger.Info("configuration watcher stopped")
	})
	return err
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
