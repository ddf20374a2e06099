package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay used when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// File is the file to watch.
	File string

	// Debounce is the quiet period required before the callback fires.
	Debounce time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher monitors one file for changes.
type Watcher struct {
	config   Config
	file     string
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	onChange func(path string)
	running  bool
	stopCh   chan struct{}
	timer    *time.Timer
}

// New creates a watcher for config.File. It does not watch until Start.
func New(config Config) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	file, err := filepath.Abs(config.File)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: failed to create file watcher: %w", err)
	}

	return &Watcher{
		config: config,
		file:   file,
		fsw:    fsw,
	}, nil
}

// OnChange sets the callback run after the file changed.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until ctx is done or Stop is called. It blocks.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	dir := filepath.Dir(w.file)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: failed to watch directory %s: %w", dir, err)
	}
	w.config.Logger.Info("watching route file", "file", w.file)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()

		case <-stopCh:
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("watch error", "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	fn := w.onChange
	running := w.running
	w.mu.Unlock()

	if running && fn != nil {
		fn(w.file)
	}
}

// Stop stops the watcher and releases the fsnotify handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	if w.running {
		close(w.stopCh)
		w.running = false
	}
	w.fsw.Close()
}
