// Package watch reloads state when another process rewrites the database.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// Watcher observes the directory holding a SQLite file and calls onChange
// once writes to the file (or its -wal/-journal siblings) settle.
type Watcher struct {
	path     string
	base     string
	onChange func(context.Context)
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending time.Time
	fired   int
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func New(path string, onChange func(context.Context), opts ...Option) *Watcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w := &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		onChange: onChange,
		logger:   zap.NewNop(),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching store", zap.String("path", w.path))

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case now := <-ticker.C:
			if w.due(now) {
				w.logger.Debug("store changed, reloading", zap.String("path", w.path))
				w.onChange(ctx)
			}
		}
	}
}

// Fired reports how many debounced reloads have run.
func (w *Watcher) Fired() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	if base == w.base {
		return true
	}
	return strings.HasPrefix(base, w.base+"-")
}

func (w *Watcher) due(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	w.fired++
	return true
}
