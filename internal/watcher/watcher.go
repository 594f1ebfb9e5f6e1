// Package watcher triggers processing when DCIR files land in the input
// directory.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ginjaninja78/DCIR-bar-rewriter/internal/logging"
	"github.com/ginjaninja78/DCIR-bar-rewriter/pkg/utils"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called once per settled file.
type Handler func(ctx context.Context, path string)

// Watcher watches one directory for created or written files matching a set
// of glob patterns.
type Watcher struct {
	dir      string
	patterns []string
	handler  Handler
	logger   *zap.Logger

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher for dir. Nothing is watched until Run is called.
func New(dir string, patterns []string, handler Handler, logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		patterns: patterns,
		handler:  handler,
		logger:   logging.OrNop(logger),
		Debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
}

// Run blocks until ctx is done or the underlying watcher fails to start.
// Handlers run on the Run goroutine, one file at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching directory", zap.String("dir", w.dir), zap.Strings("patterns", w.patterns))

	tick := w.Debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))

		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				w.handler(ctx, path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !utils.MatchesAny(event.Name, w.patterns) {
		return
	}

	w.logger.Debug("File event", zap.String("file", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled returns the pending files with no event for at least Debounce and
// forgets them.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}
