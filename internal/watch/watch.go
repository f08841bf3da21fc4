// File: internal/watch/watch.go

// Package watch re-runs a build whenever one of the input files changes.
// Editors save in bursts (write, chmod, rename), so change events are
// debounced before the callback fires.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Watcher observes a fixed set of files and invokes a callback after each
// debounced burst of changes.
type Watcher struct {
	paths    map[string]struct{}
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a Watcher over the given files. Non-positive debounce falls
// back to a sane default.
func New(paths []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %s: %w", p, err)
		}
		set[abs] = struct{}{}
	}

	return &Watcher{
		paths:    set,
		debounce: debounce,
		logger:   logger.With(zap.String("component", "watch")),
	}, nil
}

// Run blocks, invoking onChange after each debounced burst of writes to the
// watched files, until the context is cancelled. Watching the parent
// directories rather than the files themselves survives the
// rename-over-the-top save strategy most editors use.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]struct{})
	for p := range w.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch: adding %s: %w", d, err)
		}
	}

	// One event per debounce window; the burst collapses into a single
	// rebuild scheduled at the window's trailing edge.
	limiter := rate.NewLimiter(rate.Every(w.debounce), 1)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	fire := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	w.logger.Info("Watching for changes",
		zap.Int("files", len(w.paths)),
		zap.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Change detected",
				zap.String("path", ev.Name),
				zap.String("op", ev.Op.String()))
			if limiter.Allow() {
				schedule()
			}

		case <-fire:
			onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.paths[abs]
	return ok
}
