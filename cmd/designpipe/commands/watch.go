package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/designpipe/internal/logfields"
)

const watchDebounce = 300 * time.Millisecond

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	TransformCmd `embed:""`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	rt, err := newRuntime(g, root, c.Metadata)
	if err != nil {
		return err
	}
	defer rt.flushMetrics()

	input, err := filepath.Abs(c.Input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failing first run is reported and the watch keeps going.
	if err := rt.transformFile(input, c.Output, &c.TransformCmd); err != nil {
		rt.logger.Error("Initial transform failed", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	// Editors replace files on save; watching the directory survives that.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(input), err)
	}

	rebuildReq, trigger := setupRebuildDebouncer(watchDebounce)
	rt.logger.Info("Watching for changes", logfields.Input(input))
	return watchLoop(ctx, watcher, input, trigger, rebuildReq, func() {
		rt.logger.Info("Change detected; transforming", logfields.Input(input))
		if err := rt.transformFile(input, c.Output, &c.TransformCmd); err != nil {
			rt.logger.Warn("Transform failed", logfields.Error(err))
		}
		rt.flushMetrics()
	})
}

// setupRebuildDebouncer creates the rebuild channel and a trigger that
// coalesces bursts of events into one request.
func setupRebuildDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// watchLoop runs rebuild for every debounced change to target until ctx is
// done. Rebuilds run on the loop goroutine, so they never overlap.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, trigger func(), rebuildReq <-chan struct{}, rebuild func()) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case <-rebuildReq:
			rebuild()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if relevantEvent(ev, target) {
				slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func relevantEvent(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
