package blocks

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"goblocks/protocol"
)

// WatcherBlock is the event-driven variant: it suspends on filesystem
// notifications for Path and re-runs Refresh on each one. A missing path
// freezes the block immediately with a descriptive message instead of
// failing runner startup.
type WatcherBlock struct {
	Base

	// Path to watch.
	Path string

	// Refresh reads the watched resource and updates state. Called once at
	// startup and then after every filesystem event, click, or signal.
	Refresh func(ctx context.Context) error
}

// Run waits on filesystem events for Path. A closed event channel is a
// clean stop, not an error.
func (w *WatcherBlock) Run(ctx context.Context) error {
	if _, err := os.Stat(w.Path); err != nil {
		w.Abort(protocol.State{FullText: fmt.Sprintf("File not found %s", w.Path)})
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.Path); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}

	if err := w.Refresh(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.Frozen() {
				return nil
			}
			if err := w.Refresh(ctx); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger().Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *WatcherBlock) Click(ctx context.Context, _ protocol.Click) error {
	return w.Refresh(ctx)
}

func (w *WatcherBlock) Signal(ctx context.Context, _ os.Signal) error {
	return w.Refresh(ctx)
}
