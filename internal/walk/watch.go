package walkscan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when WatchOptions.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// WatchEvent represents a filesystem event type
type WatchEvent string

// Watch event types
const (
	EventCreate WatchEvent = "create"
	EventModify WatchEvent = "modify"
	EventDelete WatchEvent = "delete"
	EventRename WatchEvent = "rename"
	EventChmod  WatchEvent = "chmod"
)

// WatchOptions defines options for watching a traversal root.
type WatchOptions struct {
	// Exclude and Logger are taken from the traversal options; excluded
	// directories are not watched.
	Options

	// Quiet period after the last event before the handler runs.
	Debounce time.Duration

	// Timeout duration (0 means no timeout)
	Timeout time.Duration

	// Paths whose events are dropped, typically the report being rewritten.
	Ignore []string
}

// WatchMessage contains information about a filesystem event
type WatchMessage struct {
	Path  string     // Full path to the file
	Event WatchEvent // Event type
}

// WatchHandler is called with the batch of events collected during one
// debounce window. A returned error stops the watch.
type WatchHandler func(ctx context.Context, batch []WatchMessage) error

// Watch monitors root and every non-excluded directory below it, calling
// handler once per burst of changes. It returns when ctx is done, the timeout
// expires or handler fails.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	if err := validateRoot(root); err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	logger := opts.logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, root, opts.Options); err != nil {
		return err
	}

	ignored := make(map[string]bool, len(opts.Ignore))
	for _, path := range opts.Ignore {
		if abs, err := filepath.Abs(path); err == nil {
			ignored[abs] = true
		}
	}

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending []WatchMessage
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			msg, keep := translateEvent(event)
			if !keep {
				continue
			}
			if opts.Exclude.Match(filepath.Base(event.Name)) {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err == nil && ignored[abs] {
				continue
			}
			if msg.Event == EventCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatches(watcher, event.Name, opts.Options); err != nil {
						logger.Warn("error watching new directory", zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			logger.Debug("filesystem event", zap.String("path", msg.Path), zap.String("event", string(msg.Event)))
			pending = append(pending, msg)
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			if err := handler(ctx, batch); err != nil {
				return err
			}
		}
	}
}

// addWatches registers dir and its non-excluded subdirectories, using the
// same pruning rules as the recursive walker.
func addWatches(watcher *fsnotify.Watcher, dir string, opts Options) error {
	return walkLevels(dir, opts, func(l *Level) error {
		excludeDirs(l, opts.Exclude)
		if err := watcher.Add(l.Path); err != nil {
			return fmt.Errorf("error watching directory %s: %w", l.Path, err)
		}
		return nil
	})
}

func translateEvent(event fsnotify.Event) (WatchMessage, bool) {
	msg := WatchMessage{Path: event.Name}
	switch {
	case event.Has(fsnotify.Create):
		msg.Event = EventCreate
	case event.Has(fsnotify.Write):
		msg.Event = EventModify
	case event.Has(fsnotify.Remove):
		msg.Event = EventDelete
	case event.Has(fsnotify.Rename):
		msg.Event = EventRename
	case event.Has(fsnotify.Chmod):
		msg.Event = EventChmod
	default:
		return msg, false
	}
	return msg, true
}
