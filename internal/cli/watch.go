package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/quickbook/internal/logging"
	"github.com/yaklabco/quickbook/pkg/fsutil"
)

// watchDebounce collects bursts of events, such as an editor writing a
// temp file and renaming it, into one recompilation.
const watchDebounce = 100 * time.Millisecond

// watchSet is the set of files the last compilation depended on.
type watchSet struct {
	files map[string]*fsutil.FileInfo
	dirs  map[string]bool
}

func newWatchSet(ctx context.Context, paths []string) *watchSet {
	ws := &watchSet{
		files: make(map[string]*fsutil.FileInfo, len(paths)),
		dirs:  make(map[string]bool),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(filepath.FromSlash(p))
		if err != nil {
			continue
		}
		info, err := fsutil.Snapshot(ctx, abs)
		if err != nil {
			continue
		}
		ws.files[abs] = info
		ws.dirs[filepath.Dir(abs)] = true
	}
	return ws
}

// changed reports whether any tracked file differs from its snapshot.
func (ws *watchSet) changed(ctx context.Context) bool {
	for _, info := range ws.files {
		if modified, err := fsutil.CheckModified(ctx, info); err == nil && modified {
			return true
		}
	}
	return false
}

// tracks reports whether path is one of the watched files.
func (ws *watchSet) tracks(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := ws.files[abs]
	return ok
}

// sync points watcher at the directories of the tracked files. Directories
// are watched rather than files so that replace-by-rename saves are seen.
func (ws *watchSet) sync(watcher *fsnotify.Watcher, logger *log.Logger) {
	current := make(map[string]bool)
	for _, dir := range watcher.WatchList() {
		current[dir] = true
	}
	for dir := range current {
		if !ws.dirs[dir] {
			_ = watcher.Remove(dir)
		}
	}
	for dir := range ws.dirs {
		if current[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch directory", logging.FieldPath, dir, logging.FieldError, err)
		}
	}
}

// watch compiles, then recompiles whenever a dependency changes, until the
// context is cancelled or the process is interrupted.
func (c *compiler) watch(ctx context.Context) error {
	logger := c.logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	compileAndTrack := func() (*watchSet, error) {
		out, err := c.run(ctx)
		if err != nil {
			return nil, err
		}
		ws := newWatchSet(ctx, append(out.deps.All(), c.cfg.Input))
		ws.sync(watcher, c.logger)
		logger.Info("watching for changes", logging.FieldInput, c.cfg.Input, logging.FieldDeps, len(ws.files))
		return ws, nil
	}

	ws, err := compileAndTrack()
	if err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ws.tracks(event.Name) {
				continue
			}
			logger.Debug("file event", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !ws.changed(ctx) {
				continue
			}
			if ws, err = compileAndTrack(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch events dropped; recompiling")
				if ws, err = compileAndTrack(); err != nil {
					return err
				}
				continue
			}
			logger.Warn("watch error", logging.FieldError, err)
		}
	}
}
