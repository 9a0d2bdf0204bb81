package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/vimchange/internal/log"
)

// DefaultWatchDebounce collapses the write bursts editors produce on save.
const DefaultWatchDebounce = 100 * time.Millisecond

// ReloadFunc receives each reloaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(Config, error)

// Watch reloads path whenever it is written or recreated and passes the
// result to fn. Bursts of events within debounce collapse into one reload.
// Watching stops when ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, fn ReloadFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go watchLoop(ctx, fsw, abs, debounce, fn)
	return nil
}

func watchLoop(ctx context.Context, fsw *fsnotify.Watcher, path string, debounce time.Duration, fn ReloadFunc) {
	defer fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !isRelevant(event, path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := Load(path)
			if err != nil {
				log.ErrorErr(log.CatConfig, "config reload failed", err, "path", path)
			} else {
				log.Info(log.CatConfig, "config reloaded", "path", path)
			}
			fn(cfg, err)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatConfig, "config watcher error", err, "path", path)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isRelevant(event fsnotify.Event, path string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == path
}
