package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/logging"
)

// WatchDebounce coalesces the burst of events an editor save produces.
const WatchDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and calls onChange with the new
// configuration or the load error. It blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by rename keep triggering reloads.
func Watch(ctx context.Context, path string, log *logging.Logger, onChange func(*Config, error)) error {
	log = logging.OrNop(log).WithCategory(logging.CategoryConfig)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "create config watcher")
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "watch config directory").
			WithContext("path", path)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(WatchDebounce)
			} else {
				timer.Reset(WatchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", slog.String("error", err.Error()))
		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(path)
			log.ConfigReloaded(path, err)
			onChange(cfg, err)
		}
	}
}
