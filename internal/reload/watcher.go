// Package reload watches the configuration file and re-applies it on change.
package reload

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the file must stay quiet before a reload runs.
const Debounce = 200 * time.Millisecond

// Func re-reads the configuration. A returned error is logged and the
// previous configuration stays in effect.
type Func func() error

// Watch watches the directory holding path and calls fn once writes to path
// have settled, until ctx is cancelled.
//
// The directory is watched rather than the file itself so that editors which
// save by writing a temp file and renaming it over the original keep
// triggering reloads.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn Func) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("reload: watching config", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("reload: stopped")
			return nil

		case <-timerCh:
			if err := fn(); err != nil {
				logger.Warn("reload: config rejected, keeping previous",
					slog.String("path", abs),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("reload: config applied", slog.String("path", abs))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				logger.Debug("reload: change detected", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("reload: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
