package settings

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// ChangeCallback is called after a new snapshot was published.
type ChangeCallback func(s *RenderSettings)

// Watch reloads the settings file at path whenever it changes on disk and
// publishes the result through h. The parent directory is watched so that
// editors replacing the file by rename are noticed. An invalid file is
// logged and the previous snapshot stays in effect.
func Watch(ctx context.Context, path string, h *Holder, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("settings: watching", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("settings: watcher stopped")
			return nil

		case <-timerCh:
			timerCh = nil
			next, loadErr := Load(abs)
			if loadErr != nil {
				logger.Warn("settings: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			h.Replace(next)
			logger.Info("settings: reloaded")
			if cb != nil {
				cb(next)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("settings: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
