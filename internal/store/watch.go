package store

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const importDebounce = 200 * time.Millisecond

// ImportCallback is called after a watcher-driven import changed the store.
type ImportCallback func(stats ImportStats)

// WatchImport re-imports dir whenever a note or resource file below it
// changes, until ctx is cancelled. Bursts of events are coalesced into one
// import. Directories created at runtime are added to the watch list.
func WatchImport(ctx context.Context, db *DB, dir string, logger *slog.Logger, cb ImportCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, dir); err != nil {
		return err
	}

	logger.Info("import watcher: started", slog.String("root", dir))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(importDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(importDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("import watcher: stopped")
			return nil

		case <-timerCh:
			stats, err := Import(ctx, db, dir, logger)
			if err != nil {
				logger.Warn("import watcher: import failed", slog.String("error", err.Error()))
				continue
			}
			if stats.Notes+stats.Resources+stats.Removed == 0 {
				continue
			}
			logger.Debug("import watcher: imported",
				slog.Int("notes", stats.Notes),
				slog.Int("resources", stats.Resources),
				slog.Int("removed", stats.Removed))
			if cb != nil {
				cb(stats)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("import watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			if relevant(dir, ev.Name) {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("import watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a change to path can alter the import result.
func relevant(root, path string) bool {
	if strings.HasSuffix(path, ".md") {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(filepath.ToSlash(rel), ResourcesDirName+"/")
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
