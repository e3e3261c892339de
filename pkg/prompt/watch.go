package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchCatalog reloads the catalog at path whenever it is written or
// recreated and passes each valid reload to onChange. Invalid documents are
// logged and skipped; the previous catalog stays in effect.
//
// The parent directory is watched so editors that replace the file by rename
// are still seen. WatchCatalog blocks until ctx is done.
func WatchCatalog(ctx context.Context, path string, logger *slog.Logger, onChange func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating catalog watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching catalog dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			c, err := LoadCatalog(path)
			if err != nil {
				logger.Warn("catalog reload failed", "path", path, "error", err)
				continue
			}

			logger.Info("catalog reloaded", "path", path, "components", len(c.Components))
			onChange(c)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("catalog watcher error: %w", err)
		}
	}
}
