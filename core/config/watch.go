package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached on every write to the file source, so admin edits
// take effect ahead of TTL expiry. It blocks until stop is closed.
func (f *FileSource) Watch(stop <-chan struct{}, cached *CachedSource, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file, which drops a
	// watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(f.Path)); err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	target := filepath.Clean(f.Path)
	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Info("ai config changed, invalidating cache", "path", f.Path)
				cached.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watch error", "error", err)
		}
	}
}
