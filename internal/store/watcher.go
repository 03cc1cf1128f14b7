package store

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	coreerrors "warden/internal/core/errors"
	"warden/internal/logging"
)

// Watch reloads the store whenever the backing file is edited
// externally, until ctx is done. Writes made by the store itself are
// skipped via the self-write marker. The watcher is attached to the
// parent directory so editors that replace the file (rename-over) are
// still seen.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return coreerrors.NewIOError("failed to create whitelist watcher", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return coreerrors.NewIOError("failed to watch whitelist directory", err)
	}

	s.logger.Debug("Watching whitelist file",
		logging.String("path", s.path))

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if s.recentSelfWrite() {
					s.logger.Debug("Skipping reload for own write",
						logging.String("path", s.path))
					continue
				}
				s.logger.Info("Whitelist file changed on disk",
					logging.String("op", event.Op.String()),
					logging.String("path", s.path))
				_ = s.Reload()

			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Whitelist watcher error", logging.Error(werr))
			}
		}
	}()

	return nil
}
