package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/autotypo/internal/correction"
)

// Watch blocks until ctx is done, reloading whenever another process changes
// the record. fn receives the promotions and demotions of each reload that
// found new content; it runs on the caller's goroutine, which must not use
// the Session concurrently.
//
// The record's directory is watched rather than the file, because Save
// replaces the file by rename.
func (s *Session) Watch(ctx context.Context, fn func([]correction.Change)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch record: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch record: %w", err)
	}
	s.logger.Debug("watching record", "path", target)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			changed, err := s.Changed()
			if err != nil {
				return err
			}
			if !changed {
				continue
			}
			changes, err := s.Reload()
			if err != nil {
				return err
			}
			s.logger.Info("record changed externally", "path", target, "changes", len(changes))
			if fn != nil {
				fn(changes)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch record: %w", err)
		}
	}
}
