package settings

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch invokes fn with freshly loaded settings whenever the settings
// file is rewritten, until ctx is done. Another pettabs instance (or an
// editor) saving the file shows up in the running dashboard this way.
func (r *Repository) Watch(ctx context.Context, fn func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: saves are temp-file renames, which replace
	// the inode a file watch would be pinned to.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return err
	}

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
				if event.Name != r.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				fn(r.Load())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("Settings watcher error", "error", err)
			}
		}
	}()
	return nil
}
