package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"
)

// watchSettle coalesces the event bursts editors produce on save
const watchSettle = 200 * time.Millisecond

// Watch runs action for the given changelog files and reruns it for the
// files whose content actually changed, until the context is cancelled.
// Content is compared by digest, so touched but unchanged files do not
// retrigger.
func (a *Application) Watch(ctx context.Context, paths []string, action func(ctx context.Context, changed []string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the parent directories: editors replace files on save, and
	// watching a path directly loses it on the first rename
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = path
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	digests := make(map[string]string, len(paths))
	for abs, path := range watched {
		if digest, err := fileDigest(abs); err == nil {
			digests[path] = digest
		}
	}

	if err := action(ctx, paths); err != nil {
		return err
	}
	slog.Info("Watching for changes", "files", len(paths))

	settle := time.NewTimer(watchSettle)
	if !settle.Stop() {
		<-settle.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, ours := watched[event.Name]
			if !ours {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[path] = true
			settle.Reset(watchSettle)

		case <-settle.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				digest, err := fileDigest(path)
				if err != nil {
					slog.Warn("Cannot read changed file", "file", path, "error", err)
					continue
				}
				if digest == digests[path] {
					continue
				}
				digests[path] = digest
				changed = append(changed, path)
			}
			clear(pending)

			if len(changed) == 0 {
				continue
			}
			slog.Info("Changelog changed", "files", changed)
			if err := action(ctx, changed); err != nil {
				slog.Warn("Rerun failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// fileDigest returns the BLAKE3 digest of a file's content
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
