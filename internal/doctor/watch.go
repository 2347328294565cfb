package doctor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// DefaultDebounce is the quiet period after a change before re-running.
const DefaultDebounce = 200 * time.Millisecond

// Watch runs the validation once and again after changes to any project
// document, until ctx is cancelled. Runs never overlap. onResult receives
// the outcome of every run; run failures do not stop the watch.
func Watch(ctx context.Context, opts Options, debounce time.Duration, onResult func(*Result, error)) error {
	opts = withDefaults(opts)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	root, err := project.FindRoot(opts.Dir)
	if err != nil {
		if errors.Is(err, project.ErrNoProjectRoot) {
			return newCommandError(ExitNoProjectRoot, "Couldn't find project root folder", err)
		}
		return newCommandError(ExitFailure, err.Error(), err)
	}
	opts.Dir = root

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := watchedFiles(root)
	for _, dir := range watchedDirs(root) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	onResult(Run(ctx, opts))
	opts.Logger.Info("watching for changes", slog.String("root", root))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			opts.Logger.Debug("change detected", slog.String("file", event.Name))
			timer.Reset(debounce)

		case <-timer.C:
			onResult(Run(ctx, opts))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// watchedFiles returns the absolute paths of the project documents.
func watchedFiles(root string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range project.Files() {
		rel := filepath.FromSlash(strings.TrimPrefix(f, "./"))
		out[filepath.Join(root, rel)] = true
	}
	return out
}

// watchedDirs returns the existing directories holding project documents.
// .tours is never watched so writing a tour does not trigger a run.
func watchedDirs(root string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range watchedFiles(root) {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}
