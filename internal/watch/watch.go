// Package watch reports batches of changed files under a directory tree.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/tonysneed/generator-tonysneed-vscode-typescript/internal/glob"
)

// DefaultSkip lists directory names never watched.
var DefaultSkip = []string{"node_modules", ".git"}

// Handler receives a debounced batch of changed paths, slash-separated and
// relative to the watched root, in lexical order.
type Handler func(ctx context.Context, changed []string)

// Options configures a Watcher.
type Options struct {
	// Root is the directory watched recursively.
	Root string

	// Patterns filter changed paths. Empty means every file.
	Patterns []string

	// Debounce is the quiet period that closes a batch.
	Debounce time.Duration

	// Skip holds directory names or root-relative paths not descended into.
	Skip []string

	Logger *log.Logger
}

// Watcher watches a directory tree with fsnotify.
type Watcher struct {
	opts Options
	fsw  *fsnotify.Watcher
}

// New starts watching opts.Root and every directory below it.
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}
	opts.Root = root
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{opts: opts, fsw: fsw}
	if _, err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) skipped(dir string) bool {
	rel := w.rel(dir)
	base := filepath.Base(dir)
	for _, s := range w.opts.Skip {
		s = filepath.ToSlash(s)
		if s == base || s == rel {
			return true
		}
	}
	return false
}

func (w *Watcher) matches(rel string) bool {
	if len(w.opts.Patterns) == 0 {
		return true
	}
	return glob.MatchAny(w.opts.Patterns, rel)
}

// addTree watches dir and its subdirectories and returns the matching files
// found below it.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// vanished while walking
			return nil
		}
		if !d.IsDir() {
			if rel := w.rel(path); w.matches(rel) {
				files = append(files, rel)
			}
			return nil
		}
		if path != dir && w.skipped(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	return files, err
}

// Run delivers batches to handler until ctx ends. Handler calls never
// overlap; changes arriving during a call form the next batch.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	defer w.fsw.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	var (
		busy     bool
		due      bool
		finished = make(chan struct{}, 1)
	)

	dispatch := func() {
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		sort.Strings(batch)
		clear(pending)

		busy = true
		due = false
		go func() {
			handler(ctx, batch)
			finished <- struct{}{}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			if busy {
				<-finished
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if w.skipped(ev.Name) {
						continue
					}
					files, err := w.addTree(ev.Name)
					if err != nil {
						w.opts.Logger.Warn("watch", "err", err)
					}
					for _, f := range files {
						pending[f] = true
					}
					if len(files) > 0 {
						timer.Reset(w.opts.Debounce)
					}
					continue
				}
			}
			rel := w.rel(ev.Name)
			if !w.matches(rel) {
				continue
			}
			w.opts.Logger.Debug("changed", "file", rel, "op", ev.Op.String())
			pending[rel] = true
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			if busy {
				due = true
				continue
			}
			dispatch()

		case <-finished:
			busy = false
			if due && len(pending) > 0 {
				dispatch()
			}
		}
	}
}
