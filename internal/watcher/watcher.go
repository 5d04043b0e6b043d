// pattern: Imperative Shell

// package watcher is the host notification runtime: it turns raw
// fsnotify events into quiescence-batched sets of changed paths and
// dispatches them to a single reaction handler, at most one reaction
// in flight at a time.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"tagsentry/internal/logging"
)

// DefaultQuiescence is the coalescing window applied when the config
// leaves it unset.
const DefaultQuiescence = 5 * time.Second

// Config holds watcher configuration.
type Config struct {
	Root        string        // absolute directory to watch recursively
	Quiescence  time.Duration // coalescing window before a batch is delivered
	IgnoreGlobs []string      // globs matched against the top-level entry name
}

// Handler reacts to one batch of changed paths. Directory paths carry
// a trailing separator. A returned error marks the reaction as failed;
// the watcher logs it and keeps processing subsequent batches.
type Handler func(ctx context.Context, events []string) error

// Watcher delivers coalesced change batches to a Handler.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  *logging.ScopedLogger
	fsw     *fsnotify.Watcher
}

// New creates a Watcher for cfg.Root. Root must be an existing
// directory.
func New(cfg Config, handler Handler, logger *logging.ScopedLogger) (*Watcher, error) {
	if cfg.Quiescence <= 0 {
		cfg.Quiescence = DefaultQuiescence
	}

	// Resolve symlinks so event paths compare cleanly against the root.
	if resolved, err := filepath.EvalSymlinks(cfg.Root); err == nil {
		cfg.Root = resolved
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", cfg.Root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &Watcher{cfg: cfg, handler: handler, logger: logger, fsw: fsw}, nil
}

// Run watches until the context is cancelled. Events arriving while a
// reaction is in flight coalesce into the next batch; a new batch is
// delivered only after the previous reaction completed and the
// quiescence window elapsed.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		return err
	}
	w.logger.Info("watching", "root", w.cfg.Root, "quiescence", w.cfg.Quiescence)

	pending := make(map[string]struct{})
	var inFlight chan error

	timer := time.NewTimer(w.cfg.Quiescence)
	if !timer.Stop() {
		<-timer.C
	}
	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.cfg.Quiescence)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.accept(event); ok {
				pending[path] = struct{}{}
				resetTimer()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 || inFlight != nil {
				continue
			}
			batch := drain(pending)
			done := make(chan error, 1)
			inFlight = done
			w.logger.Debug("dispatching batch", "events", len(batch))
			go func() { done <- w.handler(ctx, batch) }()

		case err := <-inFlight:
			inFlight = nil
			if err != nil && ctx.Err() == nil {
				w.logger.Error("reaction failed", "error", err)
			}
			// Changes that arrived during the reaction form the next
			// batch after a fresh quiescence window.
			if len(pending) > 0 {
				resetTimer()
			}
		}
	}
}

// accept filters a raw fsnotify event and returns the decorated
// changed path (directories gain a trailing separator).
func (w *Watcher) accept(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}

	path := filepath.Clean(event.Name)
	rel, err := filepath.Rel(w.cfg.Root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	if topLevelIgnored(rel, w.cfg.IgnoreGlobs) {
		return "", false
	}

	info, statErr := os.Stat(path)
	isDir := statErr == nil && info.IsDir()

	// New directories must be registered so changes inside them are
	// seen; fsnotify watches are not recursive.
	if event.Has(fsnotify.Create) && isDir {
		if err := w.addRecursive(path); err != nil {
			w.logger.Warn("failed to watch new directory", "path", path, "error", err)
		}
	}

	if isDir {
		return path + "/", true
	}
	return path, true
}

// addRecursive registers dir and every subdirectory, skipping ignored
// top-level entries.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // directory vanished mid-walk, skip
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.cfg.Root, path)
		if relErr == nil && rel != "." && topLevelIgnored(rel, w.cfg.IgnoreGlobs) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.logger.Warn("failed to add watch", "path", path, "error", addErr)
		}
		return nil
	})
}

// topLevelIgnored reports whether the first component of the
// root-relative path matches any ignore glob.
func topLevelIgnored(rel string, globs []string) bool {
	top := rel
	if i := strings.IndexByte(rel, filepath.Separator); i >= 0 {
		top = rel[:i]
	}
	for _, glob := range globs {
		if ok, err := filepath.Match(glob, top); err == nil && ok {
			return true
		}
	}
	return false
}

// drain empties the pending set into a sorted batch.
func drain(pending map[string]struct{}) []string {
	batch := make([]string, 0, len(pending))
	for path := range pending {
		batch = append(batch, path)
		delete(pending, path)
	}
	sort.Strings(batch)
	return batch
}
