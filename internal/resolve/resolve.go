// pattern: Imperative Shell

// package resolve turns a batch of changed paths into the set of
// affected project roots.
package resolve

import (
	"sort"

	"tagsentry/internal/filetype"
	"tagsentry/internal/ignore"
	"tagsentry/internal/logging"
	"tagsentry/internal/marker"
)

// RootMap maps a marker file path to its containing directory (with a
// trailing separator). One entry per distinct marker file: all changed
// paths under the same project collapse into a single entry, so each
// project is reindexed at most once per batch.
type RootMap map[string]string

// SortedMarkers returns the marker paths in lexical order, for
// deterministic invocation ordering.
func (m RootMap) SortedMarkers() []string {
	markers := make([]string, 0, len(m))
	for k := range m {
		markers = append(markers, k)
	}
	sort.Strings(markers)
	return markers
}

// Resolver resolves changed paths against the filetype registry.
type Resolver struct {
	markerName string
	registry   *filetype.Registry
	logger     *logging.ScopedLogger
}

// New creates a Resolver. The registry must already be initialized.
func New(markerName string, registry *filetype.Registry, logger *logging.ScopedLogger) *Resolver {
	return &Resolver{markerName: markerName, registry: registry, logger: logger}
}

// Resolve applies the ignore filter to each changed path and locates
// the nearest enclosing marker for the survivors. Paths with no
// enclosing marker are logged and dropped; they contribute no work.
// The returned map may be empty.
func (r *Resolver) Resolve(events []string) RootMap {
	return r.resolveWith(events, marker.Locate)
}

type locateFunc func(path, markerName string) (marker.Resolution, bool)

func (r *Resolver) resolveWith(events []string, locate locateFunc) RootMap {
	roots := make(RootMap)
	for _, path := range events {
		if ignore.ShouldIgnore(path, r.markerName, r.registry) {
			r.logger.Debug("event ignored", "path", path)
			continue
		}

		res, ok := locate(path, r.markerName)
		if !ok {
			r.logger.Info("no enclosing marker, dropping event", "path", path, "marker", r.markerName)
			continue
		}

		// Idempotent upsert: repeated resolutions to the same marker
		// collapse into one entry.
		roots[res.MarkerPath] = res.Dir
	}
	return roots
}
