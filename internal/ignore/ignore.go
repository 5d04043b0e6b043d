// pattern: Functional Core

// package ignore decides whether a single changed path is relevant to
// indexing. The default policy is "ignore unless proven relevant".
package ignore

import (
	"tagsentry/internal/filetype"
	"tagsentry/internal/pathutil"
)

// ShouldIgnore reports whether a changed path is irrelevant to
// indexing. Directories are always relevant (structural changes must
// trigger reindexing even though they carry no extension). A file
// named exactly markerName is always ignored so the index output's own
// update never re-triggers indexing. Any other file is ignored unless
// its name matches a known filetype pattern.
func ShouldIgnore(path, markerName string, reg *filetype.Registry) bool {
	if pathutil.IsDir(path) {
		return false
	}

	name := pathutil.Base(path)
	if name == markerName {
		return true
	}

	return !reg.Matches(name)
}
