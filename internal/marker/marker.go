// pattern: Imperative Shell

// package marker locates the nearest enclosing project marker file for
// a changed path by walking ancestor directories toward the root.
package marker

import (
	"os"

	"tagsentry/internal/pathutil"
)

// StatFunc is the function signature for checking file existence.
// Injected in tests; production code passes os.Stat.
type StatFunc func(name string) (os.FileInfo, error)

// Resolution is the located marker file and its containing directory.
// Dir always carries a trailing separator.
type Resolution struct {
	MarkerPath string
	Dir        string
}

// Locate walks upward from path looking for markerName in each
// ancestor directory. When path denotes a file (no trailing
// separator), the search starts at its parent. Returns the nearest
// resolution and true, or a zero Resolution and false when no ancestor
// up to the filesystem root contains the marker.
func Locate(path, markerName string) (Resolution, bool) {
	return LocateWith(path, markerName, os.Stat)
}

// LocateWith is Locate with an injectable existence check.
func LocateWith(path, markerName string, stat StatFunc) (Resolution, bool) {
	parts := pathutil.Split(path)
	if !pathutil.IsDir(path) && len(parts) > 0 {
		// Last component is a filename; search starts at its parent.
		parts = parts[:len(parts)-1]
	}

	for len(parts) > 0 {
		dir := pathutil.Join(parts)
		candidate := dir + "/" + markerName
		if _, err := stat(candidate); err == nil {
			return Resolution{
				MarkerPath: candidate,
				Dir:        pathutil.WithTrailingSep(dir),
			}, true
		}
		parts = parts[:len(parts)-1]
	}

	return Resolution{}, false
}
