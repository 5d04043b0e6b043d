// pattern: Functional Core

// package pathutil contains pure path helpers shared by the marker
// and resolve packages. Changed paths carry their directory flag as a
// trailing separator, so these helpers never touch the filesystem.
package pathutil

import "strings"

const sep = "/"

// IsDir reports whether a changed path denotes a directory, encoded by
// a trailing separator.
func IsDir(path string) bool {
	return strings.HasSuffix(path, sep)
}

// Base returns the final path component, ignoring a trailing separator.
func Base(path string) string {
	trimmed := strings.TrimSuffix(path, sep)
	if i := strings.LastIndex(trimmed, sep); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Split breaks an absolute path into its non-empty components.
// "/repo/src/a.c" -> ["repo", "src", "a.c"].
func Split(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, sep) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Join rebuilds an absolute path from components, without a trailing
// separator. Join(nil) is "" so callers can detect an exhausted walk.
func Join(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return sep + strings.Join(parts, sep)
}

// WithTrailingSep appends a trailing separator if absent.
func WithTrailingSep(path string) string {
	if strings.HasSuffix(path, sep) {
		return path
	}
	return path + sep
}
