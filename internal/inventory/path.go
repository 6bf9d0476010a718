// Package inventory models the folder inventory a connector import produces:
// folder records keyed by storage path, and the immutable snapshot a mapping
// session operates on.
package inventory

import "strings"

// Delimiter separates path segments in a storage path.
const Delimiter = "/"

// Segments splits a path into its segments. The empty string behaves as a
// single root segment.
func Segments(path string) []string {
	return strings.Split(path, Delimiter)
}

// BaseName returns the last segment of a path.
func BaseName(path string) string {
	if idx := strings.LastIndex(path, Delimiter); idx >= 0 {
		return path[idx+1:]
	}

	return path
}

// Parent returns the path of the immediate containing folder. The second
// return value is false for root-level paths, which have no parent.
func Parent(path string) (string, bool) {
	idx := strings.LastIndex(path, Delimiter)
	if idx < 0 {
		return "", false
	}

	return path[:idx], true
}

// IsAncestorOf reports whether other lives somewhere below path. A path is
// never its own ancestor.
func IsAncestorOf(path, other string) bool {
	return strings.HasPrefix(other, path+Delimiter)
}
