package entities

import "strings"

// ValidatePath rejects empty paths and paths containing a `..` traversal
// segment. Used by the dev server's request-path normalization (spec
// §4.11) before a path is joined onto the output root.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return ErrPathTraversal
		}
	}
	return nil
}
