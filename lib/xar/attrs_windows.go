//go:build windows

package xar

import (
	"os"
)

// restoreAttrs applies the optional metadata an entry declares.
// Ownership is a POSIX concept; only timestamps are restored here.
func restoreAttrs(path string, e *Entry) error {
	if !e.Atime.IsZero() || !e.Mtime.IsZero() {
		return os.Chtimes(path, e.Atime, e.Mtime)
	}
	return nil
}
