//go:build !windows

package xar

import (
	"os"
)

// restoreAttrs applies the optional metadata an entry declares.
// Attributes the TOC omits are skipped. Ownership restoration needs
// privilege, so permission errors from chown are ignored and
// unprivileged extraction still succeeds.
func restoreAttrs(path string, e *Entry) error {
	if e.UID != nil && e.GID != nil {
		if err := os.Chown(path, *e.UID, *e.GID); err != nil && !os.IsPermission(err) {
			return err
		}
	}
	if !e.Atime.IsZero() || !e.Mtime.IsZero() {
		// a zero time leaves the corresponding file time unchanged
		if err := os.Chtimes(path, e.Atime, e.Mtime); err != nil {
			return err
		}
	}
	return nil
}
