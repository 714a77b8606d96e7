package xar

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by path matches no entry in
	// the archive. It is a normal negative result, not a format violation.
	ErrNotFound = errors.New("no such entry in archive")
	// ErrNotImplemented is returned for operations the library declares
	// but does not perform, such as signature verification.
	ErrNotImplemented = errors.New("not implemented")
)

// FormatError indicates that the archive violates the container format:
// a bad or truncated header, a TOC that does not inflate to its declared
// length, a malformed TOC document, a short heap read, or an encoding or
// entry type the library has no handler for.
type FormatError struct {
	Path   string // entry the error concerns, empty for archive-level errors
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "xar: " + e.Reason
	if e.Path != "" {
		msg = "xar: " + e.Path + ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// ChecksumError indicates that stored bytes did not match the digest the
// TOC declares for them. No output is produced for the affected entry.
type ChecksumError struct {
	Path      string
	Algorithm string
	Expected  string
	Actual    string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("xar: %s: %s digest mismatch: expected %s, got %s",
		e.Path, e.Algorithm, e.Expected, e.Actual)
}
