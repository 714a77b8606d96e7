package xar

import (
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"
)

// Entry types as declared by the TOC. Other values are preserved so
// callers can report them, but they cannot be extracted.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Entry is one node of the archive's file tree. Fields the TOC does not
// declare are left at their zero value; UID, GID and Mode use pointers
// so that an absent value is distinguishable from zero.
type Entry struct {
	ID    string
	Name  string // final path segment
	Path  string // full slash-separated path within the archive
	Type  string
	Mtime time.Time
	Atime time.Time
	Mode  *fs.FileMode
	UID   *int
	GID   *int
	User  string
	Group string

	// Data describes where a file's content lives in the heap; nil for
	// directories and unhandled types.
	Data *DataDescriptor
}

// DataDescriptor locates and describes one file's as-stored content.
type DataDescriptor struct {
	Length   int64  // stored length in the heap
	Offset   int64  // relative to the start of the heap
	Size     int64  // length after decoding
	Encoding string // style string naming the codec

	ChecksumStyle string // digest algorithm for the as-stored bytes
	Checksum      string // expected hex digest, empty if undeclared
}

func (e *Entry) IsDir() bool  { return e.Type == TypeDirectory }
func (e *Entry) IsFile() bool { return e.Type == TypeFile }

// Size returns the decoded size of a file entry, 0 otherwise.
func (e *Entry) Size() int64 {
	if e.Data != nil {
		return e.Data.Size
	}
	return 0
}

// buildEntries flattens the TOC tree into document (preorder) order, so
// every directory precedes its contents, and indexes entries by path.
func buildEntries(files []*tocFile) ([]*Entry, map[string]*Entry, error) {
	var entries []*Entry
	byPath := make(map[string]*Entry)
	var walk func(files []*tocFile, prefix string) error
	walk = func(files []*tocFile, prefix string) error {
		for _, f := range files {
			e, err := newEntry(f, prefix)
			if err != nil {
				return err
			}
			entries = append(entries, e)
			byPath[e.Path] = e
			if f.Type == TypeDirectory {
				if err := walk(f.Files, e.Path); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(files, ""); err != nil {
		return nil, nil, err
	}
	return entries, byPath, nil
}

func newEntry(f *tocFile, prefix string) (*Entry, error) {
	if f.Name == "" || f.Name == "." || f.Name == ".." || strings.ContainsAny(f.Name, `/\`) {
		return nil, &FormatError{Path: prefix, Reason: "invalid entry name " + strconv.Quote(f.Name)}
	}
	e := &Entry{
		ID:    f.ID,
		Name:  f.Name,
		Path:  path.Join(prefix, f.Name),
		Type:  f.Type,
		Mtime: f.Mtime.Time,
		Atime: f.Atime.Time,
		UID:   f.UID,
		GID:   f.GID,
		User:  f.User,
		Group: f.Group,
	}
	if f.Mode != "" {
		mode, err := strconv.ParseUint(f.Mode, 8, 32)
		if err != nil {
			return nil, &FormatError{Path: e.Path, Reason: "invalid mode " + strconv.Quote(f.Mode), Err: err}
		}
		fsMode := fs.FileMode(mode) & fs.ModePerm
		e.Mode = &fsMode
	}
	if f.Type == TypeFile {
		if f.Data == nil {
			return nil, &FormatError{Path: e.Path, Reason: "file entry has no data element"}
		}
		if f.Data.Length < 0 || f.Data.Offset < 0 {
			return nil, &FormatError{Path: e.Path, Reason: "negative heap location"}
		}
		e.Data = &DataDescriptor{
			Length:        f.Data.Length,
			Offset:        f.Data.Offset,
			Size:          f.Data.Size,
			Encoding:      f.Data.Encoding.Style,
			ChecksumStyle: f.Data.ArchivedChecksum.Style,
			Checksum:      strings.TrimSpace(f.Data.ArchivedChecksum.Digest),
		}
	}
	return e, nil
}
