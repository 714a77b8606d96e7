// Package xar reads XAR archives: a big-endian binary header, a
// zlib-compressed XML table of contents, and a heap holding each file's
// possibly-compressed, checksummed content.
package xar

import (
	"crypto"
	"crypto/hmac"
	"crypto/x509"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
)

// Archive is an open, fully parsed XAR archive. The underlying source is
// held for the Archive's lifetime and all reads against it are
// positioned, so a single Archive must not serve overlapping extraction
// calls from multiple goroutines unless the source is an io.ReaderAt
// that supports concurrent reads (os.File does).
type Archive struct {
	header   fileHeader
	hashFunc crypto.Hash
	toc      *tocToc
	rawTOC   []byte
	heap     io.ReaderAt
	entries  []*Entry
	byPath   map[string]*Entry
	closer   io.Closer
}

// Open opens the archive at path and parses its header and TOC. Any
// format violation fails the whole open; no partially usable Archive is
// returned. The caller must Close the result.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	x, err := OpenReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	x.closer = f
	return x, nil
}

// OpenReader parses an archive from an arbitrary random-access source of
// the given total size.
func OpenReader(r io.ReaderAt, size int64) (*Archive, error) {
	hdr, err := parseHeader(io.NewSectionReader(r, 0, headerSize))
	if err != nil {
		return nil, err
	}
	hashFunc, err := hdr.HashType.hash()
	if err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}
	// the declared header size is authoritative for where the TOC
	// begins; some prologues are padded past the 28 byte minimum
	base := int64(hdr.HeaderSize)
	doc, raw, tocDigest, err := parseTOC(io.NewSectionReader(r, base, hdr.CompressedSize), hashFunc, hdr.CompressedSize, hdr.UncompressedSize)
	if err != nil {
		return nil, err
	}
	heapOffset := base + hdr.CompressedSize
	heapSize := size - heapOffset
	if heapSize < 0 {
		return nil, &FormatError{Reason: "archive truncated before heap"}
	}
	x := &Archive{
		header:   hdr,
		hashFunc: hashFunc,
		toc:      &doc.TOC,
		rawTOC:   raw,
		heap:     io.NewSectionReader(r, heapOffset, heapSize),
	}
	if err := x.verifyTOCDigest(tocDigest); err != nil {
		return nil, err
	}
	x.entries, x.byPath, err = buildEntries(doc.TOC.Files)
	if err != nil {
		return nil, err
	}
	return x, nil
}

// verifyTOCDigest compares the digest of the compressed TOC against the
// copy stored at the head of the heap, when the header declares one.
func (x *Archive) verifyTOCDigest(tocDigest []byte) error {
	if x.hashFunc == 0 || x.toc.Checksum == nil {
		return nil
	}
	if x.toc.Checksum.Size != int64(x.hashFunc.Size()) {
		return &FormatError{Reason: "TOC checksum is missing or invalid"}
	}
	stored := make([]byte, x.toc.Checksum.Size)
	if _, err := x.heap.ReadAt(stored, x.toc.Checksum.Offset); err != nil {
		return &FormatError{Reason: "reading TOC checksum", Err: err}
	}
	if !hmac.Equal(stored, tocDigest) {
		return &ChecksumError{
			Path:      "TOC",
			Algorithm: x.toc.Checksum.Style,
			Expected:  fmt.Sprintf("%x", stored),
			Actual:    fmt.Sprintf("%x", tocDigest),
		}
	}
	return nil
}

// Close releases the underlying source, if Open acquired one.
func (x *Archive) Close() error {
	if x.closer != nil {
		return x.closer.Close()
	}
	return nil
}

// Names returns the full relative path of every entry, files and
// directories alike, in document order.
func (x *Archive) Names() []string {
	names := make([]string, len(x.entries))
	for i, e := range x.entries {
		names[i] = e.Path
	}
	return names
}

// Members returns every entry in document order.
func (x *Archive) Members() []*Entry {
	members := make([]*Entry, len(x.entries))
	copy(members, x.entries)
	return members
}

// Member returns the entry whose full relative path equals path, or nil
// when there is none. Matching is exact; there is no prefix matching.
func (x *Archive) Member(path string) *Entry {
	return x.byPath[path]
}

// Contains reports whether some entry's full relative path equals path.
func (x *Archive) Contains(path string) bool {
	_, ok := x.byPath[path]
	return ok
}

// ExtractBytes returns the decoded content of the file entry at path.
// The error is ErrNotFound when no entry matches.
func (x *Archive) ExtractBytes(path string) ([]byte, error) {
	e := x.Member(path)
	if e == nil {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	return x.ExtractEntry(e)
}

// ExtractEntry returns the decoded content of a file entry, verifying
// its archived checksum first.
func (x *Archive) ExtractEntry(e *Entry) ([]byte, error) {
	if !e.IsFile() {
		return nil, &FormatError{Path: e.Path, Reason: "not a file"}
	}
	return x.extractData(e)
}

// TOC returns the inflated table of contents document.
func (x *Archive) TOC() []byte {
	raw := make([]byte, len(x.rawTOC))
	copy(raw, x.rawTOC)
	return raw
}

// DumpTOC writes an indented rendering of the table of contents to w.
func (x *Archive) DumpTOC(w io.Writer) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(x.rawTOC); err != nil {
		return &FormatError{Reason: "decoding TOC", Err: err}
	}
	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// CreationTime returns the TOC's creation-time text, if declared.
func (x *Archive) CreationTime() string {
	return x.toc.CreationTime
}

// Certificates returns the signing certificate chain embedded in the
// TOC, or nil for unsigned archives.
func (x *Archive) Certificates() ([]*x509.Certificate, error) {
	if x.toc.Signature == nil {
		return nil, nil
	}
	return parseCertificates(x.toc.Signature)
}

// Signed reports whether the TOC carries a signature element.
func (x *Archive) Signed() bool {
	return x.toc.Signature != nil || x.toc.XSignature != nil
}

// VerifySignature is not implemented; it exists so that callers get an
// explicit ErrNotImplemented instead of a silent no-op.
func (x *Archive) VerifySignature() error {
	return fmt.Errorf("signature verification: %w", ErrNotImplemented)
}
