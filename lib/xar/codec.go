package xar

import (
	"compress/bzip2"
	"compress/zlib"
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"io"

	"github.com/xi2/xz"
)

// Decompressor wraps the as-stored bytes of an entry in a reader that
// yields its decoded form.
type Decompressor func(io.Reader) (io.Reader, error)

// codecs maps the TOC's data>encoding style strings to decompressors.
// Despite the name, application/x-gzip data is a bare zlib stream.
var codecs = map[string]Decompressor{
	"application/octet-stream": func(r io.Reader) (io.Reader, error) { return r, nil },
	"application/x-gzip":       func(r io.Reader) (io.Reader, error) { return zlib.NewReader(r) },
	"application/x-bzip2":      func(r io.Reader) (io.Reader, error) { return bzip2.NewReader(r), nil },
	"application/x-xz":         func(r io.Reader) (io.Reader, error) { return xz.NewReader(r, 0) },
}

// RegisterCodec adds or replaces the decompressor for an encoding style,
// making new encodings usable without touching extraction logic.
func RegisterCodec(style string, d Decompressor) {
	codecs[style] = d
}

// hashes maps the TOC's checksum style strings to digest algorithms.
var hashes = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha256": crypto.SHA256,
	"sha512": crypto.SHA512,
}

// RegisterHash adds or replaces the digest algorithm for a checksum
// style. The hash must be linked into the binary.
func RegisterHash(style string, h crypto.Hash) {
	if !h.Available() {
		panic("xar: hash function not available: " + style)
	}
	hashes[style] = h
}
