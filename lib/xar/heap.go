package xar

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// extractData reads a file entry's as-stored bytes from the heap,
// verifies the archived checksum when one is declared, and decodes the
// result per the declared encoding. Checksum verification always
// completes before any decoded byte is returned.
func (x *Archive) extractData(e *Entry) ([]byte, error) {
	d := e.Data
	if d == nil {
		return nil, &FormatError{Path: e.Path, Reason: "entry has no data descriptor"}
	}
	stored := make([]byte, d.Length)
	if _, err := x.heap.ReadAt(stored, d.Offset); err != nil {
		return nil, &FormatError{Path: e.Path, Reason: fmt.Sprintf("short read at heap offset %d", d.Offset), Err: err}
	}
	if d.Checksum != "" {
		hashFunc, ok := hashes[d.ChecksumStyle]
		if !ok {
			return nil, &FormatError{Path: e.Path, Reason: "unsupported checksum style " + strconv.Quote(d.ChecksumStyle)}
		}
		digest := hashFunc.New()
		digest.Write(stored)
		actual := hex.EncodeToString(digest.Sum(nil))
		if !strings.EqualFold(actual, d.Checksum) {
			return nil, &ChecksumError{
				Path:      e.Path,
				Algorithm: d.ChecksumStyle,
				Expected:  d.Checksum,
				Actual:    actual,
			}
		}
	}
	decompress, ok := codecs[d.Encoding]
	if !ok {
		return nil, &FormatError{Path: e.Path, Reason: "unhandled encoding " + strconv.Quote(d.Encoding)}
	}
	dr, err := decompress(bytes.NewReader(stored))
	if err != nil {
		return nil, &FormatError{Path: e.Path, Reason: "decoding " + d.Encoding, Err: err}
	}
	content, err := io.ReadAll(dr)
	if err != nil {
		return nil, &FormatError{Path: e.Path, Reason: "decoding " + d.Encoding, Err: err}
	}
	return content, nil
}
