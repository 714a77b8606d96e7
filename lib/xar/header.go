package xar

import (
	"crypto"
	"encoding/binary"
	"fmt"
	"io"
)

const xarMagic = 0x78617221 // xar!

// headerSize is the minimum prologue size. The header's own HeaderSize
// field is authoritative for where the compressed TOC begins; archives
// may declare a larger prologue and pad it.
const headerSize = 28

type hashType uint32

const (
	hashNone hashType = iota
	hashSHA1
	hashMD5
	hashSHA256
	hashSHA512
)

func (t hashType) hash() (crypto.Hash, error) {
	switch t {
	case hashNone:
		return 0, nil
	case hashSHA1:
		return crypto.SHA1, nil
	case hashMD5:
		return crypto.MD5, nil
	case hashSHA256:
		return crypto.SHA256, nil
	case hashSHA512:
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %d", t)
	}
}

type fileHeader struct {
	Magic            uint32
	HeaderSize       uint16
	Version          uint16
	CompressedSize   int64
	UncompressedSize int64
	HashType         hashType
}

// parseHeader decodes the fixed big-endian prologue. The reader needs to
// supply at least headerSize bytes.
func parseHeader(r io.Reader) (fileHeader, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return fileHeader{}, &FormatError{Reason: "reading header", Err: err}
	}
	if hdr.Magic != xarMagic {
		return fileHeader{}, &FormatError{Reason: "incorrect magic"}
	}
	if hdr.Version != 1 {
		return fileHeader{}, &FormatError{Reason: fmt.Sprintf("unsupported xar version %d", hdr.Version)}
	}
	if hdr.HeaderSize < headerSize {
		return fileHeader{}, &FormatError{Reason: fmt.Sprintf("declared header size %d below minimum %d", hdr.HeaderSize, headerSize)}
	}
	if hdr.CompressedSize < 0 || hdr.UncompressedSize < 0 {
		return fileHeader{}, &FormatError{Reason: "negative TOC length"}
	}
	return hdr, nil
}
