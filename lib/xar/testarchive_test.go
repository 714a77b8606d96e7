package xar_test

// An in-memory reference encoder for building small archives that the
// reader is tested against.

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

const testContent = "Text to be compressed"

type testFile struct {
	name     string
	typ      string // defaults to "file"
	mtime    string
	atime    string
	mode     string
	uid      string
	gid      string
	content  []byte // decoded content, compressed by the builder
	stored   []byte // overrides the as-stored bytes
	encoding string // defaults to application/x-gzip
	checksum string // overrides the computed digest; "-" omits it
	children []testFile
}

type archiveOpts struct {
	headerSize uint16
	version    uint16
	hashType   uint32
	tocSum     bool
}

func buildArchive(t *testing.T, files []testFile, mod ...func(*archiveOpts)) []byte {
	t.Helper()
	o := archiveOpts{headerSize: 28, version: 1, hashType: 1, tocSum: true}
	for _, fn := range mod {
		fn(&o)
	}
	heap := new(bytes.Buffer)
	if o.tocSum {
		// reserved for the TOC digest, patched below
		heap.Write(make([]byte, sha1.Size))
	}
	var body strings.Builder
	id := 0
	var emit func(files []testFile)
	emit = func(files []testFile) {
		for _, f := range files {
			id++
			typ := f.typ
			if typ == "" {
				typ = "file"
			}
			fmt.Fprintf(&body, `<file id="%d"><name>%s</name><type>%s</type>`, id, f.name, typ)
			if f.mtime != "" {
				fmt.Fprintf(&body, "<mtime>%s</mtime>", f.mtime)
			}
			if f.atime != "" {
				fmt.Fprintf(&body, "<atime>%s</atime>", f.atime)
			}
			if f.mode != "" {
				fmt.Fprintf(&body, "<mode>%s</mode>", f.mode)
			}
			if f.uid != "" {
				fmt.Fprintf(&body, "<uid>%s</uid><gid>%s</gid>", f.uid, f.gid)
			}
			switch typ {
			case "file":
				encoding := f.encoding
				if encoding == "" {
					encoding = "application/x-gzip"
				}
				stored := f.stored
				if stored == nil {
					if encoding == "application/x-gzip" {
						var zbuf bytes.Buffer
						zw := zlib.NewWriter(&zbuf)
						_, _ = zw.Write(f.content)
						zw.Close()
						stored = zbuf.Bytes()
					} else {
						stored = f.content
					}
				}
				sum := f.checksum
				if sum == "" {
					digest := sha1.Sum(stored)
					sum = hex.EncodeToString(digest[:])
				}
				offset := heap.Len()
				heap.Write(stored)
				fmt.Fprintf(&body, "<data><length>%d</length><offset>%d</offset><size>%d</size>", len(stored), offset, len(f.content))
				fmt.Fprintf(&body, `<encoding style="%s"/>`, encoding)
				if sum != "-" {
					fmt.Fprintf(&body, `<archived-checksum style="sha1">%s</archived-checksum>`, sum)
				}
				body.WriteString("</data>")
			case "directory":
				emit(f.children)
			}
			body.WriteString("</file>")
		}
	}
	emit(files)

	var toc strings.Builder
	toc.WriteString(`<?xml version="1.0" encoding="UTF-8"?><xar><toc><creation-time>2021-06-01T12:00:00Z</creation-time>`)
	if o.tocSum {
		fmt.Fprintf(&toc, `<checksum style="sha1"><offset>0</offset><size>%d</size></checksum>`, sha1.Size)
	}
	toc.WriteString(body.String())
	toc.WriteString("</toc></xar>")
	raw := []byte(toc.String())

	var comp bytes.Buffer
	zw := zlib.NewWriter(&comp)
	_, _ = zw.Write(raw)
	zw.Close()
	if o.tocSum {
		digest := sha1.Sum(comp.Bytes())
		copy(heap.Bytes(), digest[:])
	}

	arc := new(bytes.Buffer)
	for _, v := range []interface{}{
		uint32(0x78617221), o.headerSize, o.version,
		uint64(comp.Len()), uint64(len(raw)), o.hashType,
	} {
		if err := binary.Write(arc, binary.BigEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	if o.headerSize > 28 {
		arc.Write(make([]byte, o.headerSize-28))
	}
	arc.Write(comp.Bytes())
	arc.Write(heap.Bytes())
	return arc.Bytes()
}

// mustHex decodes reference blobs produced by other xar implementations.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
