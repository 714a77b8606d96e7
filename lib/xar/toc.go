package xar

import (
	"bytes"
	"compress/zlib"
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

type tocXar struct {
	TOC tocToc `xml:"toc"`
}

type tocToc struct {
	CreationTime string        `xml:"creation-time"`
	Checksum     *tocChecksum  `xml:"checksum"`
	Signature    *tocSignature `xml:"signature"`
	XSignature   *tocSignature `xml:"x-signature"`

	Files []*tocFile `xml:"file"`
}

type tocChecksum struct {
	Style  string `xml:"style,attr"`
	Offset int64  `xml:"offset"`
	Size   int64  `xml:"size"`
}

type tocSignature struct {
	Style        string   `xml:"style,attr"`
	Offset       int64    `xml:"offset"`
	Size         int64    `xml:"size"`
	Certificates []string `xml:"KeyInfo>X509Data>X509Certificate"`
}

type tocFile struct {
	ID    string  `xml:"id,attr"`
	Name  string  `xml:"name"`
	Type  string  `xml:"type"`
	Mtime tocTime `xml:"mtime"`
	Atime tocTime `xml:"atime"`
	Mode  string  `xml:"mode"`
	UID   *int    `xml:"uid"`
	GID   *int    `xml:"gid"`
	User  string  `xml:"user"`
	Group string  `xml:"group"`

	Data *tocFileData `xml:"data"`

	Files []*tocFile `xml:"file"`
}

type tocFileData struct {
	Length            int64       `xml:"length"`
	Offset            int64       `xml:"offset"`
	Size              int64       `xml:"size"`
	Encoding          tocEncoding `xml:"encoding"`
	ArchivedChecksum  tocFileSum  `xml:"archived-checksum"`
	ExtractedChecksum tocFileSum  `xml:"extracted-checksum"`
}

type tocEncoding struct {
	Style string `xml:"style,attr"`
}

type tocFileSum struct {
	Style  string `xml:"style,attr"`
	Digest string `xml:",chardata"`
}

// tocTimeFormat is the timestamp layout used throughout the TOC.
const tocTimeFormat = "2006-01-02T15:04:05Z"

// tocTime unmarshals a TOC timestamp; the zero value means the TOC did
// not declare one.
type tocTime struct {
	time.Time
}

func (t *tocTime) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(tocTimeFormat, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// parseTOC reads exactly compressedLen bytes, inflates them, and decodes
// the TOC document. It returns the parsed document, the raw inflated
// bytes, and the digest of the compressed bytes when hashFunc is set,
// which the caller compares against the stored TOC checksum.
func parseTOC(r io.Reader, hashFunc crypto.Hash, compressedLen, uncompressedLen int64) (*tocXar, []byte, []byte, error) {
	comp := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, comp); err != nil {
		return nil, nil, nil, &FormatError{Reason: "short read in compressed TOC", Err: err}
	}
	var tocDigest []byte
	if hashFunc != 0 {
		d := hashFunc.New()
		d.Write(comp)
		tocDigest = d.Sum(nil)
	}
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, nil, nil, &FormatError{Reason: "inflating TOC", Err: err}
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, nil, nil, &FormatError{Reason: "inflating TOC", Err: err}
	}
	if int64(len(raw)) != uncompressedLen {
		return nil, nil, nil, &FormatError{
			Reason: fmt.Sprintf("inflated TOC is %d bytes but header declares %d", len(raw), uncompressedLen),
		}
	}
	doc := new(tocXar)
	if err := xml.Unmarshal(raw, doc); err != nil {
		return nil, nil, nil, &FormatError{Reason: "decoding TOC", Err: err}
	}
	return doc, raw, tocDigest, nil
}

func parseCertificates(sig *tocSignature) ([]*x509.Certificate, error) {
	parsed := make([]*x509.Certificate, len(sig.Certificates))
	for i, cert := range sig.Certificates {
		// the TOC wraps certificate base64 across lines
		der, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(cert), ""))
		if err != nil {
			return nil, fmt.Errorf("decoding certificate %d: %w", i, err)
		}
		parsed[i], err = x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("parsing certificate %d: %w", i, err)
		}
	}
	return parsed, nil
}
