package magic_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sassoftware/go-xar/lib/magic"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		blob []byte
		want magic.FileType
	}{
		{[]byte("xar!\x00\x1c\x00\x01"), magic.FileTypeXAR},
		{[]byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00}, magic.FileTypeGZIP},
		{[]byte("BZh91AY"), magic.FileTypeBZIP2},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00}, magic.FileTypeXZ},
		{[]byte("plain text"), magic.FileTypeUnknown},
		{[]byte("xa"), magic.FileTypeUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, magic.Detect(bytes.NewReader(tc.blob)))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "xar", magic.FileTypeXAR.String())
	assert.Equal(t, "unknown", magic.FileTypeUnknown.String())
}
