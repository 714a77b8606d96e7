/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package magic sniffs the container formats this tool encounters, so
// that pointing it at the wrong kind of file produces a useful message.
package magic

import (
	"bytes"
	"io"
)

type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeXAR
	FileTypeGZIP
	FileTypeBZIP2
	FileTypeXZ
)

func (t FileType) String() string {
	switch t {
	case FileTypeXAR:
		return "xar"
	case FileTypeGZIP:
		return "gzip"
	case FileTypeBZIP2:
		return "bzip2"
	case FileTypeXZ:
		return "xz"
	default:
		return "unknown"
	}
}

func Detect(r io.Reader) FileType {
	var buf [6]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileTypeUnknown
	}
	blob := buf[:]
	switch {
	case bytes.HasPrefix(blob, []byte("xar!")):
		return FileTypeXAR
	case bytes.HasPrefix(blob, []byte{0x1f, 0x8b}):
		return FileTypeGZIP
	case bytes.HasPrefix(blob, []byte("BZh")):
		return FileTypeBZIP2
	case bytes.HasPrefix(blob, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}):
		return FileTypeXZ
	}
	return FileTypeUnknown
}
