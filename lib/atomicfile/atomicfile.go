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

// Package atomicfile writes files via a temporary name in the target
// directory, renaming into place on Commit so a failed write never
// leaves a partial file behind.
package atomicfile

import (
	"errors"
	"io"
	"os"
	"path"
)

type AtomicFile interface {
	io.WriteCloser
	Commit() error
}

type atomicFile struct {
	name     string
	mode     os.FileMode
	tempfile *os.File
}

// New creates a pending file next to name. Close discards it; Commit
// gives it the requested mode and renames it into place.
func New(name string, mode os.FileMode) (AtomicFile, error) {
	tempfile, err := os.CreateTemp(path.Dir(name), path.Base(name)+".tmp")
	if err != nil {
		return nil, err
	}
	return &atomicFile{name: name, mode: mode, tempfile: tempfile}, nil
}

func (f *atomicFile) Write(d []byte) (int, error) {
	return f.tempfile.Write(d)
}

func (f *atomicFile) Close() error {
	if f.tempfile == nil {
		return nil
	}
	f.tempfile.Close()
	os.Remove(f.tempfile.Name())
	f.tempfile = nil
	return nil
}

func (f *atomicFile) Commit() error {
	if f.tempfile == nil {
		return errors.New("file is closed")
	}
	if err := f.tempfile.Chmod(f.mode); err != nil {
		f.Close()
		return err
	}
	if err := f.tempfile.Close(); err != nil {
		return err
	}
	// rename can't overwrite on windows
	if err := os.Remove(f.name); err != nil && !os.IsNotExist(err) {
		os.Remove(f.tempfile.Name())
		return err
	}
	if err := os.Rename(f.tempfile.Name(), f.name); err != nil {
		os.Remove(f.tempfile.Name())
		return err
	}
	f.tempfile = nil
	return nil
}

// WriteFile atomically replaces the contents of name with data.
func WriteFile(name string, data []byte, mode os.FileMode) error {
	f, err := New(name, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Commit()
}

// WriteAny writes to name atomically when it is a regular file, and
// directly when it is "-" (stdout), a pipe, or a device.
func WriteAny(name string) (AtomicFile, error) {
	if name == "-" {
		return nopAtomic{os.Stdout, false}, nil
	}
	if isSpecial(name) {
		f, err := os.Create(name)
		return nopAtomic{f, true}, err
	}
	return New(name, 0o644)
}

type nopAtomic struct {
	*os.File
	doClose bool
}

func (a nopAtomic) Commit() error {
	if a.doClose {
		return a.Close()
	}
	return nil
}

func isSpecial(name string) bool {
	if stat, err := os.Stat(name); err == nil {
		if !stat.Mode().IsRegular() {
			return true
		}
	}
	return false
}
