package xar

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/sassoftware/go-xar/lib/atomicfile"
)

type extractOptions struct {
	keepExisting bool
	concurrency  int
	progress     func(*Entry)
}

// ExtractOption configures ExtractAll.
type ExtractOption func(*extractOptions)

// WithKeepExisting skips files whose destination path already exists
// instead of overwriting them.
func WithKeepExisting() ExtractOption {
	return func(o *extractOptions) { o.keepExisting = true }
}

// WithConcurrency extracts up to n file entries at a time during phase
// one. Directories are always created first, and each file's checksum is
// verified before any of its bytes reach the filesystem, so fan-out does
// not change the contract; the default of 1 preserves document order.
func WithConcurrency(n int) ExtractOption {
	return func(o *extractOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithProgress calls fn for each entry after it has been written.
func WithProgress(fn func(*Entry)) ExtractOption {
	return func(o *extractOptions) { o.progress = fn }
}

// ExtractAll recreates the archive's tree under dest in two phases:
// phase one creates every directory and writes every file's decoded
// content, phase two restores the attributes each entry declares, with
// directory attributes applied only after their contents are fully
// populated. Any error aborts the call; output already extracted is left
// in place. ctx cancels between entries.
func (x *Archive) ExtractAll(ctx context.Context, dest string, opts ...ExtractOption) error {
	o := extractOptions{concurrency: 1}
	for _, fn := range opts {
		fn(&o)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	// phase one: directories in document order, so parents exist before
	// their contents, then file data
	var files []*Entry
	for _, e := range x.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch e.Type {
		case TypeDirectory:
			if err := x.makeDir(e, dest); err != nil {
				return err
			}
			if o.progress != nil {
				o.progress(e)
			}
		case TypeFile:
			files = append(files, e)
		default:
			// reported in phase two
		}
	}
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(o.concurrency)
	for _, e := range files {
		e := e
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return x.extractFile(e, dest, &o)
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	// phase two: attribute restoration
	for _, e := range x.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch e.Type {
		case TypeFile, TypeDirectory:
			if err := restoreAttrs(filepath.Join(dest, filepath.FromSlash(e.Path)), e); err != nil {
				return err
			}
		default:
			return &FormatError{Path: e.Path, Reason: "unhandled entry type " + strconv.Quote(e.Type)}
		}
	}
	return nil
}

func (x *Archive) makeDir(e *Entry, dest string) error {
	mode := fs.FileMode(0o755)
	if e.Mode != nil {
		mode = *e.Mode
	}
	err := os.Mkdir(filepath.Join(dest, filepath.FromSlash(e.Path)), mode)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}

func (x *Archive) extractFile(e *Entry, dest string, o *extractOptions) error {
	target := filepath.Join(dest, filepath.FromSlash(e.Path))
	if o.keepExisting {
		if _, err := os.Lstat(target); err == nil {
			return nil
		}
	}
	// extractData verifies the archived checksum before returning, so a
	// corrupt entry produces no output file
	content, err := x.extractData(e)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if e.Mode != nil {
		mode = *e.Mode
	}
	if err := atomicfile.WriteFile(target, content, mode); err != nil {
		return err
	}
	if o.progress != nil {
		o.progress(e)
	}
	return nil
}
