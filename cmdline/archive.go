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

package cmdline

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sassoftware/go-xar/lib/atomicfile"
	"github.com/sassoftware/go-xar/lib/magic"
	"github.com/sassoftware/go-xar/lib/xar"
)

func openArchive(path string) (*xar.Archive, error) {
	archive, err := xar.Open(path)
	var ferr *xar.FormatError
	if errors.As(err, &ferr) {
		// say what the file actually is when it isn't a xar at all
		if f, oerr := os.Open(path); oerr == nil {
			detected := magic.Detect(f)
			f.Close()
			if detected != magic.FileTypeXAR && detected != magic.FileTypeUnknown {
				return nil, fmt.Errorf("%s is not a XAR archive (looks like %s): %w", path, detected, err)
			}
		}
	}
	return archive, err
}

func listArchive(archive *xar.Archive) error {
	for _, name := range archive.Names() {
		fmt.Println(name)
	}
	return nil
}

func extractArchive(cmd *cobra.Command, archive *xar.Archive) error {
	opts := []xar.ExtractOption{
		xar.WithProgress(func(e *xar.Entry) {
			log.Debug().Str("path", e.Path).Msg("extracted")
		}),
	}
	if argKeepExisting {
		opts = append(opts, xar.WithKeepExisting())
	}
	if err := archive.ExtractAll(cmd.Context(), argDirectory, opts...); err != nil {
		return err
	}
	log.Info().Str("dest", argDirectory).Msg("extraction complete")
	return nil
}

func dumpTOC(archive *xar.Archive, path string) error {
	f, err := atomicfile.WriteAny(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := archive.DumpTOC(f); err != nil {
		return err
	}
	return f.Commit()
}
