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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	argList         bool
	argExtract      bool
	argCreate       bool
	argFile         string
	argDirectory    string
	argDumpTOC      string
	argVerbose      bool
	argKeepExisting bool
)

var RootCmd = &cobra.Command{
	Use:           "goxar",
	Short:         "List and extract XAR archives",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.Flags()
	flags.BoolVarP(&argList, "list", "t", false, "List the contents of an archive")
	flags.BoolVarP(&argExtract, "extract", "x", false, "Extract an archive")
	flags.BoolVarP(&argCreate, "create", "c", false, "Create an archive (not implemented)")
	flags.StringVarP(&argFile, "file", "f", "", "Archive to operate on")
	flags.StringVarP(&argDirectory, "directory", "C", ".", "Directory to extract into")
	flags.StringVar(&argDumpTOC, "dump-toc", "", "Write the inflated table of contents to a file")
	flags.BoolVarP(&argVerbose, "verbose", "v", false, "Print entries as they are processed")
	flags.BoolVarP(&argKeepExisting, "keep-existing", "k", false, "Don't overwrite files that already exist")
	_ = RootCmd.MarkFlagRequired("file")
}

func run(cmd *cobra.Command, args []string) error {
	setupLogging()
	if argCreate {
		return errors.New("command not implemented")
	}
	if !argList && !argExtract && argDumpTOC == "" {
		return errors.New("expected one of -t, -x or -c")
	}
	archive, err := openArchive(argFile)
	if err != nil {
		return err
	}
	defer archive.Close()
	if argDumpTOC != "" {
		if err := dumpTOC(archive, argDumpTOC); err != nil {
			return err
		}
	}
	switch {
	case argList:
		return listArchive(archive)
	case argExtract:
		return extractArchive(cmd, archive)
	}
	return nil
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
	level := zerolog.InfoLevel
	if argVerbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Logger.Level(level)
}

func Main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goxar:", err)
		os.Exit(1)
	}
}
