// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"github.com/walteh/sortdrop/pkg/operation"
	"github.com/walteh/sortdrop/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

type watchFlags struct {
	dryRun    bool
	settle    time.Duration
	recursive bool
	ignore    []string
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Organize new entries of a folder as they appear",
		Long: `Watch organizes every entry that appears in a folder (default ~/Downloads)
once it has been quiet for the settle period. Partial downloads, dotfiles
and the destination tree itself are never touched. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir, err := watchDir(args)
			if err != nil {
				return err
			}

			org, err := opts.NewOrganizer("")
			if err != nil {
				return err
			}

			runOpts := operation.Options{
				Organizer: org,
				Reporter:  opts.Logger,
				DryRun:    flags.dryRun,
				Hash:      true,
			}
			if !flags.dryRun {
				journal, err := opts.OpenHistory(ctx)
				if err != nil {
					return err
				}
				defer journal.Close()
				runOpts.Recorder = journal
			}

			runner, err := operation.New(runOpts)
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			exclude := []string{opts.Settings.RootDirectory()}
			for _, override := range opts.Settings.Overrides() {
				exclude = append(exclude, override)
			}

			w, err := watch.New(watch.Options{
				Root:      dir,
				Recursive: flags.recursive,
				Settle:    flags.settle,
				Ignore:    append(append([]string{}, watch.DefaultIgnore...), flags.ignore...),
				Exclude:   exclude,
				Handler: func(ctx context.Context, path string) {
					if _, err := runner.Run(ctx, []string{path}); err != nil {
						zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("watch run interrupted")
					}
				},
			})
			if err != nil {
				return errors.Errorf("creating watcher: %w", err)
			}

			opts.Logger.Header("watching " + w.Root())

			ctx, stop := signalContext(ctx)
			defer stop()

			if err := w.Run(ctx); err != nil {
				return errors.Errorf("watching %s: %w", w.Root(), err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "report what would be moved without moving")
	cmd.Flags().DurationVar(&flags.settle, "settle", watch.DefaultSettle, "quiet period before a new entry is organized")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "watch subfolders and organize their files instead of whole folders")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "extra glob patterns of names to ignore")

	return cmd
}

func watchDir(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}
