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
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"github.com/walteh/sortdrop/pkg/analyze"
	"gitlab.com/tozd/go/errors"
)

type analyzeFlags struct {
	ignore []string
	top    int
}

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report on folders without moving anything",
	}
	cmd.PersistentFlags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of names or paths to skip")

	cmd.AddCommand(
		newAnalyzeExtensionsCmd(opts, flags),
		newAnalyzeSizesCmd(flags),
	)

	return cmd
}

func newAnalyzeExtensionsCmd(opts *opts.RootOpts, flags *analyzeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extensions PATHS...",
		Short: "Group files by extension with counts, sizes and categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := analyze.Extensions(cmd.Context(), opts.Classifier, args, analyze.Options{Ignore: flags.ignore})
			if err != nil {
				return errors.Errorf("analyzing extensions: %w", err)
			}

			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{
					s.Extension,
					strconv.Itoa(s.Count),
					humanize.Bytes(uint64(s.Bytes)),
					s.Category,
					s.MIME,
					strings.Join(s.Examples, ", "),
				})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"Extension", "Files", "Size", "Category", "MIME", "Examples"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight})
			return nil
		},
	}
}

func newAnalyzeSizesCmd(flags *analyzeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sizes PATHS...",
		Short: "List entries by total size, largest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := analyze.Sizes(cmd.Context(), args, analyze.Options{Ignore: flags.ignore})
			if err != nil {
				return errors.Errorf("analyzing sizes: %w", err)
			}
			if flags.top > 0 && len(stats) > flags.top {
				stats = stats[:flags.top]
			}

			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				kind := "file"
				if s.IsDir {
					kind = "dir"
				}
				rows = append(rows, []string{
					s.Path,
					kind,
					humanize.Comma(int64(s.Files)),
					humanize.Bytes(uint64(s.Bytes)),
				})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"Path", "Kind", "Files", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
			return nil
		},
	}
	cmd.Flags().IntVar(&flags.top, "top", 20, "show at most this many entries (0 for all)")
	return cmd
}
