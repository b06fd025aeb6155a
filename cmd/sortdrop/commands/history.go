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
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"gitlab.com/tozd/go/errors"
)

// NewHistoryCmd creates a new history command
func NewHistoryCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the journal of organized files",
	}

	cmd.AddCommand(
		newHistoryListCmd(opts),
		newHistoryStatsCmd(opts),
	)

	return cmd
}

func newHistoryListCmd(opts *opts.RootOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recently organized entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			journal, err := opts.OpenHistory(ctx)
			if err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.List(ctx, limit)
			if err != nil {
				return errors.Errorf("listing history: %w", err)
			}
			if len(entries) == 0 {
				opts.UserLogger.LogStateChange("History is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					humanize.Time(e.ProcessedAt),
					e.Filename,
					e.Category,
					e.Outcome,
					humanize.Bytes(uint64(e.Size)),
					e.Destination,
				})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"When", "Name", "Category", "Outcome", "Size", "Destination"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of entries to show (0 for all)")
	return cmd
}

func newHistoryStatsCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the journal per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			journal, err := opts.OpenHistory(ctx)
			if err != nil {
				return err
			}
			defer journal.Close()

			stats, err := journal.Stats(ctx)
			if err != nil {
				return errors.Errorf("reading history stats: %w", err)
			}
			if stats.Count == 0 {
				opts.UserLogger.LogStateChange("History is empty")
				return nil
			}

			rows := make([][]string, 0, len(stats.Categories))
			for _, c := range stats.Categories {
				rows = append(rows, []string{c.Category, strconv.Itoa(c.Count), humanize.Bytes(uint64(c.Bytes))})
			}

			out := cmd.OutOrStdout()
			printTable(out, []string{"Category", "Entries", "Size"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
			fmt.Fprintf(out, "%s, %s, %s to %s\n",
				english.Plural(stats.Count, "entry", "entries"),
				humanize.Bytes(uint64(stats.Bytes)),
				stats.First.Format(time.DateTime),
				stats.Last.Format(time.DateTime))
			return nil
		},
	}
}
