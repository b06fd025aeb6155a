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
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"github.com/walteh/sortdrop/pkg/operation"
	"github.com/walteh/sortdrop/pkg/organize"
	"gitlab.com/tozd/go/errors"
)

// ErrItemsFailed is returned when at least one item of a batch failed
var ErrItemsFailed = errors.Base("some items could not be organized")

type organizeFlags struct {
	stdin  bool
	dryRun bool
	jobs   int
	policy string
	noHash bool
}

// NewOrganizeCmd creates a new organize command
func NewOrganizeCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &organizeFlags{}

	cmd := &cobra.Command{
		Use:   "organize [paths...]",
		Short: "Move files into their category folders",
		Long: `Organize moves every given file or folder into the category directory
under the configured root, or into the category's override directory.
Name collisions follow the duplicate policy (rename, skip or replace).
Each path is handled on its own; one failure does not stop the rest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			paths := append([]string{}, args...)
			if flags.stdin {
				drop, err := readDrop(cmd.InOrStdin())
				if err != nil {
					return err
				}
				paths = append(paths, drop...)
			}
			if len(paths) == 0 {
				return errors.Errorf("no paths given")
			}

			var policy organize.Policy
			if flags.policy != "" {
				p, err := organize.ParsePolicy(flags.policy)
				if err != nil {
					return errors.Errorf("parsing --policy: %w", err)
				}
				policy = p
			}

			org, err := opts.NewOrganizer(policy)
			if err != nil {
				return err
			}

			runOpts := operation.Options{
				Organizer: org,
				Reporter:  opts.Logger,
				Jobs:      flags.jobs,
				DryRun:    flags.dryRun,
				Hash:      !flags.noHash,
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

			summary, err := runner.Run(ctx, paths)
			if summary != nil {
				opts.Logger.LogSummary(ctx, summary)
			}
			if err != nil {
				return errors.Errorf("organizing: %w", err)
			}
			if len(summary.Failures()) > 0 {
				return errors.WithStack(ErrItemsFailed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read a drop payload (paths, {quoted paths}, file:// URLs) from stdin")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "show what would happen without moving anything")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 1, "number of items organized in parallel")
	cmd.Flags().StringVarP(&flags.policy, "policy", "p", "", "duplicate policy for this run only ("+policyList()+")")
	cmd.Flags().BoolVar(&flags.noHash, "no-hash", false, "do not record content hashes in the history")

	return cmd
}

// readDrop reads a drop payload and splits it into paths
func readDrop(r io.Reader) ([]string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading stdin: %w", err)
	}
	return operation.ParseDropList(b.String()), nil
}

func policyList() string {
	return strings.Join(policyNames(), ", ")
}
