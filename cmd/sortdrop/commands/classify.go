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
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"gitlab.com/tozd/go/errors"
)

// NewClassifyCmd creates a new classify command
func NewClassifyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [paths...]",
		Short: "Show the category and destination of paths without moving them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			org, err := opts.NewOrganizer("")
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			failed := 0
			for _, path := range args {
				res, err := org.Plan(ctx, path)
				if err != nil {
					failed++
					rows = append(rows, []string{filepath.Base(path), "-", "-", err.Error()})
					continue
				}
				rows = append(rows, []string{filepath.Base(res.Source), res.Category, res.Destination, res.Outcome.String()})
			}

			printTable(cmd.OutOrStdout(), []string{"Name", "Category", "Destination", "Outcome"}, rows, nil)

			if failed > 0 {
				return errors.WithStack(ErrItemsFailed)
			}
			return nil
		},
	}

	return cmd
}
