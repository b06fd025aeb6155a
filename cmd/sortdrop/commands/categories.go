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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
)

// NewCategoriesCmd creates a new categories command
func NewCategoriesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories, their extensions and destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := opts.NewOrganizer("")
			if err != nil {
				return err
			}

			table := opts.Classifier.Table()
			rows := make([][]string, 0, len(table.Names()))
			for _, c := range table.Categories() {
				exts := strings.Join(c.Extensions, " ")
				if exts == "" {
					exts = "-"
				}
				rows = append(rows, []string{c.Name, exts, org.DestinationDir(c.Name)})
			}

			printTable(cmd.OutOrStdout(), []string{"Category", "Extensions", "Destination"}, rows, nil)
			return nil
		},
	}

	return cmd
}
