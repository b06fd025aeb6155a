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
	"github.com/walteh/sortdrop/pkg/category"
	"github.com/walteh/sortdrop/pkg/organize"
	"github.com/walteh/sortdrop/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownCategory is returned when a category is not in the table
var ErrUnknownCategory = errors.Base("unknown category")

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the root directory, duplicate policy and overrides",
	}

	cmd.AddCommand(
		newSettingsShowCmd(opts),
		newSettingsSetRootCmd(opts),
		newSettingsSetPolicyCmd(opts),
		newSettingsMapCmd(opts),
		newSettingsUnmapCmd(opts),
	)

	return cmd
}

func newSettingsShowCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{
				{settings.KeyRootDirectory, opts.Settings.RootDirectory()},
				{settings.KeyDuplicatePolicy, opts.Settings.DuplicatePolicy().String()},
			}
			for _, name := range opts.Settings.OverrideCategories() {
				dir, _ := opts.Settings.Override(name)
				rows = append(rows, []string{settings.KeyCustomPaths + "." + name, dir})
			}
			if fs, ok := opts.Store.(*settings.FileStore); ok {
				rows = append(rows, []string{"file", fs.Path()})
			}
			printTable(cmd.OutOrStdout(), []string{"Setting", "Value"}, rows, nil)
			return nil
		},
	}
}

func newSettingsSetRootCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set-root DIR",
		Short: "Change the base output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Settings.SetRootDirectory(cmd.Context(), args[0]); err != nil {
				return errors.Errorf("setting root directory: %w", err)
			}
			opts.UserLogger.LogSettingChange(settings.KeyRootDirectory, opts.Settings.RootDirectory())
			return nil
		},
	}
}

func newSettingsSetPolicyCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:       "set-policy POLICY",
		Short:     "Change the duplicate policy (" + policyList() + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: policyNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := organize.ParsePolicy(args[0])
			if err != nil {
				return errors.Errorf("parsing policy: %w", err)
			}
			if err := opts.Settings.SetDuplicatePolicy(cmd.Context(), policy); err != nil {
				return errors.Errorf("setting duplicate policy: %w", err)
			}
			opts.UserLogger.LogSettingChange(settings.KeyDuplicatePolicy, policy.String())
			return nil
		},
	}
}

func newSettingsMapCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "map CATEGORY DIR",
		Short: "Send a category to its own directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := knownCategory(opts.Classifier, args[0])
			if err != nil {
				return err
			}
			if err := opts.Settings.SetOverride(cmd.Context(), name, args[1]); err != nil {
				return errors.Errorf("mapping %s: %w", name, err)
			}
			dir, _ := opts.Settings.Override(name)
			opts.UserLogger.LogSettingChange(settings.KeyCustomPaths+"."+name, dir)
			return nil
		},
	}
}

func newSettingsUnmapCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "unmap CATEGORY",
		Short: "Send a category back to the root directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := opts.Settings.Override(name); !ok {
				opts.UserLogger.LogValidation(false, "no override set for "+name, nil)
				return nil
			}
			if err := opts.Settings.ClearOverride(cmd.Context(), name); err != nil {
				return errors.Errorf("unmapping %s: %w", name, err)
			}
			opts.UserLogger.LogStateChange(name + " goes to " + opts.Settings.RootDirectory() + " again")
			return nil
		},
	}
}

// knownCategory resolves name against the table, ignoring case
func knownCategory(c *category.Classifier, name string) (string, error) {
	table := c.Table()
	if table.Has(name) {
		return name, nil
	}
	for _, n := range table.Names() {
		if strings.EqualFold(n, name) {
			return n, nil
		}
	}
	return "", errors.Errorf("%w: %q", ErrUnknownCategory, name)
}

func policyNames() []string {
	names := make([]string, 0, len(organize.Policies))
	for _, p := range organize.Policies {
		names = append(names, p.String())
	}
	return names
}
