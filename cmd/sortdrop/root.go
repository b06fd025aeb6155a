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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortdrop/cmd/sortdrop/commands"
	"github.com/walteh/sortdrop/cmd/sortdrop/opts"
	"github.com/walteh/sortdrop/pkg/category"
	"github.com/walteh/sortdrop/pkg/history"
	"github.com/walteh/sortdrop/pkg/log"
	"github.com/walteh/sortdrop/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	settingsFile string
	historyFile  string
	debug        bool
	noColor      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	shared := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "sortdrop",
		Short: "Sort dropped files into category folders",
		Long: `sortdrop moves files into category folders (Images, Documents, Audio, ...)
under a root directory, honouring per-category destination overrides and
resolving name collisions with a rename, skip or replace policy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), flags)
			cmd.SetContext(ctx)

			if err := loadRootOpts(ctx, cmd.OutOrStdout(), flags, shared); err != nil {
				return err
			}
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewOrganizeCmd(shared),
		commands.NewClassifyCmd(shared),
		commands.NewWatchCmd(shared),
		commands.NewSettingsCmd(shared),
		commands.NewCategoriesCmd(shared),
		commands.NewAnalyzeCmd(shared),
		commands.NewHistoryCmd(shared),
		commands.NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.settingsFile, "settings", "s", settings.DefaultPath(), "settings file (.json, .yaml, .toml or .hcl)")
	cmd.PersistentFlags().StringVar(&flags.historyFile, "history", "", "history database (default next to the settings file)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
}

// setupLogging configures zerolog and console colours based on flags
func setupLogging(ctx context.Context, stderr io.Writer, flags *rootFlags) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	noColor := flags.noColor || !isTerminal(stderr)
	if flags.noColor {
		color.NoColor = true
		pterm.DisableColor()
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger.WithContext(ctx)
}

// loadRootOpts fills shared with the settings, classifier and loggers
func loadRootOpts(ctx context.Context, stdout io.Writer, flags *rootFlags, shared *opts.RootOpts) error {
	store, err := settings.NewFileStore(flags.settingsFile)
	if err != nil {
		return errors.Errorf("opening settings: %w", err)
	}

	s, err := settings.Load(ctx, store)
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}

	table := categoryTable(ctx, s.CustomCategories())

	historyFile := flags.historyFile
	if historyFile == "" {
		historyFile = history.DefaultPath(filepath.Dir(store.Path()))
	}

	zlog := zerolog.Ctx(ctx)

	shared.Settings = s
	shared.Store = store
	shared.Classifier = category.NewClassifier(table)
	shared.HistoryPath = historyFile
	shared.Console = stdout
	shared.Logger = log.New(stdout, *zlog)
	shared.UserLogger = log.NewUserLogger(ctx, stdout)
	return nil
}

// categoryTable extends the default table with user categories; a record that
// does not validate is ignored and the default table used instead
func categoryTable(ctx context.Context, custom map[string][]string) *category.Table {
	table, err := category.Default().Extend(custom)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("ignoring bad custom categories")
		return category.Default()
	}
	return table
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
