// Copyright 2026 Benoit Pereira da Silva
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

// Package cli implements the charmap command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// ErrNothingToApply is returned when a command is given no table at all.
var ErrNothingToApply = errors.New("no mapping table: use --table, --preset or --name")

type globals struct {
	logLevel string
	logger   *slog.Logger
}

// Root returns the charmap command tree.
func Root() *cobra.Command {
	g := &globals{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "charmap",
		Short: "map the characters of a text stream through lookup tables",
		Long: "charmap rewrites text one character at a time. Each character is " +
			"looked up in mapping tables and either passed through, deleted, or " +
			"replaced by a character or a string.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", g.logLevel, err)
			}
			g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		applyCmd(g),
		inspectCmd(g),
		presetsCmd(),
		importCmd(g),
		exportCmd(),
		tablesCmd(),
	)
	return root
}

// Main runs the command line and exits with a non-zero status on failure.
func Main() {
	if err := Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "charmap:", err.Error())
		os.Exit(1)
	}
}
