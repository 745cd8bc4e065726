// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

// Package cmd implements the stackscan CLI.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
)

// NewRootCmd builds the stackscan command tree.
func NewRootCmd() *cobra.Command {
	opts := &internal.GlobalCommandOptions{}

	rootCmd := &cobra.Command{
		Use:   "stackscan",
		Short: "Detect a project's tech stack and development phase.",
		Long: heredoc.Doc(`
			stackscan inspects a project directory, identifies the framework and
			language it is built with, classifies how mature the project is, and
			can scaffold agent guide files tuned to that stack.

			Detection is heuristic: independent indicators each contribute a
			weighted score, and the framework whose accumulated confidence clears
			its threshold wins.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.EnableDebugLogging {
				log.SetOutput(io.Discard)
			}

			if opts.Cwd != "" {
				if err := os.Chdir(opts.Cwd); err != nil {
					return fmt.Errorf("changing directory to %s: %w", opts.Cwd, err)
				}
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.Cwd, "cwd", "C", "", "Sets the current working directory.")
	rootCmd.PersistentFlags().BoolVar(&opts.EnableDebugLogging, "debug", false, "Enables debug logging.")
	rootCmd.PersistentFlags().BoolVar(&opts.NoPrompt, "no-prompt", false, "Accepts the default value instead of prompting.")

	rootCmd.AddCommand(newDetectCmd(opts))
	rootCmd.AddCommand(newPhaseCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newCacheCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// projectRoot resolves the positional path argument, defaulting to the
// current directory.
func projectRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
