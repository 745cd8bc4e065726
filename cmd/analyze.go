// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/detect"
	"github.com/stackscan/stackscan/internal/phase"
	"github.com/stackscan/stackscan/internal/scaffold"
	"github.com/stackscan/stackscan/pkg/gitver"
	"github.com/stackscan/stackscan/pkg/output"
)

type analyzeFlags struct {
	auto         bool
	updateOnly   bool
	merge        bool
	force        bool
	noCache      bool
	outputFormat string
}

func (f *analyzeFlags) mode() (scaffold.Mode, error) {
	selected := 0
	mode := scaffold.ModeGenerate
	if f.updateOnly {
		selected++
		mode = scaffold.ModeUpdateOnly
	}
	if f.merge {
		selected++
		mode = scaffold.ModeMerge
	}
	if f.force {
		selected++
		mode = scaffold.ModeForce
	}

	if selected > 1 {
		return "", fmt.Errorf("--update-only, --merge and --force are mutually exclusive")
	}

	return mode, nil
}

func newAnalyzeCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Detect the stack, classify the phase and scaffold agent guides.",
		Long: heredoc.Doc(`
			Runs the full pipeline: framework detection, phase classification,
			and guide scaffolding into the project's .agents directory.

			Unless --auto is set, scaffolding asks for confirmation before
			writing. An existing .agents directory is backed up first; use
			--merge or --update-only to preserve local edits instead.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := projectRoot(args)

			mode, err := flags.mode()
			if err != nil {
				return err
			}

			detection, err := detectWithCache(cmd, root, flags.noCache)
			if err != nil {
				return err
			}

			classifier := phase.NewClassifier(phase.DefaultWeights(), gitver.NewCli())
			phaseResult, err := classifier.Classify(ctx, root)
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(flags.outputFormat)
			if err != nil {
				return err
			}

			if formatter.Kind() == output.TableFormat {
				printDetectSummary(cmd, detection)
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"Phase: %s (rigor %d)\n\n",
					color.GreenString(phaseResult.Phase),
					phaseResult.Rigor,
				)
			}

			proceed, err := confirmScaffold(opts, flags)
			if err != nil {
				return err
			}

			if !proceed {
				fmt.Fprintln(cmd.OutOrStdout(), "Skipped scaffolding.")
				return nil
			}

			summary, err := scaffold.New().Generate(ctx, root, detection, phaseResult, mode)
			if err != nil {
				return err
			}

			if formatter.Kind() == output.TableFormat {
				printScaffoldSummary(cmd, summary)
				return nil
			}

			return formatter.Format(&analyzeView{
				Detection: detection,
				Phase:     phaseResult,
				Scaffold:  summary,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.auto, "auto", false, "Scaffolds without asking for confirmation.")
	cmd.Flags().BoolVar(&flags.updateOnly, "update-only", false, "Only rewrites guides that already exist.")
	cmd.Flags().BoolVar(&flags.merge, "merge", false, "Adds missing guides and keeps existing ones.")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrites all guides, keeping only the automatic backup.")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypasses the result cache and forces a fresh scan.")
	output.AddOutputFlag(
		cmd.Flags(),
		&flags.outputFormat,
		[]output.Format{output.JsonFormat, output.TableFormat, output.NoneFormat},
		output.TableFormat,
	)

	return cmd
}

// confirmScaffold decides whether to write guides. Non-interactive runs
// proceed without asking.
func confirmScaffold(opts *internal.GlobalCommandOptions, flags *analyzeFlags) (bool, error) {
	if flags.auto || opts.NoPrompt {
		return true, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return true, nil
	}

	proceed := true
	prompt := &survey.Confirm{
		Message: "Write agent guides to .agents?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &proceed); err != nil {
		return false, fmt.Errorf("prompting for confirmation: %w", err)
	}

	return proceed, nil
}

func printScaffoldSummary(cmd *cobra.Command, summary *scaffold.Summary) {
	out := cmd.OutOrStdout()

	for _, path := range summary.Written {
		fmt.Fprintf(out, "%s %s\n", color.GreenString("wrote"), path)
	}
	for _, path := range summary.Skipped {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("kept"), path)
	}
	if summary.BackupDir != "" {
		fmt.Fprintf(out, "Previous guides backed up to %s\n", summary.BackupDir)
	}
}

type analyzeView struct {
	Detection *detect.Result    `json:"detection"`
	Phase     *phase.Result     `json:"phase"`
	Scaffold  *scaffold.Summary `json:"scaffold"`
}
