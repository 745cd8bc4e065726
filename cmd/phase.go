// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/phase"
	"github.com/stackscan/stackscan/pkg/gitver"
	"github.com/stackscan/stackscan/pkg/output"
)

type phaseFlags struct {
	outputFormat string
}

func newPhaseCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	flags := &phaseFlags{}

	cmd := &cobra.Command{
		Use:   "phase [path]",
		Short: "Classify a project's development phase.",
		Long: heredoc.Doc(`
			Scores the project against prototype, mvp and production signal
			tables and reports the phase with the highest score, along with a
			suggested review rigor level.

			Commit history signals come from git when the project is a
			repository; otherwise they contribute nothing and the remaining
			signals decide.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)

			classifier := phase.NewClassifier(phase.DefaultWeights(), gitver.NewCli())
			result, err := classifier.Classify(cmd.Context(), root)
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(flags.outputFormat)
			if err != nil {
				return err
			}

			if formatter.Kind() == output.TableFormat {
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s (confidence %.2f, rigor %d)\n%s\n\n",
					color.GreenString(result.Phase),
					result.Confidence,
					result.Rigor,
					result.Description,
				)
			}

			return formatter.Format(&phaseView{result}, cmd.OutOrStdout())
		},
	}

	output.AddOutputFlag(
		cmd.Flags(),
		&flags.outputFormat,
		[]output.Format{output.JsonFormat, output.TableFormat, output.NoneFormat},
		output.TableFormat,
	)

	return cmd
}

// phaseView renders the contributing signals as a table, strongest
// first.
type phaseView struct {
	*phase.Result
}

func (v *phaseView) TableHeader() []string {
	return []string{"SIGNAL", "VALUE"}
}

func (v *phaseView) TableRows() [][]string {
	names := make([]string, 0, len(v.Signals))
	for name, value := range v.Signals {
		if value > 0 {
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		if v.Signals[names[i]] != v.Signals[names[j]] {
			return v.Signals[names[i]] > v.Signals[names[j]]
		}
		return names[i] < names[j]
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.FormatFloat(v.Signals[name], 'f', 2, 64)})
	}

	return rows
}
