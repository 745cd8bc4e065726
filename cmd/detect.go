// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/cache"
	"github.com/stackscan/stackscan/internal/detect"
	"github.com/stackscan/stackscan/pkg/output"
)

type detectFlags struct {
	noCache      bool
	outputFormat string
}

func newDetectCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	flags := &detectFlags{}

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Detect the framework and language of a project.",
		Long: heredoc.Doc(`
			Scans a project directory for framework indicators such as manifest
			files, dependency declarations and conventional directory layouts,
			and reports the best match with a confidence score.

			Results are cached per project until a manifest file changes, the
			cache entry ages out, or the tool version changes.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot(args)

			result, err := detectWithCache(cmd, root, flags.noCache)
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(flags.outputFormat)
			if err != nil {
				return err
			}

			if formatter.Kind() == output.TableFormat {
				printDetectSummary(cmd, result)
			}

			return formatter.Format(&detectView{result}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypasses the result cache and forces a fresh scan.")
	output.AddOutputFlag(
		cmd.Flags(),
		&flags.outputFormat,
		[]output.Format{output.JsonFormat, output.TableFormat, output.NoneFormat},
		output.TableFormat,
	)

	return cmd
}

// detectWithCache runs detection, consulting the result cache unless
// bypassed. Cache failures degrade to a fresh scan.
func detectWithCache(cmd *cobra.Command, root string, noCache bool) (*detect.Result, error) {
	ctx := cmd.Context()

	var store *cache.Cache
	if !noCache {
		var err error
		store, err = cache.New()
		if err != nil {
			log.Printf("cache unavailable, scanning fresh: %v", err)
			store = nil
		}
	}

	if store != nil {
		if cached, ok := store.Get(ctx, root); ok {
			log.Printf("cache hit for %s", root)
			return cached, nil
		}
	}

	scanner := detect.NewScanner(detect.DefaultRuleset())
	result, err := scanner.Detect(ctx, root)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(ctx, root, result); err != nil {
			log.Printf("storing result in cache: %v", err)
		}
	}

	return result, nil
}

func printDetectSummary(cmd *cobra.Command, result *detect.Result) {
	out := cmd.OutOrStdout()

	if result.IsUnknown() {
		fmt.Fprintln(out, color.YellowString("No known framework detected."))
		return
	}

	fmt.Fprintf(
		out,
		"Detected %s (%s) with confidence %.2f\n",
		color.GreenString(result.Framework.Display()),
		result.Language,
		result.Confidence,
	)

	if result.Monorepo != nil && result.Monorepo.IsMonorepo {
		fmt.Fprintf(
			out,
			"Monorepo managed by %s with %d workspaces\n",
			result.Monorepo.Manager,
			len(result.Monorepo.Workspaces),
		)
	}

	fmt.Fprintln(out)
}

// detectView adds table rendering on top of the raw result.
type detectView struct {
	*detect.Result
}

func (v *detectView) TableHeader() []string {
	return []string{"FRAMEWORK", "LANGUAGE", "VERSION", "CONFIDENCE", "INDICATORS"}
}

func (v *detectView) TableRows() [][]string {
	version := v.Version
	if version == "" {
		version = "-"
	}

	rows := [][]string{{
		string(v.Framework),
		v.Language,
		version,
		strconv.FormatFloat(v.Confidence, 'f', 2, 64),
		strconv.Itoa(len(v.MatchedIndicators)),
	}}

	for _, ranking := range v.Ranked {
		if ranking.Framework == string(v.Framework) {
			continue
		}

		rows = append(rows, []string{
			ranking.Framework,
			"",
			"",
			strconv.FormatFloat(ranking.Confidence, 'f', 2, 64),
			"",
		})
	}

	return rows
}
