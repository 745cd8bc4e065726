// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
	"github.com/stackscan/stackscan/internal/cache"
	"github.com/stackscan/stackscan/pkg/output"
)

func newCacheCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the detection result cache.",
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry and hit counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.New()
			if err != nil {
				return err
			}

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			formatter, err := output.NewFormatter(outputFormat)
			if err != nil {
				return err
			}

			return formatter.Format(&cacheStatsView{stats}, cmd.OutOrStdout())
		},
	}

	output.AddOutputFlag(
		cmd.Flags(),
		&outputFormat,
		[]output.Format{output.JsonFormat, output.TableFormat},
		output.TableFormat,
	)

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached detection results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.New()
			if err != nil {
				return err
			}

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

type cacheStatsView struct {
	cache.Stats
}

func (v *cacheStatsView) TableHeader() []string {
	return []string{"ENTRIES", "HITS", "MISSES", "HIT RATE", "SIZE", "PATH"}
}

func (v *cacheStatsView) TableRows() [][]string {
	return [][]string{{
		strconv.Itoa(v.Entries),
		strconv.Itoa(v.Hits),
		strconv.Itoa(v.Misses),
		strconv.FormatFloat(v.HitRate, 'f', 2, 64),
		strconv.FormatInt(v.SizeBytes, 10) + "B",
		v.Path,
	}}
}
