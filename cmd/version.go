// Copyright (c) Stackscan authors. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackscan/stackscan/internal"
)

func newVersionCmd() *cobra.Command {
	var outputJson bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of stackscan.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputJson {
				info, err := internal.GetVersionInfo()
				if err != nil {
					return err
				}

				data, err := json.Marshal(info)
				if err != nil {
					return fmt.Errorf("marshaling version: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stackscan version %s\n", internal.GetVersionNumber())
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJson, "json", false, "Prints the version as JSON.")

	return cmd
}
