// ABOUTME: Version command and build metadata
// ABOUTME: Values are injected with -ldflags at release time

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "thoughts %s\n", Version)
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\nbuilt:  %s\n", Commit, BuildDate)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
