package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nearwatch/receipt-watcher/cmd/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of this build",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "version: %s\ncommit: %s\n", build.Version(), build.Commit())
	},
}
