package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	envPrefix      = "RECEIPT_WATCHER"
	configFileName = "config.yaml"
	dataDirName    = "data"
)

var rootCmd = &cobra.Command{
	Use:   "receipt-watcher",
	Short: "Watch transactions sent to a set of accounts and report their execution outcomes",
	// errors are reported by Execute
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	addRootFlags(rootCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("home", defaultHome(), "directory holding the configuration file and the message store")
	cmd.PersistentFlags().StringP("loglevel", "l", "info", "level for logging output")
	cmd.PersistentFlags().String("log-format", logFormatJSON, "log output format: json or console")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".receipt-watcher"
	}
	return filepath.Join(home, ".receipt-watcher")
}
