package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nearwatch/receipt-watcher/engine/watcher"
	"github.com/nearwatch/receipt-watcher/module/streamer"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory with a default configuration file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	path, err := writeDefaultConfig(config.Home, force)
	if err != nil {
		return err
	}

	err = os.MkdirAll(config.DataDir(), 0700)
	if err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
	return nil
}

// writeDefaultConfig writes a configuration file holding the defaults of every
// setting into home. An existing file is only replaced if force is set.
func writeDefaultConfig(home string, force bool) (string, error) {
	err := os.MkdirAll(home, 0700)
	if err != nil {
		return "", fmt.Errorf("could not create home directory: %w", err)
	}

	watcherDefaults := watcher.DefaultConfig()
	streamerDefaults := streamer.DefaultConfig()

	v := viper.New()
	v.Set("accounts", []string{})
	v.Set("loglevel", "info")
	v.Set("log-format", logFormatJSON)
	v.Set("metrics-port", 0)
	v.Set("pending-limit", watcherDefaults.PendingLimit)
	v.Set("pending-ttl-blocks", watcherDefaults.PendingTTL)
	v.Set("stream-buffer", streamerDefaults.BufferSize)
	v.Set("source", sourceStore)
	v.Set("sync-mode", string(streamer.SyncFromInterruption))
	v.Set("start-height", 0)
	v.Set("follow", streamerDefaults.Follow)
	v.Set("poll-interval", streamerDefaults.PollInterval.String())
	v.Set("poll-max-interval", streamerDefaults.PollMaxInterval.String())

	path := filepath.Join(home, configFileName)
	if force {
		err = v.WriteConfigAs(path)
	} else {
		err = v.SafeWriteConfigAs(path)
	}
	if err != nil {
		return "", fmt.Errorf("could not write configuration file: %w", err)
	}
	return path, nil
}
