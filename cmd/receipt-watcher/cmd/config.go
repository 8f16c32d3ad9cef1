package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nearwatch/receipt-watcher/engine/watcher"
	"github.com/nearwatch/receipt-watcher/module/streamer"
)

const (
	sourceStore = "store"
	sourceFile  = "file"
)

// Config holds the settings of all commands. Values are taken from flags, then
// RECEIPT_WATCHER_* environment variables, then the config file in the home
// directory, then the flag defaults.
type Config struct {
	Home             string        `mapstructure:"home"`
	Accounts         []string      `mapstructure:"accounts"`
	LogLevel         string        `mapstructure:"loglevel"`
	LogFormat        string        `mapstructure:"log-format"`
	MetricsPort      uint          `mapstructure:"metrics-port"`
	PendingLimit     uint          `mapstructure:"pending-limit"`
	PendingTTLBlocks uint64        `mapstructure:"pending-ttl-blocks"`
	StreamBuffer     uint          `mapstructure:"stream-buffer"`
	Source           string        `mapstructure:"source"`
	Input            string        `mapstructure:"input"`
	InputFormat      string        `mapstructure:"input-format"`
	SyncMode         string        `mapstructure:"sync-mode"`
	StartHeight      uint64        `mapstructure:"start-height"`
	Follow           bool          `mapstructure:"follow"`
	PollInterval     time.Duration `mapstructure:"poll-interval"`
	PollMaxInterval  time.Duration `mapstructure:"poll-max-interval"`
}

// loadConfig merges the flags of cmd with the environment and the config file.
// A missing config file is not an error.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("could not bind flags: %w", err)
	}

	home, err := expandHome(v.GetString("home"))
	if err != nil {
		return nil, err
	}

	v.SetConfigFile(filepath.Join(home, configFileName))
	err = v.ReadInConfig()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	config.Home = home

	return &config, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (c *Config) DataDir() string {
	return filepath.Join(c.Home, dataDirName)
}

func (c *Config) WatcherConfig() watcher.Config {
	return watcher.Config{
		PendingLimit: c.PendingLimit,
		PendingTTL:   c.PendingTTLBlocks,
	}
}

func (c *Config) StreamerConfig() streamer.Config {
	return streamer.Config{
		BufferSize:      c.StreamBuffer,
		Follow:          c.Follow,
		PollInterval:    c.PollInterval,
		PollMaxInterval: c.PollMaxInterval,
	}
}

// Validate checks the settings used by the run command. The watch list is validated
// separately since its failure is reported per account.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Source {
	case sourceStore:
		if _, err := streamer.ParseSyncMode(c.SyncMode); err != nil {
			result = multierror.Append(result, err)
		}
	case sourceFile:
		if c.Input == "" {
			result = multierror.Append(result, fmt.Errorf("input must be set for the %s source", sourceFile))
		}
		if _, err := streamer.ParseFormat(c.InputFormat); err != nil {
			result = multierror.Append(result, err)
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown source %q (expected %q or %q)", c.Source, sourceStore, sourceFile))
	}

	if c.LogFormat != logFormatJSON && c.LogFormat != logFormatConsole {
		result = multierror.Append(result, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.MetricsPort > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid metrics port %d", c.MetricsPort))
	}

	return result.ErrorOrNil()
}
