package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nearwatch/receipt-watcher/engine/watcher"
	"github.com/nearwatch/receipt-watcher/module"
	"github.com/nearwatch/receipt-watcher/module/component"
	"github.com/nearwatch/receipt-watcher/module/metrics"
	"github.com/nearwatch/receipt-watcher/module/streamer"
	"github.com/nearwatch/receipt-watcher/storage"
	bstorage "github.com/nearwatch/receipt-watcher/storage/badger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Follow the block stream and report the outcomes of watched transactions",
	Run:   run,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	streamerDefaults := streamer.DefaultConfig()

	cmd.Flags().StringSlice("accounts", nil, "comma separated list of accounts to watch")
	cmd.Flags().Uint("metrics-port", 0, "port of the prometheus metrics endpoint, 0 disables it")
	cmd.Flags().Uint("pending-limit", 0, "maximum number of transactions waiting for their outcome, 0 for no limit")
	cmd.Flags().Uint64("pending-ttl-blocks", 0, "number of blocks a transaction waits for its outcome, 0 for no limit")
	cmd.Flags().Uint("stream-buffer", streamerDefaults.BufferSize, "number of messages buffered between the stream provider and the watcher")
	cmd.Flags().String("source", sourceStore, "where messages are read from: store or file")
	cmd.Flags().String("sync-mode", string(streamer.SyncFromInterruption), "where the store source starts: latest, interruption or height")
	cmd.Flags().Uint64("start-height", 0, "first height read by the store source in height mode, or when there is nothing to resume from")
	cmd.Flags().Bool("follow", streamerDefaults.Follow, "keep waiting for new heights once the store source caught up")
	cmd.Flags().Duration("poll-interval", streamerDefaults.PollInterval, "initial delay between polls of the store for a new height")
	cmd.Flags().Duration("poll-max-interval", streamerDefaults.PollMaxInterval, "maximum delay between polls of the store for a new height")
	addInputFlags(cmd)
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "file to read messages from, - for stdin")
	cmd.Flags().String("input-format", string(streamer.FormatJSON), "encoding of the input file: json or cbor")
}

func run(cmd *cobra.Command, _ []string) {
	config, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}

	log, err := newLogger(os.Stdout, config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}

	err = config.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	watched, err := watcher.ParseWatchList(config.Accounts)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid watch list")
	}
	log.Info().Strs("accounts", watched.Strings()).Msg("watching accounts")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runWatcher(ctx, log, config, watched, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("receipt watcher failed")
	}
	log.Info().Msg("receipt watcher stopped")
}

// runWatcher runs the watcher until the block stream ends or ctx is cancelled.
func runWatcher(ctx context.Context, log zerolog.Logger, config *Config, watched watcher.WatchList, diagnostics io.Writer) error {
	var watcherMetrics module.WatcherMetrics = metrics.NewNoopCollector()
	var streamerMetrics module.StreamerMetrics = metrics.NewNoopCollector()
	var components []component.Component
	if config.MetricsPort > 0 {
		watcherMetrics = metrics.NewWatcherCollector()
		streamerMetrics = metrics.NewStreamerCollector()
		components = append(components, metrics.NewServer(log, config.MetricsPort))
	}

	source, progress, closeSource, err := openSource(log, config, streamerMetrics)
	if err != nil {
		return err
	}
	defer closeSource()

	core, err := watcher.NewCore(log, watcherMetrics, watched, diagnostics, config.WatcherConfig())
	if err != nil {
		return fmt.Errorf("could not create watcher core: %w", err)
	}

	// the run is over once the engine stops, at the end of the block stream
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	blocks := streamer.New(log, streamerMetrics, source, progress, config.StreamerConfig())
	engine := watcher.New(log, core, blocks.Messages())
	components = append(components, blocks)

	node := newNode(engine, cancel, components...)
	err = component.RunComponent(runCtx, func() (component.Component, error) {
		return node, nil
	}, func(err error) component.ErrorHandlingResult {
		return component.ErrorHandlingStop
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openSource opens the configured message source. The returned progress is nil
// for sources which cannot be resumed.
func openSource(log zerolog.Logger, config *Config, streamerMetrics module.StreamerMetrics) (streamer.Source, storage.ConsumerProgress, func(), error) {
	switch config.Source {
	case sourceFile:
		format, err := streamer.ParseFormat(config.InputFormat)
		if err != nil {
			return nil, nil, nil, err
		}
		input, closeInput, err := openInput(config.Input)
		if err != nil {
			return nil, nil, nil, err
		}
		source, err := streamer.NewFileSource(input, format)
		if err != nil {
			closeInput()
			return nil, nil, nil, err
		}
		return source, nil, closeInput, nil

	case sourceStore:
		mode, err := streamer.ParseSyncMode(config.SyncMode)
		if err != nil {
			return nil, nil, nil, err
		}
		db, err := openDB(config.DataDir())
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("could not close database")
			}
		}

		messages := bstorage.NewStreamMessages(db)
		progress := bstorage.NewConsumerProgress(db, streamer.ConsumerName)
		start, err := streamer.StartHeight(mode, messages, progress, config.StartHeight)
		if err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("could not resolve start height: %w", err)
		}
		log.Info().Str("sync_mode", string(mode)).Uint64("start_height", start).Msg("reading messages from store")

		source, err := streamer.NewStoreSource(log, streamerMetrics, messages, start, config.StreamerConfig())
		if err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		return source, progress, closeDB, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown source %q", config.Source)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open input: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func openDB(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("could not open key-value store at %s: %w", dir, err)
	}
	return db, nil
}
