package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nearwatch/receipt-watcher/module/streamer"
	"github.com/nearwatch/receipt-watcher/storage"
	bstorage "github.com/nearwatch/receipt-watcher/storage/badger"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load streamer messages from a file into the message store",
	Run:   runImport,
}

func init() {
	addInputFlags(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) {
	config, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}

	log, err := newLogger(os.Stderr, config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}

	if config.Input == "" {
		log.Fatal().Msg("missing flag: --input")
	}
	format, err := streamer.ParseFormat(config.InputFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid input format")
	}

	input, closeInput, err := openInput(config.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open input")
	}
	defer closeInput()

	db, err := openDB(config.DataDir())
	if err != nil {
		log.Fatal().Err(err).Msg("could not open message store")
	}
	defer db.Close()

	imported, skipped, err := importMessages(cmd.Context(), log, input, format, bstorage.NewStreamMessages(db))
	if err != nil {
		log.Fatal().Err(err).Int("imported", imported).Msg("import failed")
	}
	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("import finished")
}

// importMessages stores every message of the input. Heights which are stored
// already are skipped.
func importMessages(
	ctx context.Context,
	log zerolog.Logger,
	input io.Reader,
	format streamer.Format,
	messages storage.StreamMessages,
) (imported int, skipped int, err error) {
	source, err := streamer.NewFileSource(input, format)
	if err != nil {
		return 0, 0, err
	}

	for {
		msg, err := source.Next(ctx)
		if errors.Is(err, streamer.ErrEndOfStream) {
			return imported, skipped, nil
		}
		if err != nil {
			return imported, skipped, err
		}

		err = messages.Store(msg)
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Warn().Uint64("height", msg.Height()).Msg("message already stored, skipping")
			skipped++
			continue
		}
		if err != nil {
			return imported, skipped, err
		}

		imported++
		log.Debug().Uint64("height", msg.Height()).Msg("message imported")
	}
}
