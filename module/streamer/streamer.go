package streamer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module"
	"github.com/nearwatch/receipt-watcher/module/component"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
	"github.com/nearwatch/receipt-watcher/storage"
)

// ConsumerName identifies the streamer's progress in the consumer progress storage.
const ConsumerName = "streamer"

// Streamer reads messages from a Source and hands them to a single consumer through a
// bounded channel. The channel is closed once the source is exhausted or the
// component shuts down.
type Streamer struct {
	*component.ComponentManager
	log      zerolog.Logger
	metrics  module.StreamerMetrics
	source   Source
	progress storage.ConsumerProgress
	messages chan *stream.StreamerMessage
}

// New creates a Streamer. If progress is not nil, the height of every message handed
// to the consumer is recorded in it.
func New(
	log zerolog.Logger,
	metrics module.StreamerMetrics,
	source Source,
	progress storage.ConsumerProgress,
	config Config,
) *Streamer {
	s := &Streamer{
		log:      log.With().Str("component", "streamer").Logger(),
		metrics:  metrics,
		source:   source,
		progress: progress,
		messages: make(chan *stream.StreamerMessage, config.BufferSize),
	}

	s.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(s.produce).
		Build()

	return s
}

// Messages returns the channel the messages are delivered on.
func (s *Streamer) Messages() <-chan *stream.StreamerMessage {
	return s.messages
}

func (s *Streamer) produce(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	defer close(s.messages)

	for {
		msg, err := s.source.Next(ctx)
		if errors.Is(err, ErrEndOfStream) {
			s.log.Info().Msg("end of stream reached")
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			ctx.Throw(fmt.Errorf("could not read next message: %w", err))
			return
		}

		select {
		case <-ctx.Done():
			return
		case s.messages <- msg:
		}
		s.metrics.MessageDelivered(msg.Height())

		if s.progress != nil {
			err = s.recordProgress(msg.Height())
			if err != nil {
				ctx.Throw(err)
				return
			}
		}
	}
}

func (s *Streamer) recordProgress(height uint64) error {
	err := s.progress.SetProcessedIndex(height)
	if errors.Is(err, storage.ErrNotFound) {
		err = s.progress.InitProcessedIndex(height)
	}
	if err != nil {
		return fmt.Errorf("could not record delivered height %d: %w", height, err)
	}
	return nil
}
