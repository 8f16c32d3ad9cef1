package streamer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module"
	"github.com/nearwatch/receipt-watcher/storage"
)

const retryJitterPercent = 10

// StoreSource delivers the messages of a message store in height order, starting at a
// given height. Heights missing from the store are skipped.
//
// When following, the source waits for heights which are not stored yet, polling the
// store with an exponential backoff. Otherwise it ends with the highest stored height.
type StoreSource struct {
	log      zerolog.Logger
	metrics  module.StreamerMetrics
	messages storage.StreamMessages
	from     uint64 // lowest height which may be delivered next
	done     bool
	config   Config
}

var _ Source = (*StoreSource)(nil)

func NewStoreSource(
	log zerolog.Logger,
	metrics module.StreamerMetrics,
	messages storage.StreamMessages,
	start uint64,
	config Config,
) (*StoreSource, error) {
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", config.PollInterval)
	}
	if config.PollMaxInterval < config.PollInterval {
		return nil, fmt.Errorf("max poll interval %s is lower than poll interval %s", config.PollMaxInterval, config.PollInterval)
	}

	return &StoreSource{
		log:      log.With().Str("source", "store").Logger(),
		metrics:  metrics,
		messages: messages,
		from:     start,
		config:   config,
	}, nil
}

func (s *StoreSource) Next(ctx context.Context) (*stream.StreamerMessage, error) {
	if s.done {
		return nil, ErrEndOfStream
	}

	height, err := s.nextHeight(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.ByHeight(height)
	if err != nil {
		return nil, fmt.Errorf("could not load message at height %d: %w", height, err)
	}

	if height == math.MaxUint64 {
		s.done = true
	} else {
		s.from = height + 1
	}
	return msg, nil
}

// nextHeight finds the next stored height, waiting for it when following.
func (s *StoreSource) nextHeight(ctx context.Context) (uint64, error) {
	backoff := retry.NewExponential(s.config.PollInterval)
	backoff = retry.WithCappedDuration(s.config.PollMaxInterval, backoff)
	backoff = retry.WithJitterPercent(retryJitterPercent, backoff)

	var height uint64
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		next, err := s.messages.NextHeight(s.from)
		if errors.Is(err, storage.ErrNotFound) {
			if !s.config.Follow {
				return ErrEndOfStream
			}
			s.metrics.SourceRetried()
			s.log.Trace().Uint64("from", s.from).Msg("height not available yet, retrying")
			return retry.RetryableError(err)
		}
		if err != nil {
			return fmt.Errorf("could not look up next height from %d: %w", s.from, err)
		}

		height = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return height, nil
}
