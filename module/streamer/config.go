package streamer

import (
	"time"
)

type Config struct {
	// BufferSize is the capacity of the message channel.
	BufferSize uint
	// Follow keeps the store source waiting for new heights once it caught up.
	Follow bool
	// PollInterval is the initial delay between polls of the store for a new height.
	PollInterval time.Duration
	// PollMaxInterval caps the exponential growth of the poll delay.
	PollMaxInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		BufferSize:      100,
		Follow:          false,
		PollInterval:    100 * time.Millisecond,
		PollMaxInterval: 5 * time.Second,
	}
}
