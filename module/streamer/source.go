package streamer

import (
	"context"
	"errors"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

// ErrEndOfStream is returned by a Source which has no further messages.
var ErrEndOfStream = errors.New("end of stream")

// Source yields streamer messages in stream order. Implementations are not safe for
// concurrent use.
type Source interface {
	// Next blocks until the next message is available.
	// Expected errors:
	// - ErrEndOfStream if the source is exhausted
	// - context errors if ctx is done before a message is available
	Next(ctx context.Context) (*stream.StreamerMessage, error)
}
