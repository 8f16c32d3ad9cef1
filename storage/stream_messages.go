package storage

import (
	"github.com/nearwatch/receipt-watcher/model/stream"
)

// StreamMessages persists streamer messages by block height.
// Heights of a chain are not contiguous: blocks may be skipped.
type StreamMessages interface {
	// Store persists the message under its block height.
	// Errors:
	// storage.ErrAlreadyExists if a message for this height is stored already
	Store(msg *stream.StreamerMessage) error

	// ByHeight returns the message stored for the given height.
	// Errors:
	// storage.ErrNotFound if no message is stored for the height
	ByHeight(height uint64) (*stream.StreamerMessage, error)

	// NextHeight returns the lowest stored height at or above from.
	// Errors:
	// storage.ErrNotFound if no such height is stored (yet)
	NextHeight(from uint64) (uint64, error)

	// LatestHeight returns the highest stored height.
	// Errors:
	// storage.ErrNotFound if the store is empty
	LatestHeight() (uint64, error)
}
