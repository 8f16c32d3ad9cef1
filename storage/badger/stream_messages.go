package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/storage"
	"github.com/nearwatch/receipt-watcher/storage/badger/operation"
)

// StreamMessages implements persistent storage of streamer messages, keyed by block height.
type StreamMessages struct {
	db *badger.DB
}

var _ storage.StreamMessages = (*StreamMessages)(nil)

func NewStreamMessages(db *badger.DB) *StreamMessages {
	return &StreamMessages{db: db}
}

func (s *StreamMessages) Store(msg *stream.StreamerMessage) error {
	err := operation.RetryOnConflict(s.db.Update, operation.InsertStreamMessage(msg.Height(), msg))
	if err != nil {
		return fmt.Errorf("could not store message at height %d: %w", msg.Height(), operation.TerminateOnFullDisk(err))
	}
	return nil
}

func (s *StreamMessages) ByHeight(height uint64) (*stream.StreamerMessage, error) {
	var msg stream.StreamerMessage
	err := s.db.View(operation.RetrieveStreamMessage(height, &msg))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve message at height %d: %w", height, err)
	}
	return &msg, nil
}

func (s *StreamMessages) NextHeight(from uint64) (uint64, error) {
	var next uint64
	err := s.db.View(operation.FindNextStreamHeight(from, &next))
	if err != nil {
		return 0, fmt.Errorf("could not find height from %d: %w", from, err)
	}
	return next, nil
}

func (s *StreamMessages) LatestHeight() (uint64, error) {
	var latest uint64
	err := s.db.View(operation.FindLatestStreamHeight(&latest))
	if err != nil {
		return 0, fmt.Errorf("could not find latest height: %w", err)
	}
	return latest, nil
}
