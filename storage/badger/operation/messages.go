package operation

import (
	"math"

	"github.com/dgraph-io/badger/v2"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

func InsertStreamMessage(height uint64, msg *stream.StreamerMessage) func(*badger.Txn) error {
	return insert(makePrefix(codeStreamMessage, height), msg)
}

func RetrieveStreamMessage(height uint64, msg *stream.StreamerMessage) func(*badger.Txn) error {
	return retrieve(makePrefix(codeStreamMessage, height), msg)
}

// FindNextStreamHeight looks up the lowest stored height at or above from.
// Error returns:
//   - storage.ErrNotFound if there is no such height
func FindNextStreamHeight(from uint64, next *uint64) func(*badger.Txn) error {
	return findStreamHeight(makePrefix(codeStreamMessage, from), false, next)
}

// FindLatestStreamHeight looks up the highest stored height.
// Error returns:
//   - storage.ErrNotFound if no message is stored
func FindLatestStreamHeight(latest *uint64) func(*badger.Txn) error {
	return findStreamHeight(makePrefix(codeStreamMessage, uint64(math.MaxUint64)), true, latest)
}

func findStreamHeight(start []byte, reverse bool, height *uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var key []byte
		err := seekKey(makePrefix(codeStreamMessage), start, reverse, &key)(tx)
		if err != nil {
			return err
		}
		*height, err = heightFromKey(key)
		return err
	}
}
