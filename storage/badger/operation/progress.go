package operation

import (
	"github.com/dgraph-io/badger/v2"
)

// RetrieveProcessedIndex returns the processed height for a stream consumer
func RetrieveProcessedIndex(consumer string, processed *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeConsumerProcessed, consumer), processed)
}

func InsertProcessedIndex(consumer string, processed uint64) func(*badger.Txn) error {
	return insert(makePrefix(codeConsumerProcessed, consumer), processed)
}

// SetProcessedIndex updates the processed height for a stream consumer with given height
func SetProcessedIndex(consumer string, processed uint64) func(*badger.Txn) error {
	return update(makePrefix(codeConsumerProcessed, consumer), processed)
}
