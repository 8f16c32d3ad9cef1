package operation

import (
	"errors"
	"syscall"

	"github.com/dgraph-io/badger/v2"
)

func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

// TerminateOnFullDisk helper function to crash the process if write failed because disk is full
func TerminateOnFullDisk(err error) error {
	// using panic so any deferred functions can still execute
	// relevant badgerDB code: https://github.com/dgraph-io/badger/blob/156819ccb106bbeb207e985f561780e2929344bc/value.go#L1454-L1463
	if err != nil && errors.Is(err, syscall.ENOSPC) {
		panic("disk full, terminating...")
	}
	return err
}
