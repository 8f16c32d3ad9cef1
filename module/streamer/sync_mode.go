package streamer

import (
	"errors"
	"fmt"

	"github.com/nearwatch/receipt-watcher/storage"
)

// SyncMode decides where a store backed stream starts.
type SyncMode string

const (
	// SyncFromLatest starts after the highest stored height, delivering only new messages.
	SyncFromLatest SyncMode = "latest"
	// SyncFromInterruption resumes after the last height handed to the consumer
	// by a previous run. Without a previous run it behaves like SyncFromHeight.
	SyncFromInterruption SyncMode = "interruption"
	// SyncFromHeight starts at a configured height.
	SyncFromHeight SyncMode = "height"
)

func ParseSyncMode(s string) (SyncMode, error) {
	switch mode := SyncMode(s); mode {
	case SyncFromLatest, SyncFromInterruption, SyncFromHeight:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown sync mode %q (expected %q, %q or %q)", s, SyncFromLatest, SyncFromInterruption, SyncFromHeight)
	}
}

// StartHeight resolves the first height to deliver for the given sync mode.
// No errors are expected during normal operation.
func StartHeight(
	mode SyncMode,
	messages storage.StreamMessages,
	progress storage.ConsumerProgress,
	startHeight uint64,
) (uint64, error) {
	switch mode {
	case SyncFromHeight:
		return startHeight, nil

	case SyncFromLatest:
		latest, err := messages.LatestHeight()
		if errors.Is(err, storage.ErrNotFound) {
			return startHeight, nil
		}
		if err != nil {
			return 0, fmt.Errorf("could not get latest stored height: %w", err)
		}
		return latest + 1, nil

	case SyncFromInterruption:
		processed, err := progress.ProcessedIndex()
		if errors.Is(err, storage.ErrNotFound) {
			return startHeight, nil
		}
		if err != nil {
			return 0, fmt.Errorf("could not get processed height of %s: %w", progress.Consumer(), err)
		}
		return processed + 1, nil

	default:
		return 0, fmt.Errorf("unknown sync mode %q", mode)
	}
}
