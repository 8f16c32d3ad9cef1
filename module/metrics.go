package module

import (
	"time"
)

// WatcherMetrics records the progress of the receipt watcher engine.
type WatcherMetrics interface {
	// BlockProcessed records a streamer message which has been fully processed.
	BlockProcessed(height uint64, duration time.Duration, transactions int, outcomes int)

	// TransactionMatched records a watched transaction registered as pending.
	TransactionMatched()

	// ReceiptResolved records the outcome of a pending receipt.
	ReceiptResolved(success bool)

	// PendingReceipts records the current number of pending receipts.
	PendingReceipts(count uint)

	// PendingReceiptsDropped records pending receipts removed without an outcome.
	PendingReceiptsDropped(reason string, count int)

	// ArgsDecodeFailed records a function call whose arguments could not be decoded at the given stage.
	ArgsDecodeFailed(stage string)
}

// StreamerMetrics records the progress of the stream provider.
type StreamerMetrics interface {
	// MessageDelivered records a streamer message handed to the consumer.
	MessageDelivered(height uint64)

	// SourceRetried records an attempt to read a height which is not available yet.
	SourceRetried()
}
