package mempool

import (
	"github.com/nearwatch/receipt-watcher/model/stream"
)

// PendingReceipt is a watched transaction waiting for the execution outcome of the
// receipt it was converted into.
type PendingReceipt struct {
	ReceiptID  stream.CryptoHash
	TxHash     stream.CryptoHash
	ReceiverID stream.AccountID
	// Height of the block which included the transaction.
	Height uint64
}

// PendingReceipts stores pending receipts indexed by the receipt id.
// Presence of a receipt id is the only membership record: an entry is
// added once and removed exactly once, either when taken or when ejected.
type PendingReceipts interface {
	// Add a pending receipt
	// return true if added
	// return false if a receipt with the same id is already pending
	Add(receipt PendingReceipt) bool

	// Take removes the pending receipt with the given id and returns it.
	// The second return value is false if no such receipt is pending.
	Take(receiptID stream.CryptoHash) (PendingReceipt, bool)

	// Has returns true if a receipt with the given id is pending.
	Has(receiptID stream.CryptoHash) bool

	// Size returns the number of pending receipts.
	Size() uint

	// All returns all pending receipts, in no particular order.
	All() []PendingReceipt

	// PruneUpToHeight removes all receipts registered for blocks whose height is
	// strictly smaller than height and returns them. Receipts at height are retained.
	PruneUpToHeight(height uint64) []PendingReceipt
}

// EjectionCallback is notified about receipts dropped from a bounded mempool to make
// room for new ones.
type EjectionCallback func(receipt PendingReceipt)
