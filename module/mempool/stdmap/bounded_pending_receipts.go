package stdmap

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module/mempool"
)

var _ mempool.PendingReceipts = (*BoundedPendingReceipts)(nil)

// BoundedPendingReceipts is a memory pool of pending receipts holding at most limit entries.
// When full, adding a receipt ejects the least recently added one and reports it to the
// ejection callback.
type BoundedPendingReceipts struct {
	sync.Mutex
	limit    uint
	receipts *simplelru.LRU[stream.CryptoHash, mempool.PendingReceipt]
	onEject  mempool.EjectionCallback
}

// NewBoundedPendingReceipts creates a bounded memory pool. onEject may be nil.
func NewBoundedPendingReceipts(limit uint, onEject mempool.EjectionCallback) (*BoundedPendingReceipts, error) {
	if limit == 0 {
		return nil, fmt.Errorf("limit of bounded pending receipts must be positive")
	}

	// no eviction callback: simplelru also invokes it on explicit removal, but only
	// capacity ejections must be reported.
	receipts, err := simplelru.NewLRU[stream.CryptoHash, mempool.PendingReceipt](int(limit), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create lru: %w", err)
	}

	return &BoundedPendingReceipts{
		limit:    limit,
		receipts: receipts,
		onEject:  onEject,
	}, nil
}

func (b *BoundedPendingReceipts) Add(receipt mempool.PendingReceipt) bool {
	b.Lock()
	defer b.Unlock()

	if b.receipts.Contains(receipt.ReceiptID) {
		return false
	}

	if uint(b.receipts.Len()) >= b.limit {
		_, ejected, ok := b.receipts.RemoveOldest()
		if ok && b.onEject != nil {
			b.onEject(ejected)
		}
	}

	b.receipts.Add(receipt.ReceiptID, receipt)
	return true
}

func (b *BoundedPendingReceipts) Take(receiptID stream.CryptoHash) (mempool.PendingReceipt, bool) {
	b.Lock()
	defer b.Unlock()

	receipt, ok := b.receipts.Peek(receiptID)
	if !ok {
		return mempool.PendingReceipt{}, false
	}
	b.receipts.Remove(receiptID)
	return receipt, true
}

func (b *BoundedPendingReceipts) Has(receiptID stream.CryptoHash) bool {
	b.Lock()
	defer b.Unlock()
	return b.receipts.Contains(receiptID)
}

func (b *BoundedPendingReceipts) Size() uint {
	b.Lock()
	defer b.Unlock()
	return uint(b.receipts.Len())
}

func (b *BoundedPendingReceipts) All() []mempool.PendingReceipt {
	b.Lock()
	defer b.Unlock()
	return b.receipts.Values()
}

func (b *BoundedPendingReceipts) PruneUpToHeight(height uint64) []mempool.PendingReceipt {
	b.Lock()
	defer b.Unlock()

	var pruned []mempool.PendingReceipt
	for _, receiptID := range b.receipts.Keys() {
		receipt, ok := b.receipts.Peek(receiptID)
		if !ok || receipt.Height >= height {
			continue
		}
		b.receipts.Remove(receiptID)
		pruned = append(pruned, receipt)
	}
	return pruned
}
