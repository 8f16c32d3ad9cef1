package stdmap

import (
	"sync"

	"github.com/nearwatch/receipt-watcher/model/stream"
	"github.com/nearwatch/receipt-watcher/module/mempool"
)

var _ mempool.PendingReceipts = (*PendingReceipts)(nil)

// PendingReceipts implements an unbounded memory pool of pending receipts backed by a Go map.
// It maintains a secondary index on the registration height for pruning.
type PendingReceipts struct {
	sync.RWMutex
	receipts map[stream.CryptoHash]mempool.PendingReceipt
	byHeight map[uint64]map[stream.CryptoHash]struct{}
}

// NewPendingReceipts creates a new, empty memory pool for pending receipts.
func NewPendingReceipts() *PendingReceipts {
	return &PendingReceipts{
		receipts: make(map[stream.CryptoHash]mempool.PendingReceipt),
		byHeight: make(map[uint64]map[stream.CryptoHash]struct{}),
	}
}

func (p *PendingReceipts) Add(receipt mempool.PendingReceipt) bool {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.receipts[receipt.ReceiptID]; ok {
		return false
	}
	p.receipts[receipt.ReceiptID] = receipt

	atHeight, ok := p.byHeight[receipt.Height]
	if !ok {
		atHeight = make(map[stream.CryptoHash]struct{})
		p.byHeight[receipt.Height] = atHeight
	}
	atHeight[receipt.ReceiptID] = struct{}{}

	return true
}

func (p *PendingReceipts) Take(receiptID stream.CryptoHash) (mempool.PendingReceipt, bool) {
	p.Lock()
	defer p.Unlock()

	receipt, ok := p.receipts[receiptID]
	if !ok {
		return mempool.PendingReceipt{}, false
	}
	p.remove(receipt)
	return receipt, true
}

func (p *PendingReceipts) Has(receiptID stream.CryptoHash) bool {
	p.RLock()
	defer p.RUnlock()
	_, ok := p.receipts[receiptID]
	return ok
}

func (p *PendingReceipts) Size() uint {
	p.RLock()
	defer p.RUnlock()
	return uint(len(p.receipts))
}

func (p *PendingReceipts) All() []mempool.PendingReceipt {
	p.RLock()
	defer p.RUnlock()

	all := make([]mempool.PendingReceipt, 0, len(p.receipts))
	for _, receipt := range p.receipts {
		all = append(all, receipt)
	}
	return all
}

func (p *PendingReceipts) PruneUpToHeight(height uint64) []mempool.PendingReceipt {
	p.Lock()
	defer p.Unlock()

	var pruned []mempool.PendingReceipt
	for h, atHeight := range p.byHeight {
		if h >= height {
			continue
		}
		for receiptID := range atHeight {
			receipt := p.receipts[receiptID]
			delete(p.receipts, receiptID)
			pruned = append(pruned, receipt)
		}
		delete(p.byHeight, h)
	}
	return pruned
}

// remove drops the receipt from both indices. Caller must hold the lock.
func (p *PendingReceipts) remove(receipt mempool.PendingReceipt) {
	delete(p.receipts, receipt.ReceiptID)

	atHeight := p.byHeight[receipt.Height]
	delete(atHeight, receipt.ReceiptID)
	if len(atHeight) == 0 {
		delete(p.byHeight, receipt.Height)
	}
}
