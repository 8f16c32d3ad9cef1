package metrics

import (
	"time"

	"github.com/nearwatch/receipt-watcher/module"
)

type NoopCollector struct{}

var _ module.WatcherMetrics = (*NoopCollector)(nil)
var _ module.StreamerMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) BlockProcessed(uint64, time.Duration, int, int) {}
func (nc *NoopCollector) TransactionMatched()                            {}
func (nc *NoopCollector) ReceiptResolved(bool)                           {}
func (nc *NoopCollector) PendingReceipts(uint)                           {}
func (nc *NoopCollector) PendingReceiptsDropped(string, int)             {}
func (nc *NoopCollector) ArgsDecodeFailed(string)                        {}
func (nc *NoopCollector) MessageDelivered(uint64)                        {}
func (nc *NoopCollector) SourceRetried()                                 {}
