package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nearwatch/receipt-watcher/module"
)

var _ module.WatcherMetrics = (*WatcherCollector)(nil)

type WatcherCollector struct {
	processDuration        prometheus.Histogram
	highestProcessedHeight prometheus.Gauge
	processedTransactions  prometheus.Counter
	processedOutcomes      prometheus.Counter
	matchedTransactions    prometheus.Counter
	resolvedReceipts       *prometheus.CounterVec
	pendingReceipts        prometheus.Gauge
	droppedReceipts        *prometheus.CounterVec
	argsDecodeFailures     *prometheus.CounterVec
}

func NewWatcherCollector() *WatcherCollector {
	return &WatcherCollector{
		processDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "block_process_duration_ms",
			Help:      "the duration of processing a single streamer message",
			Buckets:   []float64{1, 5, 10, 50, 100, 500},
		}),
		highestProcessedHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "highest_processed_height",
			Help:      "highest block height that has been processed",
		}),
		processedTransactions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "processed_transactions_total",
			Help:      "number of chunk transactions inspected",
		}),
		processedOutcomes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "processed_receipt_outcomes_total",
			Help:      "number of receipt execution outcomes inspected",
		}),
		matchedTransactions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "matched_transactions_total",
			Help:      "number of transactions sent to a watched account",
		}),
		resolvedReceipts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "resolved_receipts_total",
			Help:      "number of pending receipts resolved by an execution outcome",
		}, []string{LabelOutcome}),
		pendingReceipts: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "pending_receipts",
			Help:      "number of watched transactions waiting for their receipt outcome",
		}),
		droppedReceipts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "dropped_receipts_total",
			Help:      "number of pending receipts dropped before an outcome was observed",
		}, []string{LabelReason}),
		argsDecodeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemEngine,
			Name:      "args_decode_failures_total",
			Help:      "number of function call arguments which could not be decoded",
		}, []string{LabelStage}),
	}
}

// BlockProcessed records metrics from processing a single streamer message.
func (c *WatcherCollector) BlockProcessed(height uint64, duration time.Duration, transactions int, outcomes int) {
	c.processDuration.Observe(float64(duration.Milliseconds()))
	c.highestProcessedHeight.Set(float64(height))
	c.processedTransactions.Add(float64(transactions))
	c.processedOutcomes.Add(float64(outcomes))
}

func (c *WatcherCollector) TransactionMatched() {
	c.matchedTransactions.Inc()
}

func (c *WatcherCollector) ReceiptResolved(success bool) {
	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}
	c.resolvedReceipts.WithLabelValues(outcome).Inc()
}

func (c *WatcherCollector) PendingReceipts(count uint) {
	c.pendingReceipts.Set(float64(count))
}

func (c *WatcherCollector) PendingReceiptsDropped(reason string, count int) {
	c.droppedReceipts.WithLabelValues(reason).Add(float64(count))
}

func (c *WatcherCollector) ArgsDecodeFailed(stage string) {
	c.argsDecodeFailures.WithLabelValues(stage).Inc()
}
