package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nearwatch/receipt-watcher/module"
)

var _ module.StreamerMetrics = (*StreamerCollector)(nil)

type StreamerCollector struct {
	deliveredMessages      prometheus.Counter
	highestDeliveredHeight prometheus.Gauge
	sourceRetries          prometheus.Counter
}

func NewStreamerCollector() *StreamerCollector {
	return &StreamerCollector{
		deliveredMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemStreamer,
			Name:      "delivered_messages_total",
			Help:      "number of streamer messages handed to the watcher",
		}),
		highestDeliveredHeight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemStreamer,
			Name:      "highest_delivered_height",
			Help:      "height of the latest streamer message handed to the watcher",
		}),
		sourceRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceWatcher,
			Subsystem: subsystemStreamer,
			Name:      "source_retries_total",
			Help:      "number of reads retried because the next height was not available yet",
		}),
	}
}

func (c *StreamerCollector) MessageDelivered(height uint64) {
	c.deliveredMessages.Inc()
	c.highestDeliveredHeight.Set(float64(height))
}

func (c *StreamerCollector) SourceRetried() {
	c.sourceRetries.Inc()
}
