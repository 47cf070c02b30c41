package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "export",
		Name:      "blocks_total",
		Help:      "Count of blocks handed to the ClickHouse exporter by flush status.",
	}, []string{"status"})

	exportFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supplychain",
		Subsystem: "export",
		Name:      "flush_size",
		Help:      "Number of blocks per export flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})

	exportBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "supplychain",
		Subsystem: "export",
		Name:      "breaker_state",
		Help:      "Export circuit breaker state: 0 closed, 1 half-open, 2 open.",
	})
)

// Export tracks metrics for the block export writer.
type Export struct{}

// NewExport constructs an Export metrics collector.
func NewExport() *Export {
	return &Export{}
}

// ObserveFlush records one flush attempt. status is success, error or rejected.
func (m Export) ObserveFlush(status string, blocks int) {
	exportBlocksTotal.WithLabelValues(status).Add(float64(blocks))
	exportFlushSize.Observe(float64(blocks))
}

// SetBreakerState publishes the breaker state as a number.
func (m Export) SetBreakerState(state int) {
	exportBreakerState.Set(float64(state))
}
