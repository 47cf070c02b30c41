package metrics

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulatorTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "ticks_total",
		Help:      "Count of scheduler ticks by outcome.",
	}, []string{"outcome"})

	simulatorTriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "triggers_total",
		Help:      "Count of transaction start requests by source and whether they were accepted.",
	}, []string{"source", "accepted"})

	simulatorCommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "commits_total",
		Help:      "Count of finished transactions by destination stage.",
	}, []string{"stage", "status"})

	simulatorCommitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "commit_duration_seconds",
		Help:      "Time from transaction start to commit or discard.",
		Buckets:   []float64{.1, .5, 1, 1.5, 2, 2.5, 3, 5, 10},
	}, []string{"stage", "status"})

	simulatorInventory = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "inventory_units",
		Help:      "Current quantity per inventory category.",
	}, []string{"category"})

	simulatorChainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "supplychain",
		Subsystem: "simulator",
		Name:      "chain_height",
		Help:      "Number of committed blocks.",
	})
)

// Simulator tracks metrics for the supply chain state machine.
type Simulator struct{}

// NewSimulator constructs a Simulator metrics collector.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// ObserveTick records the outcome of one scheduler tick.
func (m Simulator) ObserveTick(outcome string) {
	simulatorTicksTotal.WithLabelValues(outcome).Inc()
}

// ObserveTrigger records a request to start a transaction.
func (m Simulator) ObserveTrigger(source model.TriggerSource, accepted bool) {
	if source == "" {
		source = "unknown"
	}
	simulatorTriggersTotal.WithLabelValues(string(source), strconv.FormatBool(accepted)).Inc()
}

// ObserveCommit records a committed or discarded transaction.
func (m Simulator) ObserveCommit(err error, stage string, started time.Time) {
	status := "success"
	if err != nil {
		status = "discarded"
	}
	if stage == "" {
		stage = "unknown"
	}
	simulatorCommitsTotal.WithLabelValues(stage, status).Inc()
	simulatorCommitDuration.WithLabelValues(stage, status).Observe(time.Since(started).Seconds())
}

// SetInventory publishes the current inventory.
func (m Simulator) SetInventory(inv model.Inventory) {
	for category, qty := range inv {
		simulatorInventory.WithLabelValues(string(category)).Set(float64(qty))
	}
}

// SetChainHeight publishes the number of committed blocks.
func (m Simulator) SetChainHeight(height int) {
	simulatorChainHeight.Set(float64(height))
}
