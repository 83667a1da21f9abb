package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Retraining carries the scheduler's observability surface.
type Retraining struct {
	CyclesTotal    prometheus.Counter
	CycleFailures  prometheus.Counter
	ItemsProcessed prometheus.Counter
	ItemFailures   prometheus.Counter
	ListMutations  prometheus.Counter
	CycleDuration  prometheus.Histogram
	State          prometheus.Gauge
}

func NewRetraining(reg prometheus.Registerer) *Retraining {
	m := &Retraining{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "cycles_total",
			Help:      "Completed retraining cycles.",
		}),
		CycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "cycle_failures_total",
			Help:      "Retraining cycles that failed and triggered backoff.",
		}),
		ItemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "items_processed_total",
			Help:      "Stock items forecast during retraining.",
		}),
		ItemFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "item_failures_total",
			Help:      "Stock items skipped due to per-item failures.",
		}),
		ListMutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "list_mutations_total",
			Help:      "Shopping list mutations made by the decision engine.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one retraining cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "estoquemax",
			Subsystem: "retraining",
			Name:      "state",
			Help:      "Scheduler state: 0 idle, 1 running, 2 backoff.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CyclesTotal, m.CycleFailures, m.ItemsProcessed,
			m.ItemFailures, m.ListMutations, m.CycleDuration, m.State,
		)
	}
	return m
}
