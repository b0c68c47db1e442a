package sync

import "github.com/prometheus/client_golang/prometheus"

// Metrics aggregates reconciliation outcomes. Per-record failures are
// surfaced here as counts, not individually.
type Metrics struct {
	Runs           prometheus.Counter
	RecordFailures prometheus.Counter
	Creates        prometheus.Counter
	Updates        prometheus.Counter
}

// NewMetrics builds and registers the reconciliation counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikes_reconcile_runs_total",
			Help: "Completed reconciliation runs.",
		}),
		RecordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikes_reconcile_record_failures_total",
			Help: "Cached records that failed to reconcile.",
		}),
		Creates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikes_reconcile_creates_total",
			Help: "Corrective create calls issued during reconciliation.",
		}),
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bikes_reconcile_updates_total",
			Help: "Corrective update calls issued during reconciliation.",
		}),
	}
	reg.MustRegister(m.Runs, m.RecordFailures, m.Creates, m.Updates)
	return m
}
