// Package metrics defines the Prometheus collectors for the ledger and backups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "veresiye"

// Metrics groups every collector the core updates.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	MovementsApplied  *prometheus.CounterVec
	MovementsReversed prometheus.Counter
	Backups           *prometheus.CounterVec
	BackupDuration    prometheus.Histogram
	SnapshotsPruned   prometheus.Counter
}

// New registers the collectors with reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MovementsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_applied_total",
			Help:      "Movements recorded, by kind.",
		}, []string{"kind"}),
		MovementsReversed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_reversed_total",
			Help:      "Movements reversed.",
		}),
		Backups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Snapshot attempts, by trigger (auto, manual) and outcome (ok, error, skipped).",
		}, []string{"trigger", "outcome"}),
		BackupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backup_duration_seconds",
			Help:      "Time spent writing a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotsPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_pruned_total",
			Help:      "Snapshot files deleted by retention.",
		}),
	}
}

func (m *Metrics) MovementApplied(kind string) {
	if m == nil {
		return
	}
	m.MovementsApplied.WithLabelValues(kind).Inc()
}

func (m *Metrics) MovementReversed() {
	if m == nil {
		return
	}
	m.MovementsReversed.Inc()
}

func (m *Metrics) Backup(trigger, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Backups.WithLabelValues(trigger, outcome).Inc()
	if outcome != "skipped" {
		m.BackupDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) Pruned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SnapshotsPruned.Add(float64(n))
}
