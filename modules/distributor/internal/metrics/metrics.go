package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

type DistributorMetrics struct {
	snapshotRuns     *prometheus.CounterVec
	snapshotUsers    *prometheus.CounterVec
	snapshotDuration prometheus.Histogram
	pointsAwarded    *prometheus.CounterVec
	propagations     *prometheus.CounterVec
}

var (
	once     sync.Once
	registry *DistributorMetrics
)

// Distributor returns the process-wide distributor metrics, registered on first use.
func Distributor() *DistributorMetrics {
	once.Do(func() {
		registry = &DistributorMetrics{
			snapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "distributor_snapshot_runs_total",
				Help: "Count of daily snapshot batch runs by outcome.",
			}, []string{"outcome"}),
			snapshotUsers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "distributor_snapshot_users_total",
				Help: "Count of referred users handled by the daily snapshot by outcome.",
			}, []string{"outcome"}),
			snapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "distributor_snapshot_duration_seconds",
				Help:    "Duration of daily snapshot batch runs.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
			}),
			pointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "distributor_points_awarded_total",
				Help: "Points credited to distributors by kind.",
			}, []string{"kind"}),
			propagations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "distributor_propagations_total",
				Help: "Count of point-earning events by source and outcome.",
			}, []string{"source", "outcome"}),
		}
		prometheus.MustRegister(
			registry.snapshotRuns,
			registry.snapshotUsers,
			registry.snapshotDuration,
			registry.pointsAwarded,
			registry.propagations,
		)
	})
	return registry
}

func (m *DistributorMetrics) ObserveSnapshotRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotRuns.WithLabelValues(outcome).Inc()
	m.snapshotDuration.Observe(duration.Seconds())
}

func (m *DistributorMetrics) ObserveSnapshotUser(outcome string) {
	if m == nil {
		return
	}
	m.snapshotUsers.WithLabelValues(outcome).Inc()
}

func (m *DistributorMetrics) ObservePointsAwarded(kind string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.pointsAwarded.WithLabelValues(kind).Add(float64(amount))
}

func (m *DistributorMetrics) ObservePropagation(source string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.propagations.WithLabelValues(source, outcome).Inc()
}
