package clickgen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons for rejected waypoints, used as metric label.
const (
	ReasonDegenerate = "degenerate_segment"
	ReasonSingular   = "singular_system"
	ReasonNonFinite  = "non_finite"
)

// Metrics collects controller statistics.
type Metrics struct {
	Solves        prometheus.Counter
	Resets        prometheus.Counter
	Rejected      *prometheus.CounterVec
	SolveDuration prometheus.Histogram
	Segments      prometheus.Gauge
}

// NewMetrics creates the controller metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Solves: f.NewCounter(prometheus.CounterOpts{
			Name: "clickgen_solves_total",
			Help: "Total number of successful minimum-jerk solves",
		}),
		Resets: f.NewCounter(prometheus.CounterOpts{
			Name: "clickgen_resets_total",
			Help: "Total number of restarts after exceeding the maximum piece count",
		}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clickgen_rejected_events_total",
			Help: "Total number of rejected waypoints by reason",
		}, []string{"reason"}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clickgen_solve_duration_seconds",
			Help:    "Time taken to solve and build a trajectory",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10), // 1µs to ~0.26s
		}),
		Segments: f.NewGauge(prometheus.GaugeOpts{
			Name: "clickgen_segments",
			Help: "Current number of trajectory pieces",
		}),
	}
}
