package analyses

import "github.com/prometheus/client_golang/prometheus"

// Metrics records analysis runs, their latency, and the scores they produce.
type Metrics struct {
	Runs     *prometheus.CounterVec
	Duration prometheus.Histogram
	Score    prometheus.Histogram
}

// NewMetrics creates and registers the analysis collectors on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leveler",
			Name:      "runs_total",
			Help:      "Leveler runs by integrity category.",
		}, []string{"category"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "leveler",
			Name:      "run_duration_seconds",
			Help:      "Leveler pipeline latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		Score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "leveler",
			Name:      "integrity_score",
			Help:      "Distribution of integrity scores.",
			Buckets:   []float64{25, 50, 70, 90, 100},
		}),
	}
	reg.MustRegister(m.Runs, m.Duration, m.Score)
	return m
}

func (m *Metrics) observe(category string, seconds, score float64) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(category).Inc()
	m.Duration.Observe(seconds)
	m.Score.Observe(score)
}
