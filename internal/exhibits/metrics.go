package exhibits

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts seal and verification outcomes.
type Metrics struct {
	Seals         *prometheus.CounterVec
	Verifications *prometheus.CounterVec
}

// NewMetrics creates and registers the evidence collectors on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Seals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evidence",
			Name:      "seals_total",
			Help:      "Evidence seal attempts by outcome.",
		}, []string{"outcome"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evidence",
			Name:      "verifications_total",
			Help:      "Evidence and case verifications by scope and outcome.",
		}, []string{"scope", "outcome"}),
	}
	reg.MustRegister(m.Seals, m.Verifications)
	return m
}

func (m *Metrics) sealed(outcome string) {
	if m != nil {
		m.Seals.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) verified(scope string, ok bool) {
	if m == nil {
		return
	}
	outcome := "mismatch"
	if ok {
		outcome = "match"
	}
	m.Verifications.WithLabelValues(scope, outcome).Inc()
}
