package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/verum/pkg/middleware"
)

// Namespace prefixes every service metric.
const Namespace = "verum"

// Metrics owns the service registry. Domain systems register their own
// collectors on Registry.
type Metrics struct {
	Registry *prometheus.Registry
	HTTP     *middleware.HTTPMetrics
}

// NewMetrics creates a registry carrying runtime, process, build info,
// and HTTP request collectors.
func NewMetrics(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Service build information.",
	}, []string{"version"})
	info.WithLabelValues(version).Set(1)
	reg.MustRegister(info)

	return &Metrics{
		Registry: reg,
		HTTP:     middleware.NewHTTPMetrics(reg, Namespace),
	}
}
