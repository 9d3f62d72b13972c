package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments completion calls with Prometheus counters and
// histograms. Construct with NewMetrics and pass to the client via
// WithMetrics.
type Metrics struct {
	completions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates completion metrics registered on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_completions_total",
			Help: "Completion calls by provider, capability, and outcome.",
		}, []string{"provider", "capability", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "Completion call duration including retries and fallbacks.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"provider", "capability"}),
	}
	reg.MustRegister(m.completions, m.duration)
	return m
}

func (m *Metrics) observe(provider, capability, outcome string, d time.Duration) {
	if provider == "" {
		provider = "none"
	}
	m.completions.WithLabelValues(provider, capability, outcome).Inc()
	m.duration.WithLabelValues(provider, capability).Observe(d.Seconds())
}
