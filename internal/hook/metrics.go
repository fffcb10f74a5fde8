package hook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcomes recorded in metrics.
const (
	OutcomeSuccess        = "success"
	OutcomeExecutionError = "execution_error"
	OutcomeProtocolError  = "protocol_error"
)

// Metrics records hook invocation counts and latency.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the hook metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hookrunner",
			Subsystem: "hook",
			Name:      "invocations_total",
			Help:      "Total number of hook invocations by command and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hookrunner",
			Subsystem: "hook",
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of hook invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"command"}),
	}
	if reg != nil {
		reg.MustRegister(m.invocations, m.duration)
	}
	return m
}

func (m *Metrics) observe(cmd Command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(string(cmd), outcome).Inc()
	m.duration.WithLabelValues(string(cmd)).Observe(elapsed.Seconds())
}

// Invocations returns the counter for one command/outcome pair.
func (m *Metrics) Invocations(cmd Command, outcome string) prometheus.Counter {
	return m.invocations.WithLabelValues(string(cmd), outcome)
}
