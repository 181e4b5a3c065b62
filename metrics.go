package fluent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeError   = "error"
	outcomeTimeout = "timeout"
)

// Metrics counts commands, expectations and waits of the sessions it is
// attached to with WithMetrics.
type Metrics struct {
	commands     *prometheus.CounterVec
	expectations *prometheus.CounterVec
	waitAttempts prometheus.Counter
	waitDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fluent",
			Name:      "commands_total",
			Help:      "Commands executed, by command and outcome.",
		}, []string{"command", "outcome"}),
		expectations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fluent",
			Name:      "expectations_total",
			Help:      "Expectations evaluated, by expectation and outcome.",
		}, []string{"expectation", "outcome"}),
		waitAttempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fluent",
			Name:      "wait_attempts_total",
			Help:      "Condition evaluations performed while waiting.",
		}),
		waitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fluent",
			Name:      "wait_duration_seconds",
			Help:      "Time spent waiting for a condition, by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"outcome"}),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case IsExpectationFailed(err):
		return outcomeFailed
	}
	return outcomeError
}

func (m *Metrics) observeCommand(name string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, outcome(err)).Inc()
}

func (m *Metrics) observeExpectation(name string, err error) {
	if m == nil {
		return
	}
	m.expectations.WithLabelValues(name, outcome(err)).Inc()
}

func (m *Metrics) observeAttempt() {
	if m == nil {
		return
	}
	m.waitAttempts.Inc()
}

func (m *Metrics) observeWait(d time.Duration, result string) {
	if m == nil {
		return
	}
	m.waitDuration.WithLabelValues(result).Observe(d.Seconds())
}
