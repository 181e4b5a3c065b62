package fluent

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/wanmail/fluent/log"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	doc, _ := newCommandSession()
	s := NewSession(navDoc{doc}, WithLogger(log.Discard), WithMetrics(m))

	s.Click(s.Find("#go"))
	s.Click(s.Find("#missing"))
	s.Expect().Text("Go", s.Find("#go"))
	s.Expect().Text("Stop", s.Find("#go"))
	s.Expect().Count(1, s.FindAll("#go"))

	calls := 0
	s.WaitUntil(context.Background(), func() (bool, error) {
		calls++
		return calls == 2, nil
	}, time.Second, time.Millisecond)

	tests := []struct {
		desc string
		c    prometheus.Collector
		want float64
	}{
		{"click ok", m.commands.WithLabelValues("click", "ok"), 1},
		{"click failed", m.commands.WithLabelValues("click", "error"), 1},
		{"text ok", m.expectations.WithLabelValues("text", "ok"), 1},
		{"text failed", m.expectations.WithLabelValues("text", "failed"), 1},
		{"count ok", m.expectations.WithLabelValues("count", "ok"), 1},
		{"wait attempts", m.waitAttempts, 2},
	}
	for _, test := range tests {
		if got := testutil.ToFloat64(test.c); got != test.want {
			t.Errorf("%s = %v, want %v", test.desc, got, test.want)
		}
	}
	if got := testutil.CollectAndCount(m.waitDuration); got != 1 {
		t.Errorf("wait duration series = %d, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	// Must not panic.
	m.observeCommand("click", nil)
	m.observeExpectation("text", nil)
	m.observeAttempt()
	m.observeWait(time.Second, outcomeOK)
}
