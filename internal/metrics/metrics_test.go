package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestProviderCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ProviderCall("start_video", "")
	m.ProviderCall("start_video", "rate_limited")
	m.ProviderCall("start_video", "rate_limited")

	if got := counterValue(t, reg, "provider_total_calls", map[string]string{"call": "start_video", "outcome": "ok"}); got != 1 {
		t.Fatalf("ok calls = %v, want 1", got)
	}
	if got := counterValue(t, reg, "provider_errors_total", map[string]string{"category": "rate_limited"}); got != 2 {
		t.Fatalf("rate_limited errors = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ProviderCall("x", "unknown")
	m.OperationStarted("start_video")
	m.OperationSettled("done_success")
}

func TestOperationCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OperationStarted("start_video")
	m.OperationStarted("start_video")
	m.OperationSettled("done_failure")

	if got := counterValue(t, reg, "operations_started_total", map[string]string{"type": "start_video"}); got != 2 {
		t.Fatalf("started = %v, want 2", got)
	}
	if got := counterValue(t, reg, "operations_settled_total", map[string]string{"state": "done_failure"}); got != 1 {
		t.Fatalf("settled = %v, want 1", got)
	}
}

func TestDisable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Disable(reg)
	// registering again succeeds only if everything was unregistered
	m.Enable(reg)
}
