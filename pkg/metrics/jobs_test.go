package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get metric: %v", err)
	}
	var m dto.Metric
	if err := c.(prometheus.Counter).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	jm := NewJobMetrics(reg)

	jm.IncSuccess("artwork-sweep")
	jm.IncSuccess("artwork-sweep")
	jm.IncFailure("artwork-sweep")
	jm.ObserveDuration("artwork-sweep", 120*time.Millisecond)

	if got := counterValue(t, jm.success, "artwork-sweep"); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := counterValue(t, jm.failure, "artwork-sweep"); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var jm *JobMetrics
	jm.IncSuccess("noop")
	jm.IncFailure("noop")
	jm.ObserveDuration("noop", time.Second)

	empty := NewJobMetrics(nil)
	empty.IncSuccess("")
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	hm := NewHTTPMetrics(reg)

	hm.Observe("GET", "/api/v1/orders", 200, 5*time.Millisecond)
	hm.Observe("GET", "/api/v1/orders", 200, 7*time.Millisecond)

	if got := counterValue(t, hm.requests, "GET", "/api/v1/orders", "200"); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
}
