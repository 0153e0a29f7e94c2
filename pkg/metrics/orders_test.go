package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOrderMetricsExportsTransitionCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)

	metrics.IncTransition("PENDING", "COMPLETED")
	metrics.IncTransition("PENDING", "COMPLETED")
	metrics.IncRejection("terminal_status")
	metrics.ObserveTransition("COMPLETED", 120*time.Millisecond)

	release := metrics.TrackInFlight()
	defer release()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "order_status_transitions_total", "to", "COMPLETED"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected transitions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_status_rejections_total", "reason", "terminal_status"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "order_transition_duration_seconds", "to", "COMPLETED"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchGaugeValue(mfs, "order_transitions_in_flight"); err != nil {
		t.Fatalf("fetch in-flight gauge: %v", err)
	} else if got != 1 {
		t.Fatalf("expected in-flight=1, got %f", got)
	}
}

func TestOrderMetricsNilSafe(t *testing.T) {
	var metrics *OrderMetrics
	metrics.IncTransition("PENDING", "CANCELLED")
	metrics.IncRejection("same_status")
	metrics.ObserveTransition("CANCELLED", time.Second)
	metrics.TrackInFlight()()
}

func fetchGaugeValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetGauge().GetValue(), nil
	}
	return 0, fmt.Errorf("metric %q has no samples", name)
}
