package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAllocatorMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAllocatorMetrics(reg)
	m.IncCollision("items")
	m.IncCollision("items")
	m.IncExhausted("items")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "id_alloc_collisions_total", "table", "items"); err != nil {
		t.Fatalf("fetch collisions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected collisions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "id_alloc_exhausted_total", "table", "items"); err != nil {
		t.Fatalf("fetch exhausted: %v", err)
	} else if got != 1 {
		t.Fatalf("expected exhausted=1, got %f", got)
	}
}

func TestAllocatorMetricsNilSafe(t *testing.T) {
	var m *AllocatorMetrics
	m.IncCollision("items")
	m.IncExhausted("items")

	empty := NewAllocatorMetrics(nil)
	empty.IncCollision("items")
}

func TestRequestMetricsObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(reg)
	m.ObserveRequest("GET", "/v1/items", "200", 150*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "http_request_duration_seconds")
	if mf == nil {
		t.Fatalf("histogram not registered")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected positive duration sum, got %f", sum)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
