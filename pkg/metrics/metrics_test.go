package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAuthMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAuthMetrics(reg)
	metrics.IncRejection("expired")
	metrics.IncRejection("expired")
	metrics.IncRejection("")
	metrics.IncLookupFailure()
	metrics.IncAuthenticated()
	metrics.IncRevocation()
	metrics.IncRateLimited("login", "email")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "auth_rejections_total", "reason", "expired"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 2 {
		t.Fatalf("expected expired=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "auth_rejections_total", "reason", "unknown"); err != nil {
		t.Fatalf("fetch unknown rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "auth_revocation_lookup_failures_total"); got != 1 {
		t.Fatalf("expected lookup failures=1, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "auth_revocations_total"); got != 1 {
		t.Fatalf("expected revocations=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "auth_rate_limited_total", "scope", "email"); err != nil {
		t.Fatalf("fetch rate limited: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rate limited=1, got %f", got)
	}
}

func TestOrderMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)
	metrics.ObserveBuild(OutcomeSuccess, 250*time.Millisecond)
	metrics.ObserveBuild(OutcomeFailure, 10*time.Millisecond)
	metrics.AddCreated(1, 2)
	metrics.IncUnresolvedProduct()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchHistogramSum(mfs, "order_build_duration_seconds", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "orders_created_total"); got != 1 {
		t.Fatalf("expected orders=1, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "order_items_created_total"); got != 2 {
		t.Fatalf("expected items=2, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "order_builds_rolled_back_total"); got != 1 {
		t.Fatalf("expected rolled back=1, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var auth *AuthMetrics
	auth.IncRejection("expired")
	auth.IncLookupFailure()
	var orders *OrderMetrics
	orders.ObserveBuild(OutcomeSuccess, time.Second)
	orders.AddCreated(1, 1)

	unregistered := NewOrderMetrics(nil)
	unregistered.AddCreated(1, 1)
	NewAuthMetrics(nil).IncAuthenticated()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchPlainCounter(mfs []*dto.MetricFamily, name string) float64 {
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return -1
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
