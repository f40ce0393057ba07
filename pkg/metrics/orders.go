package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OrderMetrics records aggregate builder activity.
type OrderMetrics struct {
	duration   *prometheus.HistogramVec
	orders     prometheus.Counter
	items      prometheus.Counter
	unresolved prometheus.Counter
	rolledBack prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_build_duration_seconds",
		Help:    "Duration of order aggregate builds in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed by the aggregate builder.",
	})
	items := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_items_created_total",
		Help: "Order items committed.",
	})
	unresolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_items_unresolved_product_total",
		Help: "Order items whose product code matched no product.",
	})
	rolledBack := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_builds_rolled_back_total",
		Help: "Order builds that failed and were rolled back.",
	})
	reg.MustRegister(duration, orders, items, unresolved, rolledBack)
	return &OrderMetrics{
		duration:   duration,
		orders:     orders,
		items:      items,
		unresolved: unresolved,
		rolledBack: rolledBack,
	}
}

// ObserveBuild records one builder run.
func (m *OrderMetrics) ObserveBuild(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
	if outcome == OutcomeFailure && m.rolledBack != nil {
		m.rolledBack.Inc()
	}
}

// AddCreated records a committed order with itemCount items.
func (m *OrderMetrics) AddCreated(orderCount, itemCount int) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Add(float64(orderCount))
	m.items.Add(float64(itemCount))
}

// IncUnresolvedProduct records an item whose product code did not resolve.
func (m *OrderMetrics) IncUnresolvedProduct() {
	if m == nil || m.unresolved == nil {
		return
	}
	m.unresolved.Inc()
}
