package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// Metrics implements checkout.Metrics using Prometheus.
type Metrics struct {
	checkoutEventsTotal   *prometheus.CounterVec
	checkoutOpenedTotal   *prometheus.CounterVec
	productFetchTotal     *prometheus.CounterVec
	productFetchDuration  *prometheus.HistogramVec
	purchaseEventsTotal   *prometheus.CounterVec
	stageTransitionsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Prometheus metrics implementation for checkout
// providers and orchestrators.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		checkoutEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "events_total",
			Help:      "Total number of normalized checkout events.",
		}, []string{"provider", "event", "status"}),

		checkoutOpenedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "opened_total",
			Help:      "Total number of overlay opens and in-place item updates.",
		}, []string{"provider", "action"}),

		productFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "product_fetch_total",
			Help:      "Total number of price-list fetches.",
		}, []string{"provider", "status"}),

		productFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "product_fetch_duration_seconds",
			Help:      "Duration of price-list fetches in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),

		purchaseEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "purchase_events_total",
			Help:      "Total number of native bridge purchase events.",
		}, []string{"provider", "event"}),

		stageTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "stage_transitions_total",
			Help:      "Total number of checkout state machine transitions.",
		}, []string{"provider", "from", "to"}),
	}
}

func (m *Metrics) RecordCheckoutEvent(provider, event, status string) {
	m.checkoutEventsTotal.WithLabelValues(provider, event, status).Inc()
}

func (m *Metrics) RecordCheckoutOpened(provider, action string) {
	m.checkoutOpenedTotal.WithLabelValues(provider, action).Inc()
}

func (m *Metrics) RecordProductFetch(provider, status string) {
	m.productFetchTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) RecordProductFetchDuration(provider string, duration time.Duration) {
	m.productFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordPurchaseEvent(provider, event string) {
	m.purchaseEventsTotal.WithLabelValues(provider, event).Inc()
}

func (m *Metrics) RecordStageTransition(provider, from, to string) {
	m.stageTransitionsTotal.WithLabelValues(provider, from, to).Inc()
}

// DefaultMetrics creates Metrics registered on the default Prometheus
// registerer.
func DefaultMetrics(namespace string) *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer, namespace)
}

var _ checkout.Metrics = (*Metrics)(nil)
