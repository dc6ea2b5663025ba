package metrics

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics counts business events emitted by the services.
type DomainMetrics struct {
	ordersPlaced    prometheus.Counter
	ordersDelivered prometheus.Counter
	feedsApplied    *prometheus.CounterVec
}

// NewDomainMetrics registers the business counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	})
	ordersDelivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_delivered_total",
		Help: "Orders marked as delivered.",
	})
	feedsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_feeds_applied_total",
		Help: "Supplier catalog feeds applied, labeled by shop.",
	}, []string{"shop"})
	reg.MustRegister(ordersPlaced, ordersDelivered, feedsApplied)
	return &DomainMetrics{
		ordersPlaced:    ordersPlaced,
		ordersDelivered: ordersDelivered,
		feedsApplied:    feedsApplied,
	}
}

// IncOrderPlaced increments the placed-orders counter.
func (m *DomainMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncOrderDelivered increments the delivered-orders counter.
func (m *DomainMetrics) IncOrderDelivered() {
	if m == nil || m.ordersDelivered == nil {
		return
	}
	m.ordersDelivered.Inc()
}

// IncFeedApplied increments the feed counter for the named shop.
func (m *DomainMetrics) IncFeedApplied(shop string) {
	if m == nil || m.feedsApplied == nil {
		return
	}
	m.feedsApplied.WithLabelValues(normalizeLabel(shop)).Inc()
}
