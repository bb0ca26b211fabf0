package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics tracks order placement outcomes.
type OrderMetrics struct {
	placed      *prometheus.CounterVec
	failed      *prometheus.CounterVec
	revenue     *prometheus.CounterVec
	numberRetry prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders placed by delivery and payment method.",
	}, []string{"delivery_method", "payment_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "failed_total",
		Help:      "Order placements rejected or rolled back, by error code.",
	}, []string{"code"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "revenue_total",
		Help:      "Sum of placed order totals.",
	}, []string{"delivery_method"})
	numberRetry := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "number_collisions_total",
		Help:      "Order number unique violations that triggered a retry.",
	})
	reg.MustRegister(placed, failed, revenue, numberRetry)
	return &OrderMetrics{placed: placed, failed: failed, revenue: revenue, numberRetry: numberRetry}
}

// Placed records a committed order.
func (o *OrderMetrics) Placed(deliveryMethod, paymentMethod string, total decimal.Decimal) {
	if o == nil || o.placed == nil {
		return
	}
	o.placed.WithLabelValues(normalizeLabel(deliveryMethod), normalizeLabel(paymentMethod)).Inc()
	o.revenue.WithLabelValues(normalizeLabel(deliveryMethod)).Add(total.InexactFloat64())
}

// Failed records a placement that did not commit.
func (o *OrderMetrics) Failed(code string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(code)).Inc()
}

// NumberCollision records an order number retry.
func (o *OrderMetrics) NumberCollision() {
	if o == nil || o.numberRetry == nil {
		return
	}
	o.numberRetry.Inc()
}
