package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizza_auth_attempts_total",
			Help: "Total number of authentication attempts by outcome",
		},
		[]string{"outcome"},
	)

	PizzasSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pizza_items_sold_total",
			Help: "Total number of order items sold",
		},
	)

	OrderRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pizza_order_revenue_total",
			Help: "Accumulated revenue across all orders",
		},
	)

	OrderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "pizza_order_duration_seconds",
			Help: "Duration of order persistence in seconds",
		},
	)
)

// TrackAuthentication records an authentication outcome.
func TrackAuthentication(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	AuthAttempts.WithLabelValues(outcome).Inc()
}

// TrackPurchase records an order: item count, revenue and persistence latency.
func TrackPurchase(quantity int, revenue float64, latency time.Duration) {
	PizzasSold.Add(float64(quantity))
	OrderRevenue.Add(revenue)
	OrderLatency.Observe(latency.Seconds())
}
