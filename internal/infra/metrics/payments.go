package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		transactionsTotal,
		revenueTotal,
		checkoutLatencyMs,
	)
}

var (
	transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Transactions by type and final status.",
		},
		[]string{"type", "status"},
	)

	revenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revenue_idr_total",
			Help: "Total IDR value of settled transactions.",
		},
	)

	checkoutLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_latency_ms",
			Help:    "Checkout request latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000},
		},
	)
)

func IncTransaction(typ, status string) {
	transactionsTotal.WithLabelValues(norm(typ), norm(status)).Inc()
}

func AddRevenue(amount int64) {
	revenueTotal.Add(float64(amount))
}

func ObserveCheckoutLatency(ms float64) {
	checkoutLatencyMs.Observe(ms)
}
