package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		commissionPaidTotal,
		pendingRevenueDecisions,
	)
}

var (
	commissionPaidTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commission_paid_idr_total",
			Help: "IDR paid out per share type (affiliate/admin_fee/founder/cofounder).",
		},
		[]string{"share"},
	)

	pendingRevenueDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_revenue_decisions_total",
			Help: "Pending revenue rows decided, by outcome.",
		},
		[]string{"outcome"}, // approved | adjusted | rejected
	)
)

func AddCommission(share string, amount int64) {
	commissionPaidTotal.WithLabelValues(norm(share)).Add(float64(amount))
}

func IncRevenueDecision(outcome string) {
	pendingRevenueDecisions.WithLabelValues(norm(outcome)).Inc()
}
