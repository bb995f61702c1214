package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(activeMemberships, membershipSweep)
}

var (
	activeMemberships = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memberships_active",
			Help: "Currently active membership grants per plan.",
		},
		[]string{"plan"},
	)

	membershipSweep = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_sweep_total",
			Help: "Expiry sweep results (expired grants, downgraded users).",
		},
		[]string{"action"},
	)
)

func SetActiveMemberships(plan string, n int) {
	activeMemberships.WithLabelValues(norm(plan)).Set(float64(n))
}

func AddSweepResult(action string, n int) {
	membershipSweep.WithLabelValues(norm(action)).Add(float64(n))
}
