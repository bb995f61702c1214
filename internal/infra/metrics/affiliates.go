package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		affiliateClicksTotal,
		affiliateConversionsTotal,
		challengeMilestonesTotal,
	)
}

var (
	affiliateClicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_clicks_total",
			Help: "Tracked referral-link clicks.",
		},
	)

	affiliateConversionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "affiliate_conversions_total",
			Help: "Attributed sales that produced a commission.",
		},
	)

	challengeMilestonesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_milestones_total",
			Help: "Challenge milestone crossings, by threshold percent.",
		},
		[]string{"milestone"},
	)
)

func IncAffiliateClick()      { affiliateClicksTotal.Inc() }
func IncAffiliateConversion() { affiliateConversionsTotal.Inc() }

func IncChallengeMilestone(milestone string) {
	challengeMilestonesTotal.WithLabelValues(milestone).Inc()
}
