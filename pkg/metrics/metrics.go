// Package metrics holds the prometheus collectors shared by the bot and the admin panel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ohs"

var (
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_decisions_total",
		Help:      "Rate limit decisions by category and result.",
	}, []string{"category", "result"})

	FAQLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "faq_lookups_total",
		Help:      "Knowledge base lookups by result (hit, miss).",
	}, []string{"result"})

	URLChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "url_checks_total",
		Help:      "Legal citation reachability checks by result.",
	}, []string{"result"})

	FAQEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "faq_entries",
		Help:      "Number of FAQ entries currently loaded.",
	})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "AI provider calls by provider and result.",
	}, []string{"provider", "result"})

	AIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "AI provider call latency.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"provider"})

	AdminHTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_http_requests_total",
		Help:      "Admin panel requests by method and status.",
	}, []string{"method", "status"})
)

// Result maps a boolean outcome onto a label value.
func Result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
