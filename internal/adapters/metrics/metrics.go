// Package metrics defines the Prometheus metrics exposed at /metrics.
// Metrics register with the default registry on package init.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "receitas"

// UpstreamRequestsTotal counts calls to the remote recipes API.
// Labels:
//   - endpoint: client wrapper name (e.g. "login", "admin.stats")
//   - status: HTTP status code, or "error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Calls to the remote recipes API, by endpoint and status.",
	},
	[]string{"endpoint", "status"},
)

// UpstreamDuration measures remote API latency.
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to the remote recipes API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// HTTPRequestsTotal counts inbound requests by route pattern and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Inbound HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures inbound request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of inbound HTTP requests, by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// CheckoutOutcomesTotal counts checkout attempts.
// Label:
//   - outcome: "api", "fallback", "failed" or "skipped" (already redirecting)
var CheckoutOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_outcomes_total",
		Help:      "Checkout attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts sign-in attempts.
// Labels:
//   - kind: "user" or "admin"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Sign-in attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ObserveUpstream records one remote API call. Its signature matches api.Observer.
func ObserveUpstream(endpoint, _ string, status int, d time.Duration, _ error) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, StatusLabel(status)).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveLogin records a sign-in attempt.
func ObserveLogin(kind string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	LoginsTotal.WithLabelValues(kind, result).Inc()
}

// StatusLabel renders a status code as a label value; 0 becomes "error".
func StatusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
