package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every collector of the process; it is served by the diagnostics server.
var Registry = prometheus.NewRegistry()

var (
	// APIRequestsTotal counts backend calls by route template and status ("error" for transport failures).
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tour_admin",
			Name:      "api_requests_total",
			Help:      "Backend API requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tour_admin",
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionTeardowns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tour_admin",
			Name:      "session_teardowns_total",
			Help:      "Sessions cleared after the backend answered 401.",
		},
	)

	OptionsCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tour_admin",
			Name:      "condition_options_cache_total",
			Help:      "Condition options lookups by result (hit or miss).",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tour_admin",
			Name:      "http_requests_total",
			Help:      "Requests served by the diagnostics server.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tour_admin",
			Name:      "http_request_duration_seconds",
			Help:      "Diagnostics server latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		SessionTeardowns,
		OptionsCacheHits,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
