// Package metrics registers the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts handled HTTP requests by route and status code.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgauge_http_requests_total",
			Help: "Number of HTTP requests handled",
		},
		[]string{"route", "status"},
	)

	// ProjectionDuration observes the time spent computing projections.
	ProjectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mortgauge_projection_duration_seconds",
			Help:    "Time spent computing a projection",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"variant"},
	)

	// ValidationErrors counts rejected requests by the offending field.
	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgauge_validation_errors_total",
			Help: "Number of requests rejected by parameter validation",
		},
		[]string{"field"},
	)

	// CacheLookups counts response cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgauge_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"result"},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mortgauge_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)
)

// Variant labels a projection for ProjectionDuration.
func Variant(extended bool) string {
	if extended {
		return "extended"
	}
	return "base"
}
