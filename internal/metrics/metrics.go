// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylesphere_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylesphere_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylesphere_api_rate_limit_hits_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"endpoint"},
	)

	// Vision model
	ModelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylesphere_model_requests_total",
			Help: "Vision model generate calls by outcome",
		},
		[]string{"outcome"}, // success, retry, failure
	)

	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stylesphere_model_request_duration_seconds",
			Help:    "Vision model generate call latency",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stylesphere_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	// Recommendations
	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylesphere_recommendations_served_total",
			Help: "Ranked products returned to callers",
		},
	)

	ProductsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylesphere_products_skipped_total",
			Help: "Candidate products excluded from ranking by validation",
		},
		[]string{"field"},
	)

	// Profile cache
	ProfileCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylesphere_profile_cache_hits_total",
			Help: "User profile cache hits",
		},
	)

	ProfileCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylesphere_profile_cache_misses_total",
			Help: "User profile cache misses",
		},
	)
)
