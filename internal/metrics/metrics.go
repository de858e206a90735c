package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests - processed requests by route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration - request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echo_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecommendationLookups - lookups by where the candidate list came from.
	RecommendationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echo_recommendation_lookups_total",
			Help: "Total number of recommendation lookups by source",
		},
		[]string{"source"},
	)

	// PartitionItems - size of each partition bucket.
	PartitionItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echo_partition_items",
			Help:    "Number of items placed in each partition bucket",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
		[]string{"bucket"},
	)

	// RecommenderRequestDuration - upstream latency by outcome.
	RecommenderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echo_recommender_request_duration_seconds",
			Help:    "Latency of calls to the recommendation service",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"status"},
	)
)
