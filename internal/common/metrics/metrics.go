package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_completed_total",
			Help: "Total number of generation requests completed, by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	GenerationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_failed_total",
			Help: "Total number of generation requests failed, by error code",
		},
		[]string{"endpoint", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "generation_request_duration_seconds",
			Help: "Duration of generation request processing in seconds",
		},
		[]string{"endpoint"},
	)

	SearchAugmentations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_augmentations_total",
			Help: "Total number of search augmentation attempts, by result",
		},
		[]string{"result"},
	)

	PolicyFilterHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "policy_filter_hits_total",
			Help: "Total number of artifacts discarded by the post-generation filter",
		},
	)
)
