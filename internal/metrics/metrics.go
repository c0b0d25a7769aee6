// Package metrics provides Prometheus metrics for the analysis pipeline and API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tokenscope"

var (
	// AnalysesTotal counts completed analyses.
	// Labels: source (api, cli)
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "analyses_total",
			Help:      "Total number of token analyses performed",
		},
		[]string{"source"},
	)

	// AnalysisDuration tracks end-to-end analysis latency including labeling.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of token analyses in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// InputTokens observes the size of each analyzed token array.
	InputTokens = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "input_tokens",
			Help:      "Number of raw tokens per analysis",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 250, 500, 1000},
		},
	)

	// LabelsTotal counts labeler outcomes.
	// Labels: kind (analysis, sentiment, recommendation), result (ok, fallback, error)
	LabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "labeler",
			Name:      "labels_total",
			Help:      "Total number of label lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	// RequestsTotal counts API requests.
	// Labels: route, code
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	// RateLimitedTotal counts requests rejected by the per-client limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
	)
)
