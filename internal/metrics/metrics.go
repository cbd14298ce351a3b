// Package metrics exposes the Prometheus collectors for the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cortexamp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cortexamp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed.
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cortexamp_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// LLMRequestDuration measures generation and feedback calls by provider
	// operation and outcome.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cortexamp_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"operation", "outcome"},
	)

	// FeedbackFallbacks counts submissions that received the static fallback
	// feedback after all scoring attempts failed.
	FeedbackFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexamp_feedback_fallbacks_total",
			Help: "Total number of submissions scored with the fallback feedback",
		},
	)

	// SubmissionsRejected counts submissions rejected by the daily quota.
	SubmissionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexamp_submissions_rate_limited_total",
			Help: "Total number of submissions rejected by the daily rate limit",
		},
	)

	// DuplicateCandidates counts generated candidates flagged as exact
	// fingerprint duplicates during review.
	DuplicateCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cortexamp_duplicate_candidates_total",
			Help: "Total number of generated candidates flagged as exact duplicates",
		},
	)
)

// ObserveLLMRequest records one LLM call.
func ObserveLLMRequest(operation string, err error, startTime time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LLMRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(startTime).Seconds())
}
