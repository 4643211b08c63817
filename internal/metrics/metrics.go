// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package metrics registers the engine's Prometheus instrumentation.
// Metrics use promauto and the default registry; /metrics on the API
// server exposes them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation metrics.
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"branch"}, // cold_start, personalized
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_count",
			Help:    "Number of results returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"branch"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of scoring and ranking in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	// Interaction pipeline metrics.
	InteractionsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_published_total",
			Help: "Total number of interaction events published",
		},
		[]string{"action"},
	)

	InteractionsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interactions_processed_total",
			Help: "Total number of interaction events folded into preferences",
		},
	)

	InteractionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_failed_total",
			Help: "Total number of interaction events that failed processing",
		},
		[]string{"reason"}, // parse, validation, store
	)

	InteractionsPoisoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interactions_poisoned_total",
			Help: "Total number of interaction events parked on the poison queue",
		},
	)

	// Preference store metrics.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of preference store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // load_prefs, save_prefs, load_interests, save_interests, apply_event
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of preference store errors",
		},
		[]string{"operation"},
	)

	// Moderation metrics.
	ModerationVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_verdicts_total",
			Help: "Total number of moderation verdicts by classification",
		},
		[]string{"classification"}, // clean, flagged, blocked
	)

	ModerationRiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moderation_risk_score",
			Help:    "Distribution of moderation risk scores",
			Buckets: []float64{0, 10, 25, 40, 55, 70, 85, 100, 120},
		},
	)

	ModerationNeedsReview = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_needs_review_total",
			Help: "Total number of verdicts marked for manual review",
		},
	)

	// Catalog metrics.
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of catalog items by state",
		},
		[]string{"state"}, // active, inactive
	)

	// System metrics.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(branch string, results int, duration time.Duration) {
	RecommendationsServed.WithLabelValues(branch).Inc()
	RecommendationResults.WithLabelValues(branch).Observe(float64(results))
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordStoreOperation records a preference store operation.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordVerdict records one moderation verdict.
func RecordVerdict(classification string, riskScore float64, needsReview bool) {
	ModerationVerdicts.WithLabelValues(classification).Inc()
	ModerationRiskScore.Observe(riskScore)
	if needsReview {
		ModerationNeedsReview.Inc()
	}
}

// SetCatalogSize publishes the catalog item counts.
func SetCatalogSize(active, inactive int) {
	CatalogItems.WithLabelValues("active").Set(float64(active))
	CatalogItems.WithLabelValues("inactive").Set(float64(inactive))
}
