// Package metrics defines the Prometheus collectors engine, httpapi, and
// pivotctl register stage timings and classification outcomes against,
// in the same package-level promauto style longregen-alicia's
// internal/adapters/metrics package uses for its HTTP/LLM/ASR/TTS
// collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsProcessedTotal counts documents run through engine.Process,
	// labeled by outcome ("ok", "parse_error").
	DocumentsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pivot_documents_processed_total",
		Help: "Total interview documents processed by the engine",
	}, []string{"outcome"})

	// UtterancesClassifiedTotal counts utterances the classifier accepted
	// (confidence at or above the floor) versus dropped.
	UtterancesClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pivot_utterances_classified_total",
		Help: "Total utterances classified, by outcome",
	}, []string{"outcome"})

	// InsightsByVoiceTotal counts emitted insights by their PIVOT voice.
	InsightsByVoiceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pivot_insights_by_voice_total",
		Help: "Total insights emitted, by voice",
	}, []string{"voice"})

	// ProcessDuration times one engine.Process call end to end.
	ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pivot_process_duration_seconds",
		Help:    "Duration of a full document process call",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})

	// MartWriteDuration times one mart.Writer call, labeled by kind
	// ("insights", "summary").
	MartWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pivot_mart_write_duration_seconds",
		Help:    "Duration of a mart write call",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// HTTPRequestsTotal counts httpapi requests by method, route, and
	// status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pivot_http_requests_total",
		Help: "Total HTTP requests served by the analysis API",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration times httpapi requests by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pivot_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// CacheLookupsTotal counts httpapi's optional Redis result-cache
	// lookups by outcome ("hit", "miss", "error", "disabled").
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pivot_cache_lookups_total",
		Help: "Total result-cache lookups, by outcome",
	}, []string{"outcome"})
)
