// Package metrics provides Prometheus metrics for the chat service.
//
// HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Chat pipeline:
//   - medication_lookup_total: Counter with outcome label
//   - medication_lookup_duration_seconds: Histogram of lookup latency
//   - llm_completions_total: Counter with status label
//   - llm_stream_fragments_total: Counter of streamed fragments
//   - chat_turns_total: Counter with handler and enriched labels
//   - chat_sessions_active: Gauge of open chat sessions
//   - bula_api_up: Gauge, 1 when the last companion probe succeeded
//
// All metrics are registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	LookupTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medication_lookup_total",
			Help: "Medication lookups by outcome",
		},
		[]string{"outcome"},
	)

	LookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medication_lookup_duration_seconds",
			Help:    "Medication lookup latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	CompletionTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_completions_total",
			Help: "Streamed completions by status",
		},
		[]string{"status"},
	)

	StreamFragments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_stream_fragments_total",
			Help: "Non-empty fragments received from the model",
		},
	)

	ChatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns handled",
		},
		[]string{"handler", "enriched"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Open chat sessions",
		},
	)

	BulaAPIUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bula_api_up",
			Help: "1 when the medication API answered the last probe",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(LookupTotals)
	prometheus.MustRegister(LookupDuration)
	prometheus.MustRegister(CompletionTotals)
	prometheus.MustRegister(StreamFragments)
	prometheus.MustRegister(ChatTurns)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(BulaAPIUp)
}
