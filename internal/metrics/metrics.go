// Package metrics provides Prometheus metrics collection for the application.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome/status label values for metrics.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsReset   prometheus.Counter
	SessionsExpired prometheus.Counter

	// Conversation metrics
	TurnsTotal        *prometheus.CounterVec
	TurnDuration      prometheus.Histogram
	SuggestionsServed prometheus.Counter

	// Estimation metrics
	EstimatesTotal   *prometheus.CounterVec
	EstimateDuration prometheus.Histogram

	// External service metrics
	ClaudeAPICallsTotal   *prometheus.CounterVec
	ClaudeAPICallDuration prometheus.Histogram
	CircuitBreakerState   *prometheus.GaugeVec
	CircuitBreakerTrips   prometheus.Counter
	PhotoAnalysesTotal    *prometheus.CounterVec

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHitsTotal *prometheus.CounterVec

	// Registry used for this metrics instance (nil means default registry)
	registry prometheus.Gatherer
}

// NewMetrics creates a new Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	m := newMetricsWithRegistry(prometheus.DefaultRegisterer)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewMetricsWithRegistry creates metrics using a custom registry (for testing).
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := newMetricsWithRegistry(reg)
	m.registry = reg
	return m
}

func newMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reenove_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reenove_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reenove_sessions_active",
				Help: "Number of live conversation sessions",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reenove_sessions_created_total",
				Help: "Total number of conversation sessions created",
			},
		),
		SessionsReset: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reenove_sessions_reset_total",
				Help: "Total number of sessions restarted by the user",
			},
		),
		SessionsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reenove_sessions_expired_total",
				Help: "Total number of sessions evicted after their TTL",
			},
		),

		// Conversation metrics
		TurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_turns_total",
				Help: "Total number of conversation turns by intent and resulting action",
			},
			[]string{"intent", "action"},
		),
		TurnDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reenove_turn_duration_seconds",
				Help:    "End-to-end processing time of a conversation turn",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		SuggestionsServed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reenove_suggestions_served_total",
				Help: "Total number of turns answered with example suggestions",
			},
		),

		// Estimation metrics
		EstimatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_estimates_total",
				Help: "Total number of price estimates by category and catalog match tier",
			},
			[]string{"category", "tier"},
		),
		EstimateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reenove_estimate_duration_seconds",
				Help:    "Time taken to match and price a completed record",
				Buckets: []float64{.001, .005, .01, .05, .1, .5},
			},
		),

		// External service metrics
		ClaudeAPICallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_claude_api_calls_total",
				Help: "Total number of Claude API calls by status",
			},
			[]string{"status"}, // "success", "failure", "circuit_open"
		),
		ClaudeAPICallDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reenove_claude_api_call_duration_seconds",
				Help:    "Duration of Claude API calls",
				Buckets: []float64{.5, 1, 2, 5, 10, 15, 30},
			},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reenove_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "reenove_circuit_breaker_trips_total",
				Help: "Total number of times the circuit breaker has tripped",
			},
		),
		PhotoAnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_photo_analyses_total",
				Help: "Total number of photo analysis attempts by outcome",
			},
			[]string{"outcome"}, // "success", "failure", "unavailable"
		),

		// Database metrics
		DBConnectionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reenove_db_connections_open",
				Help: "Number of open database connections",
			},
		),
		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reenove_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reenove_db_query_duration_seconds",
				Help:    "Duration of database queries",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"}, // "select", "insert", "update", "delete"
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_db_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reenove_rate_limit_hits_total",
				Help: "Total number of rate limit hits by limiter",
			},
			[]string{"limiter"}, // "http", "generation"
		),
	}
}

// Handler returns the Prometheus HTTP handler for scraping metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware returns an HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Normalize path for metrics (avoid high cardinality)
		path := normalizePath(r.URL.Path)

		m.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			path,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		m.HTTPRequestDuration.WithLabelValues(
			r.Method,
			path,
		).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// normalizePath normalizes URL paths to prevent high cardinality labels.
func normalizePath(path string) string {
	switch path {
	case "/", "/health", "/ready", "/live", "/metrics", "/api/pricing":
		return path
	}

	if strings.HasPrefix(path, "/api/sessions/") {
		rest := strings.TrimPrefix(path, "/api/sessions/")
		if i := strings.Index(rest, "/"); i >= 0 {
			return "/api/sessions/:id" + rest[i:]
		}
		return "/api/sessions/:id"
	}
	if strings.HasPrefix(path, "/api/pricing/") {
		return "/api/pricing/:category"
	}

	return path
}

// Helper methods for recording specific events

// RecordSessionCreated records a new session creation.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsCreated.Inc()
}

// RecordSessionReset records a user-initiated session restart.
func (m *Metrics) RecordSessionReset() {
	m.SessionsReset.Inc()
}

// RecordSessionExpired records a session eviction.
func (m *Metrics) RecordSessionExpired() {
	m.SessionsExpired.Inc()
}

// RecordTurn records a processed conversation turn.
func (m *Metrics) RecordTurn(intent, action string, duration time.Duration) {
	m.TurnsTotal.WithLabelValues(intent, action).Inc()
	m.TurnDuration.Observe(duration.Seconds())
}

// RecordSuggestionsServed records a turn answered with suggestions.
func (m *Metrics) RecordSuggestionsServed() {
	m.SuggestionsServed.Inc()
}

// RecordEstimate records a computed price estimate.
func (m *Metrics) RecordEstimate(category, tier string, duration time.Duration) {
	m.EstimatesTotal.WithLabelValues(category, tier).Inc()
	m.EstimateDuration.Observe(duration.Seconds())
}

// RecordClaudeAPICall records a Claude API call.
func (m *Metrics) RecordClaudeAPICall(success bool, duration time.Duration) {
	status := outcomeFailure
	if success {
		status = outcomeSuccess
	}
	m.ClaudeAPICallsTotal.WithLabelValues(status).Inc()
	m.ClaudeAPICallDuration.Observe(duration.Seconds())
}

// RecordCircuitOpen records a circuit breaker opening.
func (m *Metrics) RecordCircuitOpen() {
	m.ClaudeAPICallsTotal.WithLabelValues("circuit_open").Inc()
	m.CircuitBreakerTrips.Inc()
}

// SetCircuitBreakerState sets the circuit breaker state for a service.
// State: 0=closed, 1=half-open, 2=open
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordPhotoAnalysis records a photo analysis attempt.
func (m *Metrics) RecordPhotoAnalysis(outcome string) {
	m.PhotoAnalysesTotal.WithLabelValues(outcome).Inc()
}

// UpdateDBConnections updates database connection metrics.
func (m *Metrics) UpdateDBConnections(open, inUse int) {
	m.DBConnectionsOpen.Set(float64(open))
	m.DBConnectionsInUse.Set(float64(inUse))
}

// RecordDBQuery records a database query.
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHitsTotal.WithLabelValues(limiter).Inc()
}

// SetActiveSessions sets the number of live sessions.
func (m *Metrics) SetActiveSessions(count int) {
	m.SessionsActive.Set(float64(count))
}
