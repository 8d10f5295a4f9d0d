package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/audit"
	"github.com/infinitydev4/reenove-sub000/internal/conversation"
	"github.com/infinitydev4/reenove-sub000/internal/metrics"
	"github.com/infinitydev4/reenove-sub000/internal/pricing"
)

// HealthChecker defines the interface for checking database health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AIHealthChecker defines the interface for checking AI service health.
type AIHealthChecker interface {
	IsCircuitOpen() bool
}

// ReadinessChecker reports whether the service should accept new
// traffic. It goes false when shutdown begins.
type ReadinessChecker interface {
	IsReady() bool
}

// Handler holds all HTTP handlers and their dependencies.
type Handler struct {
	orchestrator    *conversation.Orchestrator
	healthChecker   HealthChecker
	aiHealthChecker AIHealthChecker
	readiness       ReadinessChecker
	auditLogger     *audit.Logger
	metrics         *metrics.Metrics
	businessEvents  *metrics.BusinessEventLogger
	errorRates      *metrics.ErrorRateTracker
	logLevel        http.Handler
	logger          *zap.Logger
}

// New creates a new Handler.
func New(orchestrator *conversation.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// SetHealthChecker sets the health checker for database connectivity.
// Without one the conversation log runs in process and the database
// check is skipped.
func (h *Handler) SetHealthChecker(hc HealthChecker) {
	h.healthChecker = hc
}

// SetAIHealthChecker sets the AI service health checker.
func (h *Handler) SetAIHealthChecker(ahc AIHealthChecker) {
	h.aiHealthChecker = ahc
}

// SetReadinessChecker sets the probe consulted by /ready.
func (h *Handler) SetReadinessChecker(rc ReadinessChecker) {
	h.readiness = rc
}

// SetAuditLogger sets the audit logger for session lifecycle events.
func (h *Handler) SetAuditLogger(al *audit.Logger) {
	h.auditLogger = al
}

// SetMetrics sets the metrics collector for business metrics.
func (h *Handler) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

// SetBusinessEvents sets the business event logger for searchable
// per-event logs alongside the Prometheus counters.
func (h *Handler) SetBusinessEvents(bel *metrics.BusinessEventLogger) {
	h.businessEvents = bel
}

// SetErrorRates sets the error rate tracker surfaced in /health.
func (h *Handler) SetErrorRates(ert *metrics.ErrorRateTracker) {
	h.errorRates = ert
}

// SetLogLevelHandler mounts a runtime log level endpoint at
// /debug/loglevel.
func (h *Handler) SetLogLevelHandler(lh http.Handler) {
	h.logLevel = lh
}

// RegisterRoutes registers all routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Post("/turns", h.HandleTurn)
			r.Post("/reset", h.HandleReset)
			r.Get("/record", h.HandleRecord)
			r.Get("/state", h.HandleState)
		})
		r.Get("/pricing", h.HandlePricingIndex)
		r.Get("/pricing/{category}", h.HandlePricingCategory)
	})

	// Health and readiness endpoints
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReadiness)
	r.Get("/live", h.HandleLiveness)

	if h.logLevel != nil {
		r.Handle("/debug/loglevel", h.logLevel)
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string                     `json:"status"`
	Version string                     `json:"version,omitempty"`
	Checks  map[string]ComponentHealth `json:"checks,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleHealth returns a health check response including all service
// dependencies.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Checks:  make(map[string]ComponentHealth),
	}

	hasCriticalFailure := false
	hasDegradation := false

	// Database connectivity (critical when the persistent log is enabled)
	if h.healthChecker != nil {
		if err := h.healthChecker.Ping(ctx); err != nil {
			hasCriticalFailure = true
			response.Checks["database"] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			h.logger.Error("database health check failed", zap.Error(err))
		} else {
			response.Checks["database"] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	// AI service health via circuit breaker
	if h.aiHealthChecker != nil {
		if h.aiHealthChecker.IsCircuitOpen() {
			hasDegradation = true
			response.Checks["ai_service"] = ComponentHealth{
				Status:  "degraded",
				Message: "circuit breaker open - service temporarily unavailable",
			}
			h.logger.Warn("AI service circuit breaker is open")
		} else {
			response.Checks["ai_service"] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	// Pricing catalog invariants (critical)
	if err := pricing.VerifyCatalog(); err != nil {
		hasCriticalFailure = true
		response.Checks["pricing_catalog"] = ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
		h.logger.Error("pricing catalog check failed", zap.Error(err))
	} else {
		response.Checks["pricing_catalog"] = ComponentHealth{
			Status: "healthy",
		}
	}

	// API error rate over the sliding window (informational)
	if h.errorRates != nil {
		pct := h.errorRates.ErrorPercentage()
		status := "healthy"
		if pct > 50 {
			hasDegradation = true
			status = "degraded"
		}
		response.Checks["error_rate"] = ComponentHealth{
			Status:  status,
			Message: fmt.Sprintf("%.1f%% of requests failed", pct),
		}
	}

	if hasCriticalFailure {
		response.Status = "unhealthy"
	} else if hasDegradation {
		response.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Debug("failed to write health response", zap.Error(err))
	}
}

// HandleReadiness returns a simple readiness probe response.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.readiness != nil && !h.readiness.IsReady() {
		http.Error(w, "draining", http.StatusServiceUnavailable)
		return
	}

	// Only check the database, the single external dependency a turn
	// cannot degrade around.
	if h.healthChecker != nil {
		if err := h.healthChecker.Ping(ctx); err != nil {
			h.logger.Error("readiness check failed", zap.Error(err))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		h.logger.Debug("failed to write readiness response", zap.Error(err))
	}
}

// HandleLiveness returns a simple liveness probe response.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		h.logger.Debug("failed to write liveness response", zap.Error(err))
	}
}
