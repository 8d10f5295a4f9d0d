package metrics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BusinessEventLogger provides structured logging for business events.
// This complements Prometheus metrics by providing detailed, searchable logs
// for business intelligence and debugging.
type BusinessEventLogger struct {
	logger *zap.Logger
}

// NewBusinessEventLogger creates a new business event logger.
func NewBusinessEventLogger(logger *zap.Logger) *BusinessEventLogger {
	return &BusinessEventLogger{
		logger: logger.Named("business_events"),
	}
}

// SessionStarted logs when a new conversation session is opened.
func (l *BusinessEventLogger) SessionStarted(ctx context.Context, sessionID uuid.UUID) {
	l.logger.Info("session_started",
		zap.String("event_type", "session.started"),
		zap.String("session_id", sessionID.String()),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// SessionReset logs when a user restarts their session from scratch.
func (l *BusinessEventLogger) SessionReset(ctx context.Context, sessionID uuid.UUID) {
	l.logger.Info("session_reset",
		zap.String("event_type", "session.reset"),
		zap.String("session_id", sessionID.String()),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// TurnProcessed logs a processed conversation turn.
func (l *BusinessEventLogger) TurnProcessed(ctx context.Context, sessionID uuid.UUID, intent, action string, duration time.Duration) {
	l.logger.Info("turn_processed",
		zap.String("event_type", "turn.processed"),
		zap.String("session_id", sessionID.String()),
		zap.String("intent", intent),
		zap.String("action", action),
		zap.Duration("duration", duration),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// EstimateGenerated logs a completed price estimate.
func (l *BusinessEventLogger) EstimateGenerated(ctx context.Context, sessionID uuid.UUID, category string, minPrice, maxPrice int, duration time.Duration) {
	l.logger.Info("estimate_generated",
		zap.String("event_type", "estimate.generated"),
		zap.String("session_id", sessionID.String()),
		zap.String("category", category),
		zap.Int("min_price", minPrice),
		zap.Int("max_price", maxPrice),
		zap.Duration("generation_duration", duration),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// PhotoAnalyzed logs a photo analysis attempt.
func (l *BusinessEventLogger) PhotoAnalyzed(ctx context.Context, sessionID uuid.UUID, imageCount int, success bool) {
	fields := []zap.Field{
		zap.String("event_type", "photo.analyzed"),
		zap.String("session_id", sessionID.String()),
		zap.Int("image_count", imageCount),
		zap.Bool("success", success),
		zap.Time("timestamp", time.Now().UTC()),
	}

	if success {
		l.logger.Info("photo_analyzed", fields...)
	} else {
		l.logger.Warn("photo_analysis_failed", fields...)
	}
}

// ExternalAPICall logs calls to external APIs.
func (l *BusinessEventLogger) ExternalAPICall(ctx context.Context, service, endpoint string, duration time.Duration, success bool, statusCode int) {
	level := l.logger.Info
	eventName := "external_api_call"
	if !success {
		level = l.logger.Warn
		eventName = "external_api_call_failed"
	}
	level(eventName,
		zap.String("event_type", "external_api.call"),
		zap.String("service", service),
		zap.String("endpoint", endpoint),
		zap.Duration("duration", duration),
		zap.Bool("success", success),
		zap.Int("status_code", statusCode),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// RateLimitExceeded logs when a rate limit is exceeded.
func (l *BusinessEventLogger) RateLimitExceeded(ctx context.Context, limiterType string, identifier string) {
	l.logger.Warn("rate_limit_exceeded",
		zap.String("event_type", "rate_limit.exceeded"),
		zap.String("limiter_type", limiterType),
		zap.String("identifier", maskIdentifier(identifier)),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// APIError logs an API error for monitoring.
func (l *BusinessEventLogger) APIError(ctx context.Context, endpoint, method string, statusCode int, errorMsg string) {
	l.logger.Error("api_error",
		zap.String("event_type", "api.error"),
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.Int("status_code", statusCode),
		zap.String("error", errorMsg),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// maskIdentifier masks an identifier for privacy.
func maskIdentifier(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return id[:2] + "****" + id[len(id)-2:]
}
