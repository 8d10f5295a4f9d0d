// Package audit provides operational event logging for compliance and forensics.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType represents the type of audit event.
type EventType string

// Audit event types.
const (
	// Session lifecycle events
	EventSessionCreated EventType = "session.created"
	EventSessionReset   EventType = "session.reset"
	EventSessionExpired EventType = "session.expired"

	// Conversation events
	EventEstimateGenerated EventType = "estimate.generated"
	EventPhotoRejected     EventType = "photo.rejected"

	// API events
	EventAPICallFailed EventType = "api.call.failed"

	// Protection events
	EventRateLimitExceeded EventType = "ratelimit.exceeded"

	// System events
	EventServiceStarted  EventType = "system.started"
	EventServiceStopping EventType = "system.stopping"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Event represents an audit log entry.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type of event (e.g., "session.created").
	Type EventType `json:"type"`

	// Severity level.
	Severity Severity `json:"severity"`

	// Source of the event.
	SourceIP  string `json:"source_ip,omitempty"`
	RequestID string `json:"request_id,omitempty"` // Correlation ID
	SessionID string `json:"session_id,omitempty"`

	// Action details.
	Action  string `json:"action"`           // Brief action description
	Outcome string `json:"outcome"`          // "success", "failure", "denied"
	Reason  string `json:"reason,omitempty"` // Failure/denial reason

	// Additional context.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Logger provides audit logging capabilities.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a new audit logger.
func NewLogger(baseLogger *zap.Logger) *Logger {
	return &Logger{
		logger: baseLogger.Named("audit"),
	}
}

// Log records an audit event.
func (l *Logger) Log(ctx context.Context, event *Event) {
	// Ensure ID and timestamp are set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	// Get severity-appropriate log level
	level := zap.InfoLevel
	switch event.Severity {
	case SeverityWarning:
		level = zap.WarnLevel
	case SeverityError:
		level = zap.ErrorLevel
	case SeverityCritical:
		level = zap.ErrorLevel // Critical also uses error level
	}

	// Convert metadata to JSON for logging
	var metadataJSON []byte
	if len(event.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			// If metadata can't be marshaled, log the error but continue
			metadataJSON = []byte(`{"error":"failed to marshal metadata"}`)
		}
	}

	// Log the event with structured fields
	fields := []zap.Field{
		zap.String("audit_id", event.ID),
		zap.Time("audit_timestamp", event.Timestamp),
		zap.String("event_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.String("action", event.Action),
		zap.String("outcome", event.Outcome),
	}

	// Add optional fields
	if event.SourceIP != "" {
		fields = append(fields, zap.String("source_ip", event.SourceIP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.SessionID != "" {
		fields = append(fields, zap.String("session_id", event.SessionID))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if len(metadataJSON) > 0 {
		fields = append(fields, zap.ByteString("metadata", metadataJSON))
	}

	// Log at appropriate level
	if ce := l.logger.Check(level, "audit event"); ce != nil {
		ce.Write(fields...)
	}
}

// Helper methods for common audit scenarios

// SessionCreated logs the opening of a new conversation session.
func (l *Logger) SessionCreated(ctx context.Context, sessionID, ip, requestID string) {
	l.Log(ctx, &Event{
		Type:      EventSessionCreated,
		Severity:  SeverityInfo,
		SessionID: sessionID,
		SourceIP:  ip,
		RequestID: requestID,
		Action:    "conversation session created",
		Outcome:   "success",
	})
}

// SessionReset logs a user-initiated restart of a session.
func (l *Logger) SessionReset(ctx context.Context, sessionID, ip, requestID string) {
	l.Log(ctx, &Event{
		Type:      EventSessionReset,
		Severity:  SeverityInfo,
		SessionID: sessionID,
		SourceIP:  ip,
		RequestID: requestID,
		Action:    "conversation session reset",
		Outcome:   "success",
	})
}

// SessionExpired logs the eviction of an idle session.
func (l *Logger) SessionExpired(ctx context.Context, sessionID string) {
	l.Log(ctx, &Event{
		Type:      EventSessionExpired,
		Severity:  SeverityInfo,
		SessionID: sessionID,
		Action:    "session expired after inactivity",
		Outcome:   "success",
	})
}

// EstimateGenerated logs a completed price estimate.
func (l *Logger) EstimateGenerated(ctx context.Context, sessionID, requestID string, durationMs int64) {
	l.Log(ctx, &Event{
		Type:      EventEstimateGenerated,
		Severity:  SeverityInfo,
		SessionID: sessionID,
		RequestID: requestID,
		Action:    "price estimate generated",
		Outcome:   "success",
		Metadata: map[string]interface{}{
			"duration_ms": durationMs,
		},
	})
}

// PhotoRejected logs a photo that could not be fetched or analyzed.
func (l *Logger) PhotoRejected(ctx context.Context, sessionID, requestID, reason string) {
	l.Log(ctx, &Event{
		Type:      EventPhotoRejected,
		Severity:  SeverityWarning,
		SessionID: sessionID,
		RequestID: requestID,
		Action:    "photo rejected",
		Outcome:   "failure",
		Reason:    reason,
	})
}

// APICallFailed logs a failed external API call.
func (l *Logger) APICallFailed(ctx context.Context, service, operation, requestID, reason string) {
	l.Log(ctx, &Event{
		Type:      EventAPICallFailed,
		Severity:  SeverityError,
		RequestID: requestID,
		Action:    "external API call to " + service + " for " + operation,
		Outcome:   "failure",
		Reason:    reason,
		Metadata: map[string]interface{}{
			"service":   service,
			"operation": operation,
		},
	})
}

// RateLimitExceeded logs when a rate limit is exceeded.
func (l *Logger) RateLimitExceeded(ctx context.Context, identifier, ip, requestID, limiterType string) {
	l.Log(ctx, &Event{
		Type:      EventRateLimitExceeded,
		Severity:  SeverityWarning,
		SourceIP:  ip,
		RequestID: requestID,
		Action:    "rate limit exceeded",
		Outcome:   "denied",
		Metadata: map[string]interface{}{
			"identifier":   identifier,
			"limiter_type": limiterType,
		},
	})
}

// ServiceStarted logs service startup.
func (l *Logger) ServiceStarted(ctx context.Context, version, environment string) {
	l.Log(ctx, &Event{
		Type:     EventServiceStarted,
		Severity: SeverityInfo,
		Action:   "service started",
		Outcome:  "success",
		Metadata: map[string]interface{}{
			"version":     version,
			"environment": environment,
		},
	})
}

// ServiceStopping logs service shutdown.
func (l *Logger) ServiceStopping(ctx context.Context, reason string) {
	l.Log(ctx, &Event{
		Type:     EventServiceStopping,
		Severity: SeverityInfo,
		Action:   "service stopping",
		Outcome:  "success",
		Reason:   reason,
	})
}
