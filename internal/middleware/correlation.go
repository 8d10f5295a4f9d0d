package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Correlation ID headers.
const (
	// CorrelationIDHeader carries a client-chosen ID across a whole
	// conversation, so every turn of a session can be grepped at once.
	CorrelationIDHeader = "X-Correlation-ID"
	// RequestIDHeader identifies a single HTTP request.
	RequestIDHeader = "X-Request-ID"
	// TraceIDHeader is the header for distributed tracing.
	TraceIDHeader = "X-Trace-ID"
)

type correlationIDKey struct{}

type requestIDKey struct{}

type traceIDKey struct{}

// RequestCorrelation provides request correlation middleware.
type RequestCorrelation struct {
	logger *zap.Logger
}

// NewRequestCorrelation creates a new correlation middleware.
func NewRequestCorrelation(logger *zap.Logger) *RequestCorrelation {
	return &RequestCorrelation{
		logger: logger,
	}
}

// Middleware extracts or generates the correlation, request, and trace
// IDs, stores them in the request context, and echoes them back in the
// response headers.
func (rc *RequestCorrelation) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		startTime := time.Now()

		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = generateID()
		}

		// Request IDs are always unique per request
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = generateID()
		}

		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = generateID()
		}

		ctx = context.WithValue(ctx, correlationIDKey{}, correlationID)
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)
		ctx = context.WithValue(ctx, traceIDKey{}, traceID)

		w.Header().Set(CorrelationIDHeader, correlationID)
		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(TraceIDHeader, traceID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		rc.logger.Debug("request completed",
			zap.String("correlation_id", correlationID),
			zap.String("request_id", requestID),
			zap.String("trace_id", traceID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", time.Since(startTime)),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
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
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// GetCorrelationID retrieves the correlation ID from context.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceID retrieves the trace ID from context.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithCorrelationID creates a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// generateID generates a random ID suitable for correlation.
func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback if crypto rand fails
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}

// LoggerWithCorrelation returns a logger with correlation fields added.
func LoggerWithCorrelation(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 3)

	if id := GetCorrelationID(ctx); id != "" {
		fields = append(fields, zap.String("correlation_id", id))
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// PropagateHeaders adds correlation headers to an outgoing HTTP
// request, so photo fetches can be traced back to the user turn that
// triggered them.
func PropagateHeaders(ctx context.Context, req *http.Request) {
	if id := GetCorrelationID(ctx); id != "" {
		req.Header.Set(CorrelationIDHeader, id)
	}
	if id := GetRequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	if id := GetTraceID(ctx); id != "" {
		req.Header.Set(TraceIDHeader, id)
	}
}
