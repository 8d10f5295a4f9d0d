package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRequestCorrelation_GeneratesIDs(t *testing.T) {
	mw := NewRequestCorrelation(zap.NewNop())

	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if GetCorrelationID(ctx) == "" {
			t.Error("correlation ID not set")
		}
		if GetRequestID(ctx) == "" {
			t.Error("request ID not set")
		}
		if GetTraceID(ctx) == "" {
			t.Error("trace ID not set")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/sessions/abc/turns", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(CorrelationIDHeader) == "" {
		t.Error("correlation ID header not set in response")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("request ID header not set in response")
	}
	if rec.Header().Get(TraceIDHeader) == "" {
		t.Error("trace ID header not set in response")
	}
}

func TestRequestCorrelation_PreservesIncomingIDs(t *testing.T) {
	mw := NewRequestCorrelation(zap.NewNop())

	var gotCorrelation, gotRequest, gotTrace string
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		gotCorrelation = GetCorrelationID(ctx)
		gotRequest = GetRequestID(ctx)
		gotTrace = GetTraceID(ctx)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/sessions/abc/turns", nil)
	req.Header.Set(CorrelationIDHeader, "conv-abc")
	req.Header.Set(RequestIDHeader, "req-123")
	req.Header.Set(TraceIDHeader, "trace-789")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotCorrelation != "conv-abc" {
		t.Errorf("correlation ID not preserved: got %q", gotCorrelation)
	}
	if gotRequest != "req-123" {
		t.Errorf("request ID not preserved: got %q", gotRequest)
	}
	if gotTrace != "trace-789" {
		t.Errorf("trace ID not preserved: got %q", gotTrace)
	}
	if rec.Header().Get(CorrelationIDHeader) != "conv-abc" {
		t.Error("correlation ID not echoed in response headers")
	}
}

func TestGetRequestID_NoContext(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("expected empty string for bare context, got %q", id)
	}
}

func TestWithCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "conv-42")
	if got := GetCorrelationID(ctx); got != "conv-42" {
		t.Errorf("GetCorrelationID = %q, want %q", got, "conv-42")
	}
}

func TestGenerateID(t *testing.T) {
	id1 := generateID()
	id2 := generateID()

	if id1 == "" {
		t.Error("generateID returned empty string")
	}
	if id1 == id2 {
		t.Error("generateID should return unique IDs")
	}
	if len(id1) != 32 { // 16 bytes hex-encoded
		t.Errorf("expected 32 char ID, got %d", len(id1))
	}
}

func TestLoggerWithCorrelation(t *testing.T) {
	logger := zap.NewNop()

	// A bare context returns the logger unchanged.
	if got := LoggerWithCorrelation(context.Background(), logger); got != logger {
		t.Error("expected the same logger for a context without IDs")
	}

	ctx := WithCorrelationID(context.Background(), "conv-abc")
	if got := LoggerWithCorrelation(ctx, logger); got == logger {
		t.Error("expected a child logger when correlation IDs are present")
	}
}

func TestPropagateHeaders(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "conv-abc")

	req := httptest.NewRequest("GET", "https://cdn.example.fr/photo.jpg", nil)
	PropagateHeaders(ctx, req)

	if req.Header.Get(CorrelationIDHeader) != "conv-abc" {
		t.Error("correlation ID not propagated to outgoing request")
	}
	if req.Header.Get(RequestIDHeader) != "" {
		t.Error("request ID header should be absent when not in context")
	}
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.WriteHeader(http.StatusTooManyRequests)

	if wrapped.statusCode != http.StatusTooManyRequests {
		t.Errorf("status code not captured: got %d", wrapped.statusCode)
	}

	// A second WriteHeader must not overwrite the recorded status.
	wrapped.WriteHeader(http.StatusOK)
	if wrapped.statusCode != http.StatusTooManyRequests {
		t.Errorf("status code overwritten: got %d", wrapped.statusCode)
	}
}

func TestResponseWriter_DefaultStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.Write([]byte(`{"reply":"Bonjour"}`))

	if wrapped.statusCode != http.StatusOK {
		t.Errorf("default status code should be 200, got %d", wrapped.statusCode)
	}
}
