package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "simple message",
			err:      New(CodeNotFound, "session not found"),
			expected: "session not found",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    CodeNotFound,
				Message: "session not found",
				Op:      "sessions.Get",
			},
			expected: "sessions.Get: session not found",
		},
		{
			name: "with underlying error",
			err: &Error{
				Code:    CodeDatabase,
				Message: "query failed",
				Err:     errors.New("connection refused"),
			},
			expected: "query failed: connection refused",
		},
		{
			name: "with operation and underlying error",
			err: &Error{
				Code:    CodeDatabase,
				Message: "query failed",
				Op:      "log.Append",
				Err:     errors.New("connection refused"),
			},
			expected: "log.Append: query failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("root cause")
	err := Wrap(underlying, "op", CodeInternal, "wrapped")

	if !errors.Is(err, underlying) {
		t.Error("Unwrap should allow errors.Is to find underlying error")
	}
}

func TestError_Is(t *testing.T) {
	err1 := New(CodeNotFound, "resource not found")
	err2 := New(CodeNotFound, "different message")
	err3 := New(CodeRateLimited, "slow down")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match")
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeMissingField, http.StatusBadRequest},
		{CodePhotoRejected, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeExternalService, http.StatusBadGateway},
		{CodeCircuitOpen, http.StatusBadGateway},
		{CodeGenerationFailed, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDatabase, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.HTTPStatus(); got != tt.expected {
				t.Errorf("HTTPStatus() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestError_IsRetriable(t *testing.T) {
	tests := []struct {
		code      Code
		retriable bool
	}{
		{CodeRateLimited, true},
		{CodeTimeout, true},
		{CodeCircuitOpen, true},
		{CodeExternalService, true},
		{CodeGenerationFailed, true},
		{CodeNotFound, false},
		{CodeValidation, false},
		{CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.IsRetriable(); got != tt.retriable {
				t.Errorf("IsRetriable() = %v, expected %v", got, tt.retriable)
			}
		})
	}
}

func TestError_IsUserError(t *testing.T) {
	tests := []struct {
		code   Code
		isUser bool
	}{
		{CodeValidation, true},
		{CodeInvalidInput, true},
		{CodePhotoRejected, true},
		{CodeNotFound, true},
		{CodeInternal, false},
		{CodeDatabase, false},
		{CodeRateLimited, false}, // Transient, not user
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if got := err.IsUserError(); got != tt.isUser {
				t.Errorf("IsUserError() = %v, expected %v", got, tt.isUser)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	underlying := errors.New("root cause")
	err := Wrap(underlying, "ai.GenerateText", CodeExternalService, "generation failed")

	if err.Code != CodeExternalService {
		t.Errorf("Code = %q, expected %q", err.Code, CodeExternalService)
	}
	if err.Op != "ai.GenerateText" {
		t.Errorf("Op = %q, expected %q", err.Op, "ai.GenerateText")
	}
	if err.Message != "generation failed" {
		t.Errorf("Message = %q, expected %q", err.Message, "generation failed")
	}
	if !errors.Is(err, underlying) {
		t.Error("wrapped error should contain underlying error")
	}
}

func TestWrapWithOp(t *testing.T) {
	// Wrap an existing Error
	original := New(CodeNotFound, "session not found")
	wrapped := WrapWithOp(original, "handler.GetState")

	if wrapped.Code != CodeNotFound {
		t.Errorf("Code = %q, expected %q", wrapped.Code, CodeNotFound)
	}
	if wrapped.Op != "handler.GetState" {
		t.Errorf("Op = %q, expected %q", wrapped.Op, "handler.GetState")
	}

	// Wrap a standard error
	stdErr := errors.New("some error")
	wrapped2 := WrapWithOp(stdErr, "handler.DoSomething")

	if wrapped2.Code != CodeInternal {
		t.Errorf("Code = %q, expected %q for non-Error", wrapped2.Code, CodeInternal)
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrNotFound.Code != CodeNotFound {
		t.Errorf("ErrNotFound.Code = %q, expected %q", ErrNotFound.Code, CodeNotFound)
	}
	if ErrRateLimited.Code != CodeRateLimited {
		t.Errorf("ErrRateLimited.Code = %q, expected %q", ErrRateLimited.Code, CodeRateLimited)
	}
	if ErrCircuitOpen.Code != CodeCircuitOpen {
		t.Errorf("ErrCircuitOpen.Code = %q, expected %q", ErrCircuitOpen.Code, CodeCircuitOpen)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("session")
	if err.Code != CodeNotFound {
		t.Errorf("Code = %q, expected %q", err.Code, CodeNotFound)
	}
	if err.Message != "session not found" {
		t.Errorf("Message = %q, expected %q", err.Message, "session not found")
	}
}

func TestMissingField(t *testing.T) {
	err := MissingField("message")
	if err.Code != CodeMissingField {
		t.Errorf("Code = %q, expected %q", err.Code, CodeMissingField)
	}
	if err.Message != "missing required field: message" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestInvalidFormat(t *testing.T) {
	err := InvalidFormat("session_id", "UUID")
	if err.Code != CodeInvalidFormat {
		t.Errorf("Code = %q, expected %q", err.Code, CodeInvalidFormat)
	}
	if err.Message != "invalid format for session_id: expected UUID" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestDatabaseError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := DatabaseError("log.Append", underlying)

	if err.Code != CodeDatabase {
		t.Errorf("Code = %q, expected %q", err.Code, CodeDatabase)
	}
	if err.Op != "log.Append" {
		t.Errorf("Op = %q, expected %q", err.Op, "log.Append")
	}
	if !errors.Is(err, underlying) {
		t.Error("should wrap underlying error")
	}
}

func TestExternalServiceError(t *testing.T) {
	underlying := errors.New("503 service unavailable")
	err := ExternalServiceError("Claude", underlying)

	if err.Code != CodeExternalService {
		t.Errorf("Code = %q, expected %q", err.Code, CodeExternalService)
	}
	if err.Message != "Claude service error" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Kind != KindTransient {
		t.Errorf("Kind = %v, expected KindTransient", err.Kind)
	}
}

func TestGenerationError(t *testing.T) {
	underlying := errors.New("API timeout")
	err := GenerationError(underlying)

	if err.Code != CodeGenerationFailed {
		t.Errorf("Code = %q, expected %q", err.Code, CodeGenerationFailed)
	}
	if err.Kind != KindTransient {
		t.Errorf("Kind = %v, expected KindTransient", err.Kind)
	}
}

func TestPhotoRejected(t *testing.T) {
	err := PhotoRejected("unsupported content type")
	if err.Code != CodePhotoRejected {
		t.Errorf("Code = %q, expected %q", err.Code, CodePhotoRejected)
	}
	if err.Kind != KindUser {
		t.Errorf("Kind = %v, expected KindUser", err.Kind)
	}
}

func TestGetCode(t *testing.T) {
	appErr := New(CodeNotFound, "not found")
	if got := GetCode(appErr); got != CodeNotFound {
		t.Errorf("GetCode(appErr) = %q, expected %q", got, CodeNotFound)
	}

	stdErr := errors.New("some error")
	if got := GetCode(stdErr); got != CodeInternal {
		t.Errorf("GetCode(stdErr) = %q, expected %q", got, CodeInternal)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	appErr := New(CodeNotFound, "not found")
	if got := GetHTTPStatus(appErr); got != http.StatusNotFound {
		t.Errorf("GetHTTPStatus(appErr) = %d, expected %d", got, http.StatusNotFound)
	}

	stdErr := errors.New("some error")
	if got := GetHTTPStatus(stdErr); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus(stdErr) = %d, expected %d", got, http.StatusInternalServerError)
	}
}

func TestIsRetriableHelper(t *testing.T) {
	if !IsRetriable(New(CodeRateLimited, "test")) {
		t.Error("CodeRateLimited should be retriable")
	}
	if IsRetriable(New(CodeNotFound, "test")) {
		t.Error("CodeNotFound should not be retriable")
	}
	if IsRetriable(errors.New("standard error")) {
		t.Error("standard errors should not be retriable")
	}
}

func TestIsNotFoundHelper(t *testing.T) {
	if !IsNotFound(New(CodeNotFound, "test")) {
		t.Error("CodeNotFound should be recognized")
	}
	if IsNotFound(New(CodeInternal, "test")) {
		t.Error("CodeInternal should not be recognized as not found")
	}
}

func TestIsUserErrorHelper(t *testing.T) {
	if !IsUserError(New(CodeValidation, "test")) {
		t.Error("CodeValidation should be user error")
	}
	if IsUserError(New(CodeInternal, "test")) {
		t.Error("CodeInternal should not be user error")
	}
}

func TestError_ToResponse(t *testing.T) {
	err := New(CodeNotFound, "session not found")
	resp := err.ToResponse()

	if resp.Error.Code != CodeNotFound {
		t.Errorf("Response.Error.Code = %q, expected %q", resp.Error.Code, CodeNotFound)
	}
	if resp.Error.Message != "session not found" {
		t.Errorf("Response.Error.Message = %q, expected %q", resp.Error.Message, "session not found")
	}
}

func TestErrorChaining(t *testing.T) {
	// Simulate error chain: database -> memory log -> orchestrator
	dbErr := errors.New("connection refused")
	logErr := DatabaseError("log.Append", dbErr)
	orchErr := WrapWithOp(logErr, "orchestrator.ProcessTurn")

	if !errors.Is(orchErr, dbErr) {
		t.Error("should be able to find original database error in chain")
	}

	errMsg := orchErr.Error()
	expected := "orchestrator.ProcessTurn: database operation failed: connection refused"
	if errMsg != expected {
		t.Errorf("Error() = %q, expected %q", errMsg, expected)
	}
}

func TestErrorWithFmtErrorf(t *testing.T) {
	original := New(CodeNotFound, "session not found")
	wrapped := fmt.Errorf("handler failed: %w", original)

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Error("errors.As should find Error in fmt.Errorf wrapped error")
	}
	if appErr.Code != CodeNotFound {
		t.Errorf("Code = %q, expected %q", appErr.Code, CodeNotFound)
	}
}
