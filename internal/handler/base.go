// Package handler provides the HTTP API for the quote conversation
// service.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/infinitydev4/reenove-sub000/internal/middleware"
	"github.com/infinitydev4/reenove-sub000/internal/validation"
)

// ErrorResponse is the JSON shape of a non-validation error.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes a JSON response with the appropriate headers.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// JSONWithRequest writes a JSON response, echoing the request ID in the
// headers when the correlation middleware provided one.
func JSONWithRequest(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
		w.Header().Set(middleware.RequestIDHeader, reqID)
	}
	JSON(w, status, data)
}

// APIError writes an error response in a consistent format.
func APIError(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSONWithRequest(w, r, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Status:    status,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// ValidationErrorResponse carries field-level validation failures.
type ValidationErrorResponse struct {
	Error     string                       `json:"error"`
	Message   string                       `json:"message"`
	Status    int                          `json:"status"`
	Errors    []validation.ValidationError `json:"errors"`
	RequestID string                       `json:"request_id,omitempty"`
}

// APIValidationError writes a 400 with the individual field errors.
func APIValidationError(w http.ResponseWriter, r *http.Request, errs validation.ValidationErrors) {
	JSONWithRequest(w, r, http.StatusBadRequest, ValidationErrorResponse{
		Error:     http.StatusText(http.StatusBadRequest),
		Message:   "validation failed",
		Status:    http.StatusBadRequest,
		Errors:    errs,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}
