// Package validation provides input validation for API requests.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation failure with field context.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// FieldErrors returns errors for a specific field.
func (e ValidationErrors) FieldErrors(field string) ValidationErrors {
	var result ValidationErrors
	for _, err := range e {
		if err.Field == field {
			result = append(result, err)
		}
	}
	return result
}

// Error codes for validation failures.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeTooLong       = "too_long"
	CodeTooShort      = "too_short"
	CodeInvalidValue  = "invalid_value"
	CodeMalicious     = "malicious_content"
)

// Validator provides validation methods for API requests.
type Validator struct {
	errors ValidationErrors
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Errors returns all accumulated validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// IsValid returns true if no validation errors occurred.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message, code string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required", CodeRequired)
		return false
	}
	return true
}

// MaxLength validates string length doesn't exceed maximum.
func (v *Validator) MaxLength(field, value string, maxLen int) bool {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be at most %d characters", maxLen), CodeTooLong)
		return false
	}
	return true
}

// MinLength validates string length meets minimum.
func (v *Validator) MinLength(field, value string, minLen int) bool {
	if utf8.RuneCountInString(value) < minLen {
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen), CodeTooShort)
		return false
	}
	return true
}

// uuidRegex matches UUID format.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// UUID validates a UUID format.
func (v *Validator) UUID(field, value string) bool {
	if value == "" {
		return true // Use Required() separately if needed
	}
	if !uuidRegex.MatchString(value) {
		v.AddError(field, "must be a valid UUID", CodeInvalidFormat)
		return false
	}
	return true
}

// urlRegex matches http/https URLs.
var urlRegex = regexp.MustCompile(`^https?://[^\s/$.?#].\S*$`)

// URL validates a URL format.
func (v *Validator) URL(field, value string) bool {
	if value == "" {
		return true
	}
	if !urlRegex.MatchString(value) {
		v.AddError(field, "must be a valid URL", CodeInvalidFormat)
		return false
	}
	return true
}

// OneOf validates that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")), CodeInvalidValue)
	return false
}

// NoScriptTags validates that the value doesn't contain script tags (XSS prevention).
func (v *Validator) NoScriptTags(field, value string) bool {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		v.AddError(field, "contains potentially malicious content", CodeMalicious)
		return false
	}
	return true
}

// SafeString validates a string is safe for display (no control characters except newlines).
func (v *Validator) SafeString(field, value string) bool {
	for _, r := range value {
		// Allow printable characters, newlines, tabs
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			v.AddError(field, "contains invalid control characters", CodeMalicious)
			return false
		}
	}
	return true
}

// Range validates an integer is within range.
func (v *Validator) Range(field string, value, minVal, maxVal int) bool {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal), CodeInvalidValue)
		return false
	}
	return true
}

// Limits for turn requests.
const (
	MaxMessageLength = 2000
	MaxImagesPerTurn = 10
)

// TurnRequestValidator validates one conversation turn request.
type TurnRequestValidator struct {
	*Validator
}

// NewTurnRequestValidator creates a validator for turn requests.
func NewTurnRequestValidator() *TurnRequestValidator {
	return &TurnRequestValidator{Validator: New()}
}

// ValidateMessage checks the free-text message of a turn.
func (v *TurnRequestValidator) ValidateMessage(message string) {
	v.MaxLength("message", message, MaxMessageLength)
	v.NoScriptTags("message", message)
	v.SafeString("message", message)
}

// ValidateImageURLs checks the image URL list of a turn.
func (v *TurnRequestValidator) ValidateImageURLs(urls []string) {
	if len(urls) > MaxImagesPerTurn {
		v.AddError("image_urls", fmt.Sprintf("must contain at most %d images", MaxImagesPerTurn), CodeTooLong)
		return
	}
	for i, u := range urls {
		field := fmt.Sprintf("image_urls[%d]", i)
		if !v.Required(field, u) {
			continue
		}
		v.URL(field, u)
		v.MaxLength(field, u, 2048)
	}
}

// ValidateAll checks a whole turn request. A turn needs a message or at
// least one image.
func (v *TurnRequestValidator) ValidateAll(message string, imageURLs []string) {
	if strings.TrimSpace(message) == "" && len(imageURLs) == 0 {
		v.AddError("message", "message or image_urls is required", CodeRequired)
		return
	}
	v.ValidateMessage(message)
	v.ValidateImageURLs(imageURLs)
}
