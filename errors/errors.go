package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified error type shared by the server and client adapters.
// It never crosses the tool boundary as-is: adapters render it into a
// human-readable "Error: ..." sentence.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable reports whether a caller could try again. Nothing in this
	// module retries automatically.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status used when the error is rendered by the HTTP binding.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code so callers can write
// errors.Is(err, errors.Timeout("")).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// ConnectionFailed reports that a transport session to target could not be opened.
func ConnectionFailed(target string) *AppError {
	return &AppError{
		Code:       ErrCodeConnectionFailed,
		Message:    fmt.Sprintf("unable to connect to %s", target),
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Details:    map[string]any{"target": target},
	}
}

// Timeout reports that operation did not finish within its bound.
func Timeout(operation string) *AppError {
	return &AppError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  true,
		Details:    map[string]any{"operation": operation},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s %s does not exist", resource, id),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// InvalidInput creates a new AppError for invalid input on field.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code:       ErrCodeInvalidInput,
		Message:    reason,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Validation creates a new AppError for struct validation failures.
func Validation(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code:       ErrCodeMissingField,
		Message:    fmt.Sprintf("missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// Usage reports that an operation was invoked out of order, e.g. a call
// before a session exists.
func Usage(message string) *AppError {
	return &AppError{
		Code:       ErrCodeUsage,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// Mapping reports a provider response that lacks a field required to build
// a transcript record.
func Mapping(field string) *AppError {
	return &AppError{
		Code:       ErrCodeMapping,
		Message:    fmt.Sprintf("provider response is missing %q", field),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"field": field},
	}
}

// TranscriptionFailed reports a job that the provider finished with status error.
func TranscriptionFailed(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeTranscriptionFailed,
		Message:    detail,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ExternalServiceError wraps a failure talking to a remote service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeExternalService,
		Message:    fmt.Sprintf("the %s service returned an error", service),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  true,
		Details:    map[string]any{"service": service},
		Cause:      cause,
	}
}
