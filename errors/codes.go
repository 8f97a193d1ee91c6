package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transport errors
const (
	// ErrCodeConnectionFailed indicates a transport session could not be opened.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates an operation exceeded its time bound.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Input errors
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUsage indicates an operation was called in the wrong lifecycle state.
	ErrCodeUsage ErrorCode = "USAGE_ERROR"
)

// Remote and internal errors
const (
	// ErrCodeMapping indicates the provider response could not be mapped to a record.
	ErrCodeMapping ErrorCode = "MAPPING_ERROR"
	// ErrCodeTranscriptionFailed indicates the provider reported status error.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeExternalService     ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeExternalService:  true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
