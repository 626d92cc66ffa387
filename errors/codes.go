package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors (fatal, never retryable)
const (
	// ErrCodeConfiguration indicates a required credential or setting is
	// missing or invalid, or a target directory is absent.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
)

// Per-file pipeline errors (isolated per descriptor, never abort a batch)
const (
	// ErrCodeUploadFailed indicates the staging upload for a file failed.
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	// ErrCodeSubmitFailed indicates a transcription job submission failed.
	ErrCodeSubmitFailed ErrorCode = "SUBMIT_FAILED"
	// ErrCodeCheckFailed indicates a job status poll failed.
	ErrCodeCheckFailed ErrorCode = "CHECK_FAILED"
	// ErrCodeRemoteJobFailed indicates the remote service reported the job failed.
	ErrCodeRemoteJobFailed ErrorCode = "REMOTE_JOB_FAILED"
	// ErrCodeFetchFailed indicates transcript retrieval after completion failed.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	// ErrCodeCleanupFailed indicates best-effort remote resource deletion failed.
	ErrCodeCleanupFailed ErrorCode = "CLEANUP_FAILED"
	// ErrCodeTimeout indicates the global poll deadline was exceeded.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUploadFailed:       true,
	ErrCodeSubmitFailed:       true,
	ErrCodeCheckFailed:        true,
	ErrCodeFetchFailed:        true,
	ErrCodeCleanupFailed:      true,
	ErrCodeTimeout:            true,
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeRemoteJobFailed:    false,
	ErrCodeConfiguration:      false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
