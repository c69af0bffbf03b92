// Package errors provides the standardized error taxonomy shared by services and HTTP handlers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeUpstreamError      ErrorCode = "UPSTREAM_ERROR"
	ErrCodeDeliveryError      ErrorCode = "DELIVERY_ERROR"
	ErrCodeStoreError         ErrorCode = "STORE_ERROR"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Upstream sub-reasons carried in Metadata["reason"].
const (
	ReasonProviderError   = "provider_error"
	ReasonHTTPError       = "http_error"
	ReasonConnectionError = "connection_error"
	ReasonTimeout         = "timeout"
	ReasonInvalidResponse = "invalid_response"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Reason returns the sub-reason recorded for upstream failures.
func (e *StandardError) Reason() string {
	if e.Metadata == nil {
		return ""
	}
	r, _ := e.Metadata["reason"].(string)
	return r
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidArgumentError creates a non-retryable caller input error.
func NewInvalidArgumentError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a credential or token error.
func NewUnauthorizedError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a missing-resource error; message is returned to the caller verbatim.
func NewNotFoundError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError reports missing credentials or settings.
func NewConfigurationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationError,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError wraps a third-party API failure with its sub-reason.
func NewUpstreamError(provider, reason, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeUpstreamError,
		Message:   message,
		Details:   details,
		Retryable: reason == ReasonTimeout || reason == ReasonConnectionError,
		Metadata: map[string]interface{}{
			"provider": provider,
			"reason":   reason,
		},
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewDeliveryError wraps a mail transport failure.
func NewDeliveryError(channel string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryError,
		Message:   "Failed to deliver notification",
		Details:   errString(cause),
		Retryable: true,
		Metadata:  map[string]interface{}{"channel": channel},
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewStoreError wraps a persistence failure for the named operation.
func NewStoreError(operation string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreError,
		Message:   "Database operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, errString(cause)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInternalError wraps anything that does not fit the taxonomy.
func NewInternalError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   errString(cause),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to the HTTP status returned at the request boundary.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidArgument:    http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConfigurationError: http.StatusInternalServerError,
	ErrCodeUpstreamError:      http.StatusInternalServerError,
	ErrCodeDeliveryError:      http.StatusInternalServerError,
	ErrCodeStoreError:         http.StatusInternalServerError,
	ErrCodeInternalError:      http.StatusInternalServerError,
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus returns the status code for err.
func HTTPStatus(err error) int {
	stdErr := AsStandardError(err)
	if stdErr == nil {
		return http.StatusOK
	}
	if status, ok := HTTPStatusMapping[stdErr.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "UNAUTHORIZED"):
		return "AUTH"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "NOT_FOUND"):
		return "DATABASE"
	case strings.Contains(codeStr, "UPSTREAM"):
		return "PROVIDER"
	case strings.Contains(codeStr, "DELIVERY"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
