package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All packages MUST use these constants instead of hardcoded strings.
const (
	// Validation
	ErrCodeValidationResourceKind ErrorCode = "validation_invalid_resource_kind"
	ErrCodeValidationSite         ErrorCode = "validation_invalid_site"

	// Station registry
	ErrCodeRegistryEmpty ErrorCode = "registry_no_stations"
	ErrCodeRegistryLoad  ErrorCode = "registry_unreadable"

	// Power history
	ErrCodePowerData ErrorCode = "power_history_invalid"

	// Weather archives
	ErrCodeArchiveFetch   ErrorCode = "upstream_archive_fetch"
	ErrCodeArchiveCorrupt ErrorCode = "archive_invalid"

	// Alignment and fusion
	ErrCodeAlignment ErrorCode = "alignment_invalid"

	// Persistence
	ErrCodeStoreWrite ErrorCode = "store_write_failed"
	ErrCodeStoreRead  ErrorCode = "store_read_failed"

	// Catch-all
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// AppError is the standard application error type used throughout the pipeline.
// All domain errors should be expressed as AppError to enable consistent error
// formatting, code-based handling, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// CodeOf extracts the ErrorCode from an error chain. Returns
// ErrCodeInternalUnexpected when the chain contains no AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalUnexpected
}
