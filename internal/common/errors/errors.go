// Package errors provides standardized error handling for the intake service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"

	ErrCodeOTPContactRequired ErrorCode = "OTP_CONTACT_REQUIRED"
	ErrCodeOTPMismatch        ErrorCode = "OTP_MISMATCH"
	ErrCodeOTPStoreFailed     ErrorCode = "OTP_STORE_FAILED"

	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeApplicationNotFound    ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeDocumentRenderFailed   ErrorCode = "DOCUMENT_RENDER_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, or empty string when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// NewValidationError creates a non-retryable field validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError wraps a storage failure. Retryable: the record was not
// written, so the caller may resubmit.
func NewPersistenceError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Failed to persist application record",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError indicates an update targeted an unknown application id.
func NewNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("no application with id %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentRenderError marks a non-fatal document generation failure.
func NewDocumentRenderError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentRenderFailed,
		Message:   "Failed to render application document",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationError marks a non-fatal mail delivery failure.
func NewNotificationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send confirmation email",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPStoreError wraps a challenge store failure.
func NewOTPStoreError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPStoreFailed,
		Message:   "OTP challenge store unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
