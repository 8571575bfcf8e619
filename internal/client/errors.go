package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of transport error
type ErrorType string

const (
	// ErrTypeValidation indicates the upload was rejected before sending
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeNetwork indicates the backend could not be reached
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeTimeout indicates the request deadline passed
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeStatus indicates a non-success HTTP status
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates the response body was not valid JSON
	ErrTypeDecode ErrorType = "decode"

	// ErrTypeConfiguration indicates an invalid client configuration
	ErrTypeConfiguration ErrorType = "configuration"
)

// DefaultFailureMessage is shown when the backend gives no reason.
const DefaultFailureMessage = "Analysis failed"

// TransportError represents a failed exchange with the analysis backend
type TransportError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message"`

	// StatusCode for HTTP status errors
	StatusCode int `json:"status_code,omitempty"`

	// Field names the offending config or upload field, if any
	Field string `json:"field,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *TransportError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error type
func (e *TransportError) Is(target error) bool {
	if te, ok := target.(*TransportError); ok {
		return e.Type == te.Type
	}
	return false
}

// NewTransportError creates a new transport error
func NewTransportError(errorType ErrorType, message string) *TransportError {
	return &TransportError{Type: errorType, Message: message}
}

// NewTransportErrorWithCause creates a transport error wrapping cause
func NewTransportErrorWithCause(errorType ErrorType, message string, cause error) *TransportError {
	return &TransportError{Type: errorType, Message: message, Cause: cause}
}

// NewValidationError creates an upload validation error
func NewValidationError(field, message string) *TransportError {
	return &TransportError{Type: ErrTypeValidation, Field: field, Message: message}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(field, message string) *TransportError {
	return &TransportError{Type: ErrTypeConfiguration, Field: field, Message: message}
}

// NewStatusError creates an error for a non-success response
func NewStatusError(statusCode int, message string) *TransportError {
	if message == "" {
		message = DefaultFailureMessage
	}
	return &TransportError{Type: ErrTypeStatus, StatusCode: statusCode, Message: message}
}

// Sentinel values for errors.Is checks
var (
	ErrValidation    = &TransportError{Type: ErrTypeValidation}
	ErrNetwork       = &TransportError{Type: ErrTypeNetwork}
	ErrTimeout       = &TransportError{Type: ErrTypeTimeout}
	ErrStatus        = &TransportError{Type: ErrTypeStatus}
	ErrDecode        = &TransportError{Type: ErrTypeDecode}
	ErrConfiguration = &TransportError{Type: ErrTypeConfiguration}
)

// UserMessage extracts the message a person should see for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return err.Error()
}

// IsValidation reports whether err was raised before anything was sent.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
