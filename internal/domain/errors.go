package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Remote service errors
	ErrTransportFailure  ErrorCode = "TRANSPORT_FAILURE"
	ErrServiceError      ErrorCode = "SERVICE_ERROR"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrConflict          ErrorCode = "CONFLICT"

	// Quiz specific errors
	ErrInvalidAnswerValue ErrorCode = "INVALID_ANSWER_VALUE"
	ErrNoQuizAvailable    ErrorCode = "NO_QUIZ_AVAILABLE"
)

// DomainError represents a domain-specific error.
// Status is the HTTP status of the remote response, 0 when none was received.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Status:  e.Status,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err carries a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf returns the code of the DomainError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewTransportFailureError is used when no HTTP response was received at all.
func NewTransportFailureError(path string, err error) *DomainError {
	return NewError(ErrTransportFailure, fmt.Sprintf("no response from %s", path), err)
}

// NewServiceError is used for non-2xx responses other than a pairing conflict.
func NewServiceError(path string, status int, body []byte) *DomainError {
	e := NewError(ErrServiceError, fmt.Sprintf("%s failed with status %d: %s", path, status, string(body)), nil)
	e.Status = status
	return e
}

func NewConflictError(message string) *DomainError {
	e := NewError(ErrConflict, message, nil)
	e.Status = 409
	return e
}

func NewMalformedResponseError(message string, err error) *DomainError {
	return NewError(ErrMalformedResponse, message, err)
}

func NewInvalidAnswerValueError(index, value int) *DomainError {
	return NewError(ErrInvalidAnswerValue, fmt.Sprintf("answer %d has value %d, want 1..4", index, value), nil)
}

func NewNoQuizAvailableError() *DomainError {
	return NewError(ErrNoQuizAvailable, "no unanswered quiz available for pair", nil)
}
