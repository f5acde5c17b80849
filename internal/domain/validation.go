package domain

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid field of a client-side request.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewCountMismatchError(field string, got, want int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has %d entries, want %d", got, want)}
}

// AsInvalidInput wraps validation errors into an INVALID_INPUT DomainError,
// or returns nil when there are none.
func (v ValidationErrors) AsInvalidInput() error {
	if len(v) == 0 {
		return nil
	}
	return NewError(ErrInvalidInput, "request validation failed", v)
}
