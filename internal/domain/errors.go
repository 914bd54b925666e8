package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record does not exist or does not belong to
// the acting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// Sentinel errors surfaced by repositories on unique-constraint violations.
var (
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateListName = errors.New("a list with this name already exists")
	ErrDuplicateTalkName = errors.New("a talk with this name is already on this list")
)

// ErrInvalidCredentials is returned by Login for a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FieldError is a validation failure scoped to a single submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects user-correctable, field-scoped input failures.
// It is always recoverable: callers re-render the submitted form state with
// the messages attached to their fields.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field message.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no field messages have been collected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
