package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated signals a missing or invalid credential on a protected
// route. It is handled at the middleware boundary before handler logic runs.
var ErrUnauthenticated = errors.New("unauthenticated")

// Error is an explicitly raised application error carrying its own HTTP
// status and an optional machine-readable code.
type Error struct {
	Message string
	Status  int
	Code    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// New constructs an application error with the given status.
func New(message string, status int) *Error {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Error{Message: message, Status: status}
}

// NewWithCode constructs an application error with a machine-readable code.
func NewWithCode(message string, status int, code string) *Error {
	err := New(message, status)
	err.Code = code
	return err
}

// NewNotFound builds a 404 application error for a named resource.
func NewNotFound(resource, code string) *Error {
	return NewWithCode(fmt.Sprintf("%s not found", resource), http.StatusNotFound, code)
}

// NewConflict builds a 409 application error.
func NewConflict(message, code string) *Error {
	return NewWithCode(message, http.StatusConflict, code)
}

// FieldDetail locates a single violated field within a request payload.
type FieldDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports one or more request-shape violations.
type ValidationError struct {
	Details []FieldDetail
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Details))
}

// Add appends a violation and returns the receiver for chaining.
func (e *ValidationError) Add(path, message string) *ValidationError {
	e.Details = append(e.Details, FieldDetail{Path: path, Message: message})
	return e
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Details) == 0
}

// NewValidation builds a validation error from field details.
func NewValidation(details ...FieldDetail) *ValidationError {
	return &ValidationError{Details: details}
}
