// Package apperror defines the error kinds shared by the storage engine,
// services and handlers so that callers can pick a response status without
// inspecting error text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// Fault is a connection, timeout or unexpected backend failure.
	Fault Kind = iota
	// NotFound means a lookup by id/slug/username found nothing.
	NotFound
	// Validation means the input failed schema validation.
	Validation
	// Conflict means a uniqueness rule was violated.
	Conflict
	// Constraint means a referential guard rejected the operation.
	Constraint
	// Unauthorized means no credential was presented.
	Unauthorized
	// Forbidden means the credential is invalid, expired or lacks privileges.
	Forbidden
)

// String returns the name used for the kind in API responses.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Validation:
		return "ValidationError"
	case Conflict:
		return "ConflictError"
	case Constraint:
		return "ConstraintError"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	default:
		return "StorageFault"
	}
}

// Error is the application error type. Message is safe to show to API
// clients, Err carries the underlying cause for logs. Fields maps request
// field names to validation messages.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case NotFound:
		return http.StatusNotFound
	case Validation, Conflict, Constraint:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewNotFound(message string) *Error {
	return New(NotFound, message, nil)
}

func NewValidation(message string) *Error {
	return New(Validation, message, nil)
}

// NewInvalidFields reports a request that failed validation on the given
// fields.
func NewInvalidFields(message string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

func NewConflict(message string, err error) *Error {
	return New(Conflict, message, err)
}

func NewConstraint(message string, err error) *Error {
	return New(Constraint, message, err)
}

func NewUnauthorized(message string) *Error {
	return New(Unauthorized, message, nil)
}

func NewForbidden(message string) *Error {
	return New(Forbidden, message, nil)
}

// NewFault wraps a backend failure. op names the failed operation so the
// log line is enough to diagnose the problem.
func NewFault(op string, err error) *Error {
	return New(Fault, op, err)
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// are not application errors are faults.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Fault
}

// From returns err as an *Error, wrapping foreign errors as faults.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewFault("unexpected error", err)
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == NotFound
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == Conflict
}

func IsConstraint(err error) bool {
	return err != nil && KindOf(err) == Constraint
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == Validation
}

func IsFault(err error) bool {
	return err != nil && KindOf(err) == Fault
}
