package apperror

import (
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidOperation  Kind = "INVALID_OPERATION"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindConflict          Kind = "CONFLICT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindForbidden         Kind = "FORBIDDEN"
	KindUnauthorized      Kind = "UNAUTHORIZED"
)

// Error is a client-facing failure: a kind, the HTTP status it maps to and a
// message that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on kind, so errors.Is(err, apperror.ErrConflict) holds for any
// conflict regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound, Status: http.StatusNotFound}
	ErrInvalidOperation  = &Error{Kind: KindInvalidOperation, Status: http.StatusBadRequest}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest}
	ErrValidation        = &Error{Kind: KindValidation, Status: http.StatusBadRequest}
	ErrConflict          = &Error{Kind: KindConflict, Status: http.StatusConflict}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Status: http.StatusBadRequest}
	ErrForbidden         = &Error{Kind: KindForbidden, Status: http.StatusForbidden}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized}
)

func newError(base *Error, msg string) *Error {
	return &Error{Kind: base.Kind, Status: base.Status, Message: msg}
}

func NotFound(msg string) *Error         { return newError(ErrNotFound, msg) }
func InvalidOperation(msg string) *Error { return newError(ErrInvalidOperation, msg) }
func InvalidInput(msg string) *Error     { return newError(ErrInvalidInput, msg) }
func Conflict(msg string) *Error         { return newError(ErrConflict, msg) }
func Forbidden(msg string) *Error        { return newError(ErrForbidden, msg) }
func Unauthorized(msg string) *Error     { return newError(ErrUnauthorized, msg) }

// InvalidTransition names both the current and the requested status.
func InvalidTransition(from, to string) *Error {
	return newError(ErrInvalidTransition, fmt.Sprintf("Cannot transition from %s to %s", from, to))
}

// Validation carries field-level messages keyed by JSON field name.
func Validation(fields map[string]string) *Error {
	e := newError(ErrValidation, "Validation failed")
	e.Details = fields
	return e
}
