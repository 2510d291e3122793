package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the stable categories the API
// surfaces to clients.
type Kind int

const (
	Internal Kind = iota
	BadRequest
	Unauthenticated
	Forbidden
	NotFound
	Conflict
)

// Error is the error type returned by services and repositories. Message is
// safe to serialize to clients; Err carries internal detail for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an internal cause to a client-facing message.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequestf(format string, args ...any) *Error {
	return Newf(BadRequest, format, args...)
}

func Unauthenticatedf(format string, args ...any) *Error {
	return Newf(Unauthenticated, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return Newf(Forbidden, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return Newf(NotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return Newf(Conflict, format, args...)
}

func Internalf(err error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Status maps an error to the HTTP status code the API contract promises.
func Status(err error) int {
	switch KindOf(err) {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to send to the caller. Unclassified
// errors collapse to a generic message so internal detail never leaks.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal server error"
}
