// Package apperr defines the error taxonomy shared by every handler.
//
// An *Error is built once by one of the constructors and never mutated.
// Operational errors carry a message that is safe to show to clients;
// everything else is rendered as a generic internal error in production.
package apperr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindUnexpected Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindServerConfig
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServerConfig:
		return "server_config"
	default:
		return "unexpected"
	}
}

// Status is the HTTP status code the kind maps to.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	kind        Kind
	message     string
	operational bool
	cause       error
	// origin is the constructor-built value a Wrap derives from.
	origin *Error
}

func newError(kind Kind, message string, operational bool, cause error) *Error {
	return &Error{kind: kind, message: message, operational: operational, cause: cause}
}

func BadRequest(message string) *Error {
	return newError(KindBadRequest, message, true, nil)
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message, true, nil)
}

func NotFound(message string) *Error {
	return newError(KindNotFound, message, true, nil)
}

// ServerConfig reports a missing deployment setting. The message is shown
// to clients so operators can spot the problem from a single request.
func ServerConfig(message string) *Error {
	return newError(KindServerConfig, message, true, nil)
}

// Unexpected wraps an unanticipated fault. Its message is never shown to
// clients in production.
func Unexpected(cause error) *Error {
	msg := "unexpected error"
	if cause != nil {
		msg = cause.Error()
	}

	return newError(KindUnexpected, msg, false, cause)
}

// Wrap attaches a cause to an operational error without changing what the
// client sees.
func Wrap(e *Error, cause error) *Error {
	w := newError(e.kind, e.message, e.operational, cause)
	w.origin = e.root()

	return w
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

func (e *Error) Kind() Kind          { return e.kind }
func (e *Error) Status() int         { return e.kind.Status() }
func (e *Error) Message() string     { return e.message }
func (e *Error) IsOperational() bool { return e.operational }

func (e *Error) Error() string {
	if e.cause != nil && e.cause.Error() != e.message {
		return e.message + ": " + e.cause.Error()
	}

	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the error e was wrapped from, so sentinels
// survive Wrap under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e == t || e.root() == t.root()
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// KindOf returns the kind of err, KindUnexpected when err carries none.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}

	return KindUnexpected
}
