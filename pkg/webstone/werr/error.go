// Package werr defines the structured error variants produced by the
// request pipeline. Each pipeline stage that detects a failure returns one
// of these values and short-circuits the remaining stages. The variants map
// one-to-one onto wire status codes and client-visible remediation.
package werr

import (
	"fmt"
	"net/http"

	"emperror.dev/errors"
)

// Kind is the error classification.
type Kind int

const (
	// KindBadRequest covers malformed input, URL/param binding failures and CSRF mismatches.
	KindBadRequest Kind = iota
	// KindUnauthorized covers missing or expired sessions. It carries redirect-back metadata.
	KindUnauthorized
	// KindEmailNotValidated covers authenticated but unverified callers.
	KindEmailNotValidated
	// KindForbidden covers WebSocket origin/CSRF failures.
	KindForbidden
	// KindNotFound covers unresolved routes and static files.
	KindNotFound
	// KindMethodNotAllowed covers a resolved route that doesn't implement the verb.
	KindMethodNotAllowed
	// KindInternalServer covers caught unexpected failures.
	KindInternalServer
)

// Error is a renderable pipeline failure. The client only ever sees Message
// and the status code; Cause stays server-side.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	// RedirectPath is the originally requested path, recorded on
	// Unauthorized so a later login can redirect back to it.
	RedirectPath string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code matching the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized, KindEmailNotValidated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest creates a bad request error.
func BadRequest(cause error, message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Cause: cause}
}

// Unauthorized creates an unauthorized error recording the requested path.
func Unauthorized(requestedPath string) *Error {
	return &Error{
		Kind:         KindUnauthorized,
		Message:      "authentication required",
		RedirectPath: requestedPath,
	}
}

// EmailNotValidated creates the distinct "email not validated" error.
func EmailNotValidated() *Error {
	return &Error{Kind: KindEmailNotValidated, Message: "email not validated"}
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound creates a not found error.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "not found"}
}

// MethodNotAllowed creates a method not allowed error.
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: "method not allowed: " + method}
}

// InternalServer wraps an unexpected failure. The cause is kept for
// server-side logging with a stack trace, the client only sees a generic
// message.
func InternalServer(cause error) *Error {
	// Ensure a stack trace is attached for logging
	if cause != nil {
		cause = errors.WithStackDepthIf(cause, 1)
	}

	return &Error{Kind: KindInternalServer, Message: "internal server error", Cause: cause}
}

// From converts any error into a pipeline error. Structured errors pass
// through untouched, everything else is wrapped as an internal server error.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	return InternalServer(err)
}
