package mosaic

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the server's name for a class of failure.
type ErrorKind string

const (
	ErrorInvalidRequest  ErrorKind = "invalid_request_error"
	ErrorAuthentication  ErrorKind = "authentication_error"
	ErrorPermission      ErrorKind = "permission_error"
	ErrorNotFound        ErrorKind = "not_found_error"
	ErrorRequestTooLarge ErrorKind = "request_too_large"
	ErrorRateLimit       ErrorKind = "rate_limit_error"
	ErrorAPI             ErrorKind = "api_error"
	ErrorOverloaded      ErrorKind = "overloaded_error"
)

// StatusOverloaded is the non-standard status the server uses for overload.
const StatusOverloaded = 529

var kindStatus = map[ErrorKind]int{
	ErrorInvalidRequest:  http.StatusBadRequest,
	ErrorAuthentication:  http.StatusUnauthorized,
	ErrorPermission:      http.StatusForbidden,
	ErrorNotFound:        http.StatusNotFound,
	ErrorRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrorRateLimit:       http.StatusTooManyRequests,
	ErrorAPI:             http.StatusInternalServerError,
	ErrorOverloaded:      StatusOverloaded,
}

var kindLabel = map[ErrorKind]string{
	ErrorInvalidRequest:  "invalid request",
	ErrorAuthentication:  "authentication",
	ErrorPermission:      "permission",
	ErrorNotFound:        "not found",
	ErrorRequestTooLarge: "request too large",
	ErrorRateLimit:       "rate limit",
	ErrorAPI:             "api error",
	ErrorOverloaded:      "overloaded",
}

// APIError is a failure reported by the server, either as an error envelope
// inside the event stream or as the body of a failed single-shot call.
//
// Kinds unknown to this package are kept verbatim so that callers can
// inspect them. Code holds the transport status for unknown kinds; it is 0
// when the failure arrived in-band, where the server sends no status.
type APIError struct {
	Kind    ErrorKind
	Message string
	Code    int
}

// NewAPIError classifies a decoded error envelope. status is the transport
// status of a single-shot call, or 0 for an in-band stream error.
func NewAPIError(kind, message string, status int) *APIError {
	e := &APIError{Kind: ErrorKind(kind), Message: message}
	if !e.Known() {
		e.Code = status
	}
	return e
}

// ErrorFromStatus classifies a failed single-shot call whose body is not an
// error envelope, using the transport status alone.
func ErrorFromStatus(status int, message string) *APIError {
	for kind, s := range kindStatus {
		if s == status {
			return &APIError{Kind: kind, Message: message}
		}
	}
	return &APIError{Message: message, Code: status}
}

// Known reports whether e.Kind is one of the documented error kinds.
func (e *APIError) Known() bool {
	_, ok := kindStatus[e.Kind]
	return ok
}

// Status returns the canonical status of a known kind, or Code otherwise.
func (e *APIError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return e.Code
}

// Transient reports whether the server will keep delivering on its own
// schedule, i.e. the error is a rate limit or an overload notice.
func (e *APIError) Transient() bool {
	return e.Kind == ErrorRateLimit || e.Kind == ErrorOverloaded
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if label, ok := kindLabel[e.Kind]; ok {
		return fmt.Sprintf("%s (%d): %s", label, e.Status(), e.Message)
	}
	if e.Kind == "" {
		return fmt.Sprintf("unknown error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("unknown error %s (%d): %s", e.Kind, e.Code, e.Message)
}

// IsTransient reports whether err is, or wraps, a transient *APIError.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Transient()
}
