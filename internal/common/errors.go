package common

import (
	"errors"
	"net/http"
)

// Failure kinds shared by the judge client and the stub judge. Client-side
// failures are returned as *APIError values wrapping one of these.
var (
	ErrValidation            = errors.New("validation failed")
	ErrTransport             = errors.New("request could not be completed")
	ErrAuthFailure           = errors.New("authentication failed")
	ErrNotFound              = errors.New("requested resource not found")
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrRequestFailed         = errors.New("request failed")

	// Server-side only.
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., email already registered
	ErrInternalServer = errors.New("internal server error")
)

// APIError is a typed failure surfaced by the judge API client. Message is
// human readable: either what the server said or a fixed per-operation
// fallback.
type APIError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Message    string
	Kind       error
	Err        error // underlying transport/decoding error, if any
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrAuthFailure) || errors.Is(err, ErrAuthorizationRequired) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// KindFromStatus is the client-side inverse of HTTPStatusFromError for
// operations without a more specific rule.
func KindFromStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthorizationRequired
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrRequestFailed
	}
}

// StatusError is a server-side error whose message is safe to send to the
// client. Kind selects the HTTP status via HTTPStatusFromError.
type StatusError struct {
	Kind    error
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

func NewStatusError(kind error, message string) error {
	return &StatusError{Kind: kind, Message: message}
}

// PublicMessage returns the message to show a client for err. Errors
// without a StatusError in their chain are reported generically.
func PublicMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return "Internal server error"
}
