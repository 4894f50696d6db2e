package entities

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the gateway reports to a caller.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
	KindUpstream
	KindConfig
)

// StatusCode maps the kind to the HTTP status returned to the caller.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindConfig, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindConfig:
		return "config"
	case KindInternal:
		return "internal"
	}
	return "internal"
}

// GatewayError is the single error shape surfaced to HTTP callers as
// {"error": Message, "details": Details}.
type GatewayError struct {
	Kind    ErrorKind
	Message string
	Details string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewGatewayError creates a GatewayError of the given kind.
func NewGatewayError(kind ErrorKind, message string) *GatewayError {
	return &GatewayError{Kind: kind, Message: message}
}

// WithDetails returns a copy of the error carrying details for the caller.
func (e *GatewayError) WithDetails(details string) *GatewayError {
	clone := *e
	clone.Details = details
	return &clone
}

// Wrap returns a copy of the error that wraps cause.
func (e *GatewayError) Wrap(cause error) *GatewayError {
	clone := *e
	clone.Err = cause
	return &clone
}

// AsGatewayError extracts a GatewayError from err, classifying anything else
// as an internal error.
func AsGatewayError(err error) *GatewayError {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr
	}
	return &GatewayError{Kind: KindInternal, Message: "internal server error", Details: err.Error(), Err: err}
}

// Outcomes of a single upstream call. Repositories return them wrapped in an
// UpstreamError, commands switch on them with errors.Is.
var (
	// ErrUpstreamRejected means the upstream answered with a non-success status.
	ErrUpstreamRejected = errors.New("upstream rejected the request")
	// ErrMalformedResponse means the upstream answered but the payload lacks the expected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrUpstreamUnavailable means the call never completed (transport error or timeout).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrSiteTokenNotFound means the site token store has no mapping for the key.
	ErrSiteTokenNotFound = errors.New("site token not found")
)

// UpstreamError carries the classified outcome of a failed upstream call.
type UpstreamError struct {
	Reason     error // one of ErrUpstreamRejected, ErrMalformedResponse, ErrUpstreamUnavailable
	Operation  string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Operation, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Reason, e.Cause}
	}
	return []error{e.Reason}
}

// UpstreamBody returns the raw upstream body carried by err, if any.
func UpstreamBody(err error) string {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Body
	}
	return ""
}
