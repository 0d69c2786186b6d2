package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing upstream resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals bad caller input or an upstream 400.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized signals an upstream 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream signals a transport failure or an unexpected upstream status.
	ErrUpstream = errors.New("upstream error")
	// ErrMalformedPayload signals an upstream payload of the wrong shape.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrInvalidTemplate signals a resource name template that cannot be compiled.
	ErrInvalidTemplate = errors.New("invalid template")
)

// StatusError carries the upstream status code and response body.
type StatusError struct {
	Status  int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.kind.Error(), e.Status)
	}
	return fmt.Sprintf("%s: %s", e.kind.Error(), e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind }

// NewStatusError maps an upstream status code to its sentinel.
func NewStatusError(status int, message string) error {
	kind := ErrUpstream
	switch status {
	case 400:
		kind = ErrInvalidRequest
	case 401:
		kind = ErrUnauthorized
	case 404:
		kind = ErrNotFound
	}
	return &StatusError{Status: status, Message: message, kind: kind}
}

// Malformed wraps ErrMalformedPayload with a description of the bad payload.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
