// Package apperr defines the error taxonomy shared by the storefront services and
// the mapping of each kind to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindGatewayRejected Kind = "GATEWAY_REJECTED"
	KindConfiguration   Kind = "CONFIGURATION_ERROR"
	KindPersistence     Kind = "PERSISTENCE_ERROR"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind       Kind
	StatusCode int
	// Code overrides Kind in the response body when set (e.g. the gateway's own code).
	Code    string
	Message string
	Details any
	Err     error
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ResponseCode is the machine-readable code written to clients.
func (e *Error) ResponseCode() string {
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

// WithDetails attaches extra context for the response body.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Unauthorized is returned when no authenticated identity is present.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return &Error{Kind: KindForbidden, StatusCode: http.StatusForbidden, Message: message}
}

// Validation is returned for missing or malformed input.
func Validation(message string, fields ...FieldError) *Error {
	e := &Error{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
	if len(fields) > 0 {
		e.Details = fields
	}
	return e
}

func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

// Conflict is returned when the request collides with existing state.
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, StatusCode: http.StatusConflict, Code: code, Message: message}
}

// GatewayRejected carries the payment gateway's status code and message unchanged.
func GatewayRejected(status int, code, message string) *Error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return &Error{Kind: KindGatewayRejected, StatusCode: status, Code: code, Message: message}
}

// Configuration is returned when a required secret or setting is absent.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, StatusCode: http.StatusInternalServerError, Message: message}
}

// Persistence wraps a failed storage call.
func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &Error{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// From classifies an arbitrary error, defaulting to an internal error.
func From(err error) *Error {
	if e, ok := As(err); ok {
		return e
	}
	return Internal("", err)
}
