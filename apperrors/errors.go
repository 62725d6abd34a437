// Package apperrors holds the error kinds a request can fail with and the
// HTTP status each one maps to.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is returned when required input is missing or malformed
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError is returned when supplied credentials don't match a rider
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// UnauthorizedError is returned when a session token is missing, invalid or expired
type UnauthorizedError struct {
	Message string
	Err     error
}

func (e *UnauthorizedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UnauthorizedError) Unwrap() error { return e.Err }

// NotFoundError is returned when a rider (or other record) does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError is returned when a record would duplicate an existing one
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ExternalServiceError wraps a failure of object storage or the image classifier
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Validation is a shorthand for a ValidationError with a formatted message
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound is a shorthand for a NotFoundError
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// External wraps err as an ExternalServiceError for the named service
func External(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

// HTTPStatus maps an error to the status code a handler should respond with.
// Unclassified errors are a 500.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		authErr      *AuthError
		unauthorized *UnauthorizedError
		notFound     *NotFoundError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
