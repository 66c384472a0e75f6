// Package apperror defines the errors handlers raise and the error translator renders.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a business-rule violation carrying the HTTP status it maps to.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a domain error with the default 400 status.
func New(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusBadRequest}
}

func WithStatus(message string, status int) *Error {
	return &Error{Message: message, StatusCode: status}
}

func NotFound(message string) *Error {
	return WithStatus(message, http.StatusNotFound)
}

func Forbidden(message string) *Error {
	return WithStatus(message, http.StatusForbidden)
}

func Unauthorized(message string) *Error {
	return WithStatus(message, http.StatusUnauthorized)
}

// ValidationError reports malformed input, keyed by the offending field.
type ValidationError struct {
	Issues map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation error"
}

func NewValidation() *ValidationError {
	return &ValidationError{Issues: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Issues[field] = append(e.Issues[field], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Issues) == 0
}

// As reports whether err wraps a domain error and returns it.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
