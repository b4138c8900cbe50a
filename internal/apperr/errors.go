// Package apperr defines the error taxonomy shared by the API client and the
// page flows: validation, transport, service and format failures.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ValidationError is a client-side input problem detected before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError for field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransportError means the service could not be reached or did not answer in time
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ServiceError is a non-2xx answer from the service
type ServiceError struct {
	Op     string
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: service returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: service returned status %d: %s", e.Op, e.Status, e.Detail)
}

// FormatError is an unparseable payload: a malformed response, CSV file or
// persisted state.
type FormatError struct {
	What string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.What, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormat creates a FormatError with a plain message
func NewFormat(what, message string) *FormatError {
	return &FormatError{What: what, Err: errors.New(message)}
}

// IsNotFound reports whether err is a ServiceError with status 404
func IsNotFound(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// Detail returns the server-provided detail of a ServiceError, or ""
func Detail(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Detail
	}
	return ""
}

// Message picks the text to show a user: the validation message, then the
// server detail, then fallback.
func Message(err error, fallback string) string {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	if detail := Detail(err); detail != "" {
		return detail
	}
	return fallback
}
