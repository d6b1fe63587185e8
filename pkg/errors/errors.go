// Package errors defines the typed errors returned by the roster use
// cases. Each one knows its gRPC status; Describe gives the HTTP view.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrUserNotFound matches every NotFoundError for a user.
var ErrUserNotFound = NewNotFoundError("user", "")

// Kinds reported in the "error" field of HTTP error bodies.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindInternal   = "internal_error"
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError reports a missing resource, e.g. a user looked up by name.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// Is matches any NotFoundError for the same resource.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Resource == e.Resource
}

// InternalError wraps a failure the caller cannot fix, such as an
// unreadable input file or a broken database connection.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus hides the wrapped cause from clients.
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// Describe maps err onto an HTTP status, a kind and a message safe to show
// to clients. Errors outside this package are internal and their text is
// not exposed.
func Describe(err error) (code int, kind, message string) {
	var (
		vErr *ValidationError
		nErr *NotFoundError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, KindValidation, vErr.Error()
	case errors.As(err, &nErr):
		return http.StatusNotFound, KindNotFound, nErr.Error()
	default:
		return http.StatusInternalServerError, KindInternal, "An internal error occurred"
	}
}
