// Package errors defines custom error types and error handling utilities for the Loan Risk Service.
// This package provides structured error types that map to error codes and HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/turtacn/loanrisk/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// ServiceError represents a structured error with additional metadata
type ServiceError interface {
	error

	// Code returns the machine readable error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) ServiceError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) ServiceError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *baseError) Code() constants.ErrorCode { return e.code }

func (e *baseError) HTTPStatus() int { return e.httpStatus }

func (e *baseError) Description() string { return e.description }

func (e *baseError) Unwrap() error { return e.cause }

// Is matches any ServiceError carrying the same code, so sentinel-style
// checks work with errors.Is(err, ErrArtifactNotFound("")).
func (e *baseError) Is(target error) bool {
	t, ok := target.(*baseError)
	if !ok {
		return false
	}
	return t.code == e.code
}

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) ServiceError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) ServiceError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} { return e.metadata }

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new ServiceError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) ServiceError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) ServiceError {
	return NewError(
		constants.ErrCodeInvalidRequest,
		http.StatusBadRequest,
		"The request is malformed or could not be decoded.",
		message,
	)
}

// ErrValidationFailed reports a field that violates its declared constraint
func ErrValidationFailed(field, reason string) ServiceError {
	return NewError(
		constants.ErrCodeValidationFailed,
		http.StatusUnprocessableEntity,
		"One or more fields failed validation.",
		fmt.Sprintf("%s: %s", field, reason),
	).WithMetadata("field", field).
		WithMetadata("reason", reason)
}

// ErrNotFound creates a not_found error
func ErrNotFound(resource string) ServiceError {
	return NewError(
		constants.ErrCodeNotFound,
		http.StatusNotFound,
		"The requested resource was not found.",
		fmt.Sprintf("%s not found", resource),
	).WithMetadata("resource", resource)
}

// ErrServerError creates a server_error error
func ErrServerError(message string) ServiceError {
	return NewError(
		constants.ErrCodeServerError,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ErrRateLimitExceeded is returned when a client exhausts its request budget
func ErrRateLimitExceeded(retryAfter time.Duration) ServiceError {
	return NewError(
		constants.ErrCodeRateLimitExceeded,
		http.StatusTooManyRequests,
		"Too many requests. Slow down and retry later.",
		"rate limit exceeded",
	).WithMetadata("retry_after_seconds", int(math.Ceil(retryAfter.Seconds())))
}

// ================================================================================
// Classifier Errors
// ================================================================================

// ErrArtifactNotFound is returned when the serialized model file cannot be opened
func ErrArtifactNotFound(path string) ServiceError {
	return NewError(
		constants.ErrCodeArtifactNotFound,
		http.StatusInternalServerError,
		"The model artifact could not be found.",
		fmt.Sprintf("model artifact not found: %s", path),
	).WithMetadata("path", path)
}

// ErrArtifactIncompatible is returned when the model file is corrupt or of an unsupported version
func ErrArtifactIncompatible(path, reason string) ServiceError {
	return NewError(
		constants.ErrCodeArtifactIncompatible,
		http.StatusInternalServerError,
		"The model artifact is corrupt or was produced for an incompatible version.",
		fmt.Sprintf("model artifact %s is incompatible: %s", path, reason),
	).WithMetadata("path", path).
		WithMetadata("reason", reason)
}

// ErrMalformedClassifierOutput is returned when the classifier breaks its output contract
func ErrMalformedClassifierOutput(reason string) ServiceError {
	return NewError(
		constants.ErrCodeMalformedClassification,
		http.StatusInternalServerError,
		"The classifier returned output that does not match its contract.",
		fmt.Sprintf("malformed classifier output: %s", reason),
	).WithMetadata("reason", reason)
}

// ErrClassifierUnavailable is returned when a remote classifier cannot be reached
func ErrClassifierUnavailable(target string) ServiceError {
	return NewError(
		constants.ErrCodeClassifierUnavailable,
		http.StatusServiceUnavailable,
		"The classifier is temporarily unavailable.",
		fmt.Sprintf("classifier unavailable at %s", target),
	).WithMetadata("target", target)
}

// ErrCache wraps a failure of the prediction cache
func ErrCache(cause error) ServiceError {
	return NewError(
		constants.ErrCodeCache,
		http.StatusInternalServerError,
		"The prediction cache failed.",
		"prediction cache failure",
	).WithCause(cause)
}

// ================================================================================
// Helpers
// ================================================================================

// AsServiceError extracts a ServiceError from an error chain
func AsServiceError(err error) (ServiceError, bool) {
	var se ServiceError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code constants.ErrorCode) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code() == code
}

// HTTPStatusOf returns the status for err, 500 for unstructured errors
func HTTPStatusOf(err error) int {
	if se, ok := AsServiceError(err); ok {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}

//Personal.AI order the ending
