// Package constants defines system-wide constants for the Loan Risk Service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is used for tracing resources and the metrics namespace
	ServiceName = "loanrisk"

	// AppTitle is the page title of the prediction form
	AppTitle = "Loan Default Prediction App"
)

// ================================================================================
// Prediction Labels
// ================================================================================

const (
	// LabelNonDefault is the class index of a loan predicted to be repaid
	LabelNonDefault = 0

	// LabelDefault is the class index of a loan predicted to default
	LabelDefault = 1

	// OutcomeNonDefault is the display name of class 0
	OutcomeNonDefault = "Non-Default"

	// OutcomeDefault is the display name of class 1
	OutcomeDefault = "Default"
)

// ================================================================================
// Prediction Sources
// ================================================================================

// PredictionSource identifies which surface asked for a prediction
type PredictionSource string

const (
	// SourceForm is the HTML form controller
	SourceForm PredictionSource = "form"

	// SourceAPI is the JSON API
	SourceAPI PredictionSource = "api"

	// SourceGRPC is the gRPC scoring server
	SourceGRPC PredictionSource = "grpc"

	// SourceCLI is the admin command-line tool
	SourceCLI PredictionSource = "cli"
)

// ================================================================================
// Classifier Backends
// ================================================================================

// ClassifierBackend selects the classifier implementation
type ClassifierBackend string

const (
	// BackendArtifact evaluates a serialized pipeline file in-process
	BackendArtifact ClassifierBackend = "artifact"

	// BackendRemote calls an external model server over gRPC
	BackendRemote ClassifierBackend = "remote"

	// BackendStub returns a fixed classification (tests, demos)
	BackendStub ClassifierBackend = "stub"
)

// ================================================================================
// Form Actions
// ================================================================================

// FormAction is the submit button that triggered a form post
type FormAction string

const (
	// ActionUpdate refreshes the summary without requesting a prediction
	ActionUpdate FormAction = "update"

	// ActionPredict is the sidebar predict button; it persists the predict flag for the session
	ActionPredict FormAction = "predict"

	// ActionPredictInline is the predict button on the results view; it does not touch the flag
	ActionPredictInline FormAction = "predict_inline"
)

// ================================================================================
// Tabs
// ================================================================================

const (
	// TabSummary shows the client record as a label/value table
	TabSummary = "summary"

	// TabPrediction shows the prediction panel and chart
	TabPrediction = "prediction"
)

// ================================================================================
// Error Codes
// ================================================================================

// ErrorCode is the machine readable code carried by service errors
type ErrorCode string

const (
	ErrCodeInvalidRequest          ErrorCode = "invalid_request"
	ErrCodeValidationFailed        ErrorCode = "validation_failed"
	ErrCodeNotFound                ErrorCode = "not_found"
	ErrCodeServerError             ErrorCode = "server_error"
	ErrCodeArtifactNotFound        ErrorCode = "artifact_not_found"
	ErrCodeArtifactIncompatible    ErrorCode = "artifact_incompatible"
	ErrCodeMalformedClassification ErrorCode = "malformed_classifier_output"
	ErrCodeClassifierUnavailable   ErrorCode = "classifier_unavailable"
	ErrCodeCache                   ErrorCode = "cache_error"
	ErrCodeRateLimitExceeded       ErrorCode = "rate_limit_exceeded"
)

// ================================================================================
// HTTP
// ================================================================================

const (
	// HeaderRequestID carries the request correlation id
	HeaderRequestID = "X-Request-ID"

	// DefaultSessionCookie is the cookie holding the session id
	DefaultSessionCookie = "loanrisk_session"

	// DefaultShutdownTimeout bounds graceful shutdown of the servers
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultRateLimitPerMinute is the per client budget of the JSON prediction API
	DefaultRateLimitPerMinute = 120

	// DefaultRateLimitBurst is how many requests a client may send back to back
	DefaultRateLimitBurst = 20
)

// ================================================================================
// Cache
// ================================================================================

const (
	// PredictionCacheKeyPrefix prefixes prediction cache keys in redis
	PredictionCacheKeyPrefix = "loanrisk:prediction:"

	// DefaultPredictionCacheTTL is used when the cache ttl is not configured
	DefaultPredictionCacheTTL = 10 * time.Minute

	// DefaultSessionTTL is how long an idle session snapshot lives
	DefaultSessionTTL = 30 * time.Minute
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeySessionID is the key for the form session id in context
	ContextKeySessionID ContextKey = "session_id"

	// ContextKeyLogger is the key for a request scoped logger
	ContextKeyLogger ContextKey = "logger"
)

//Personal.AI order the ending
