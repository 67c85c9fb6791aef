// Package logger provides the structured logging contract for the Loan Risk Service.
// The production implementation is the zap adapter in internal/infrastructure/monitoring.
package logger

import "context"

// Fields is a set of key-value pairs attached to a log entry
type Fields map[string]interface{}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// ForContext returns the request scoped logger stored in ctx, or the receiver
	ForContext(ctx context.Context) Logger
}

// String creates a single string field
func String(key, value string) Fields {
	return Fields{key: value}
}

// Int creates a single integer field
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// Int64 creates a single int64 field
func Int64(key string, value int64) Fields {
	return Fields{key: value}
}

// Float64 creates a single float field
func Float64(key string, value float64) Fields {
	return Fields{key: value}
}

//Personal.AI order the ending
