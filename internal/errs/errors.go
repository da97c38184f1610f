// Package errs defines the typed error kinds used across the engine (spec
// §7): ConfigError, CompileError, ConnectionError, and QueryError. Each is a
// small struct with a formatted-constructor helper, so callers branch on
// kind with errors.As instead of string matching.
package errs

import "fmt"

// ConfigError indicates invalid configuration: malformed YAML, an
// unresolved template variable, an unknown type/condition, a between
// condition without a pair, an anomaly check without check_id and without
// filter, etc. Surfaced at load time; the run aborts before any query.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ErrConfig creates a ConfigError with a formatted message.
func ErrConfig(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// CompileError indicates a Composer invariant was violated for a specific
// leaf (e.g. sum with no measure). Surfaced before execution of that leaf;
// other leaves proceed.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return e.Message }

// ErrCompile creates a CompileError with a formatted message.
func ErrCompile(format string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}

// ConnectionError indicates pool init or authentication failure for a
// source or store.
type ConnectionError struct {
	Message string
}

func (e *ConnectionError) Error() string { return e.Message }

// ErrConnection creates a ConnectionError with a formatted message.
func ErrConnection(format string, args ...interface{}) *ConnectionError {
	return &ConnectionError{Message: fmt.Sprintf(format, args...)}
}

// QueryError indicates the source returned an error or the result shape
// was unexpected. It carries the offending SQL text for diagnosis.
type QueryError struct {
	Message string
	SQL     string
}

func (e *QueryError) Error() string {
	if e.SQL == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (sql: %s)", e.Message, e.SQL)
}

// ErrQuery creates a QueryError with a formatted message and the SQL text
// that produced it.
func ErrQuery(sql string, format string, args ...interface{}) *QueryError {
	return &QueryError{Message: fmt.Sprintf(format, args...), SQL: sql}
}
