// Package errors provides custom error types for the fecrecon system.
// These errors enable programmatic error checking across the FEC and
// store clients and the reconciliation engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As alias the standard library so callers need only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the fecrecon system
var (
	// ErrNotFound indicates that a requested record was not found upstream
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable indicates that an upstream source failed
	// with a network error, timeout, or 5xx response
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInconsistentData indicates that stored data admits no canonical
	// interpretation (for example an amendment tie with no tiebreak)
	ErrInconsistentData = errors.New("inconsistent data")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrRateLimited indicates that an upstream rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when an upstream record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from an upstream HTTP source
type APIError struct {
	Source     string // "fec" or "store"
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. Status codes map onto sentinels:
// 404 is a missing record, 429 a rate limit, and anything 5xx (or a
// transport failure with no status at all) means the upstream is
// unavailable.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 || e.StatusCode == 0 {
		return target == ErrUpstreamUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Missing   []string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration error in %s: missing required keys: %v", e.Component, e.Missing)
	}
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// NewMissingConfigError creates a ConfigError listing missing required keys
func NewMissingConfigError(component string, missing []string) *ConfigError {
	return &ConfigError{
		Component: component,
		Missing:   missing,
	}
}

// InconsistentDataError reports a filing group with no canonical member.
type InconsistentDataError struct {
	CommitteeID string
	CoverageEnd time.Time
	Message     string
}

// Error implements the error interface
func (e *InconsistentDataError) Error() string {
	return fmt.Sprintf("inconsistent filings for committee %s covering %s: %s",
		e.CommitteeID, e.CoverageEnd.Format("2006-01-02"), e.Message)
}

// Is implements errors.Is support
func (e *InconsistentDataError) Is(target error) bool {
	return target == ErrInconsistentData
}

// NewInconsistentDataError creates a new InconsistentDataError
func NewInconsistentDataError(committeeID string, coverageEnd time.Time, message string) *InconsistentDataError {
	return &InconsistentDataError{
		CommitteeID: committeeID,
		CoverageEnd: coverageEnd,
		Message:     message,
	}
}

// BatchError collects per-candidate failures from a batch reconciliation.
// A batch never aborts on a single candidate; the failures ride along here.
type BatchError struct {
	Failures map[string]error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("reconciliation failed for %d candidate(s)", len(e.Failures))
}

// NewBatchError creates a new BatchError
func NewBatchError(failures map[string]error) *BatchError {
	return &BatchError{Failures: failures}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	Subject string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrUpstreamUnavailable
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstreamUnavailable checks if an error indicates upstream unavailability
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsInconsistentData checks if an error is an inconsistent data error
func IsInconsistentData(err error) bool {
	return errors.Is(err, ErrInconsistentData)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Subject: subject, Message: err.Error(), Err: err}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
