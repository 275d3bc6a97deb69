// Package constants provides shared constants used throughout the fecrecon
// codebase. This includes timeouts, limits, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// FEC API and the hosted store
	DefaultHTTPTimeout = 30 * time.Second

	// ReconcileTimeout is the timeout for a single candidate reconciliation
	ReconcileTimeout = 2 * time.Minute

	// BatchTimeout is the timeout for a full batch verification run
	BatchTimeout = 30 * time.Minute

	// RetryBackoff is the base backoff duration for opt-in retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for opt-in retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and defaults
const (
	// DefaultTolerance is the default relative tolerance for reconciliation.
	// Runs within 10% of the authoritative total pass unless the caller
	// tightens it.
	DefaultTolerance = 0.10

	// DefaultPageSize is the page size requested from the FEC API
	DefaultPageSize = 100

	// MaxRetries is the ceiling on opt-in retry attempts
	MaxRetries = 3
)
