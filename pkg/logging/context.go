package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = iota
	// candidateKey is the context key for the candidate being reconciled.
	candidateKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// Ctx returns a logger from the context or the default logger.
// This is a shorter alias for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithCandidate tags the context logger with the candidate under
// reconciliation so every log line in the run carries it.
func WithCandidate(ctx context.Context, candidateID string) context.Context {
	ctx = context.WithValue(ctx, candidateKey, candidateID)

	logger := FromContext(ctx)
	newLogger := logger.With().Str("candidate_id", candidateID).Logger()
	return WithLogger(ctx, &newLogger)
}

// CandidateID extracts the candidate ID from context.
func CandidateID(ctx context.Context) string {
	if id, ok := ctx.Value(candidateKey).(string); ok {
		return id
	}
	return ""
}
