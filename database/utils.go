package database

import (
	"context"
	"time"
)

// Common timeout durations for database operations
const (
	// ShortTimeout for quick operations like single document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries that might return multiple documents
	MediumTimeout = 10 * time.Second

	// LongTimeout for schema setup and bulk operations
	LongTimeout = 30 * time.Second
)

// ContextWithTimeout derives a context bounded by timeout from parent.
// A nil parent is treated as context.Background().
func ContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// WithShortTimeout derives a context with ShortTimeout
func WithShortTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return ContextWithTimeout(parent, ShortTimeout)
}

// WithMediumTimeout derives a context with MediumTimeout
func WithMediumTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return ContextWithTimeout(parent, MediumTimeout)
}

// WithLongTimeout derives a context with LongTimeout
func WithLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return ContextWithTimeout(parent, LongTimeout)
}
