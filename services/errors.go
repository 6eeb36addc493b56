package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services.
var (
	// ErrNotFound is surfaced for missing logs/profiles. Handlers turn it
	// into an empty/default state where the operation allows one.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized rejects mutating requests that arrive without a user
	// context before any state is touched.
	ErrUnauthorized = errors.New("missing user context")

	// ErrInsufficientData rejects review generation when fewer than the
	// minimum number of logs exist in the trailing window.
	ErrInsufficientData = errors.New("not enough logs in the last 7 days")
)

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError marks a uniqueness violation the caller should surface
// (e.g. a taken username). Expected duplicates — endorsement re-inserts,
// weekly-review regeneration — are absorbed by their services and never
// reach callers as errors.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Resource)
}

// UpstreamError wraps a failure from an external collaborator (generator
// endpoint, blob store). No automatic retry.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
