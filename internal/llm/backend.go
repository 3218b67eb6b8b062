// Package llm provides the pluggable generative backend used to phrase the
// final answer. The rest of the pipeline works without one: a nil backend
// selects the deterministic composer.
package llm

import (
	"context"
	"errors"
)

// Backend defines the interface for generative text backends.
type Backend interface {
	// Name returns the backend name
	Name() string

	// Generate produces a completion for the system/user prompt pair.
	// Each call is bounded by the configured deadline.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// IsAvailable checks if the backend is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Failure classification. Callers treat all three the same way (fall back to
// deterministic composition, no retry), but logs distinguish them.
var (
	// ErrAuth indicates a missing or rejected credential
	ErrAuth = errors.New("backend authentication failed")

	// ErrStatus indicates the backend returned a non-success status
	ErrStatus = errors.New("backend returned error status")

	// ErrTransport indicates a network/timeout failure
	ErrTransport = errors.New("backend transport error")
)
