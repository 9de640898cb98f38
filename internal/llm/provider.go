package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider is missing its credential.
// Callers degrade to a fixed fallback reply instead of failing the request.
var ErrNotConfigured = errors.New("completion provider not configured")

// Provider defines the interface for completion providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
