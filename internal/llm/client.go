// Package llm provides a uniform client abstraction over remote
// text-generation providers and a fallback chain that tries them in
// priority order with retry, backoff, and a per-call attempt audit trail.
package llm

import "context"

// Default request option values.
const (
	DefaultMaxTokens   = 3000
	DefaultTemperature = 0.3
	DefaultTimeout     = 30 // seconds, see RequestOptions.Timeout
)

// RequestOptions is the uniform request shape passed to every provider,
// regardless of the underlying API.
type RequestOptions struct {
	MaxTokens      int
	Temperature    float32
	TimeoutSeconds int
}

// DefaultRequestOptions returns sensible defaults for completion requests.
func DefaultRequestOptions() *RequestOptions {
	return &RequestOptions{
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
		TimeoutSeconds: DefaultTimeout,
	}
}

// ChunkFunc receives streamed completion chunks. Returning a non-nil error
// stops consumption; the client returns the text accumulated so far together
// with that error. This is the cooperative cancellation point: a caller that
// wants to stop generating returns its sentinel error from here.
type ChunkFunc func(chunk string) error

// Client is the uniform interface to one remote text-generation provider.
// Implementations classify every failure into a *ProviderError; raw
// transport errors never reach the caller.
type Client interface {
	// Name identifies the provider for audit records.
	Name() string
	// Model returns the configured model name.
	Model() string
	// Complete submits a prompt and returns the full completion.
	Complete(ctx context.Context, prompt string, opts *RequestOptions) (string, error)
	// CompleteStream submits a prompt and delivers the completion
	// incrementally through emit, returning the accumulated text.
	CompleteStream(ctx context.Context, prompt string, opts *RequestOptions, emit ChunkFunc) (string, error)
}
