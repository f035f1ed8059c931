package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/skillgap/internal/types"
)

// FailureKind classifies why a provider call failed. The kind decides retry
// behavior: transient kinds are retried with backoff on the same provider,
// permanent kinds fail fast to the next provider in the chain.
type FailureKind int

// Failure kinds.
const (
	FailureRateLimited FailureKind = iota
	FailureServerError
	FailureTimeout
	FailureAuthError
	FailureInvalidResponse
)

// String returns the snake_case name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureRateLimited:
		return "rate_limited"
	case FailureServerError:
		return "server_error"
	case FailureTimeout:
		return "timeout"
	case FailureAuthError:
		return "auth_error"
	case FailureInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Retryable reports whether the same provider may be retried.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureRateLimited, FailureServerError, FailureTimeout:
		return true
	default:
		return false
	}
}

// Outcome maps the failure kind onto the attempt audit outcome.
func (k FailureKind) Outcome() types.AttemptOutcome {
	switch k {
	case FailureRateLimited:
		return types.OutcomeRateLimited
	case FailureTimeout:
		return types.OutcomeTimeout
	case FailureAuthError:
		return types.OutcomeAuthError
	case FailureInvalidResponse:
		return types.OutcomeInvalidResponse
	default:
		return types.OutcomeServerError
	}
}

// ProviderError is the uniform failure surfaced by every provider client.
// Raw transport errors never escape a client without this wrapper.
type ProviderError struct {
	Provider string
	Model    string
	Kind     FailureKind
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s (%s): %s: %v", e.Provider, e.Model, e.Kind, e.Cause)
	}
	return fmt.Sprintf("provider %s (%s): %s", e.Provider, e.Model, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AllProvidersFailedError is the terminal chain failure. It carries the full
// attempt audit trail for diagnostics.
type AllProvidersFailedError struct {
	Attempts []types.ProviderAttempt
}

func (e *AllProvidersFailedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "all providers failed after %d attempts", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s/%s=%s", a.Provider, a.Model, a.Outcome)
	}
	return sb.String()
}
