package types

import "time"

// AttemptOutcome classifies the result of one provider attempt.
type AttemptOutcome string

// Attempt outcomes. Success terminates the chain; the rest decide whether
// the same provider is retried or the chain falls over to the next one.
const (
	OutcomeSuccess         AttemptOutcome = "success"
	OutcomeRateLimited     AttemptOutcome = "rate_limited"
	OutcomeServerError     AttemptOutcome = "server_error"
	OutcomeTimeout         AttemptOutcome = "timeout"
	OutcomeAuthError       AttemptOutcome = "auth_error"
	OutcomeInvalidResponse AttemptOutcome = "invalid_response"
)

// ProviderAttempt is one record in the append-only audit trail of a chain
// invocation. Records are never mutated after append.
type ProviderAttempt struct {
	Provider  string         `json:"provider"`
	Model     string         `json:"model,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Outcome   AttemptOutcome `json:"outcome"`
	LatencyMS int64          `json:"latency_ms"`
	Detail    string         `json:"detail,omitempty"`
}
