package llm

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/skillgap/internal/types"
)

// Chain defaults.
const (
	DefaultMaxAttempts = 2
	DefaultBackoffBase = 500 * time.Millisecond
)

// ChainConfig holds the retry policy for a provider chain.
type ChainConfig struct {
	// MaxAttempts is the number of tries per provider for retryable
	// failures. Permanent failures move to the next provider immediately.
	MaxAttempts int
	// BackoffBase is the first retry delay; it doubles per retry.
	BackoffBase time.Duration
}

// DefaultChainConfig returns the documented default retry policy.
func DefaultChainConfig() *ChainConfig {
	return &ChainConfig{
		MaxAttempts: DefaultMaxAttempts,
		BackoffBase: DefaultBackoffBase,
	}
}

// Chain tries providers in a fixed priority order until one succeeds.
// Provider health state is per-call only: a provider that fails every
// attempt is skipped for the rest of this run but tried fresh on the next,
// since provider health can change between requests.
type Chain struct {
	clients []Client
	cfg     ChainConfig

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewChain builds a chain over clients in priority order.
func NewChain(clients []Client, cfg *ChainConfig) *Chain {
	if cfg == nil {
		cfg = DefaultChainConfig()
	}
	resolved := *cfg
	if resolved.MaxAttempts < 1 {
		resolved.MaxAttempts = DefaultMaxAttempts
	}
	if resolved.BackoffBase <= 0 {
		resolved.BackoffBase = DefaultBackoffBase
	}
	return &Chain{
		clients: clients,
		cfg:     resolved,
		sleep:   sleepCtx,
	}
}

// Run submits the prompt to the chain and returns the first successful
// completion. Every outcome is either a completion or a typed error; raw
// transport errors never escape. The returned attempt slice is the full
// audit trail regardless of outcome.
func (c *Chain) Run(ctx context.Context, prompt string, opts *RequestOptions) (string, []types.ProviderAttempt, error) {
	return c.run(ctx, prompt, opts, nil)
}

// RunStream is Run with incremental delivery through emit. A provider that
// already emitted chunks is not failed over, since the partial output cannot
// be unsent; a mid-stream failure ends the run with the error and trail.
func (c *Chain) RunStream(ctx context.Context, prompt string, opts *RequestOptions, emit ChunkFunc) (string, []types.ProviderAttempt, error) {
	return c.run(ctx, prompt, opts, emit)
}

func (c *Chain) run(ctx context.Context, prompt string, opts *RequestOptions, emit ChunkFunc) (string, []types.ProviderAttempt, error) {
	var attempts []types.ProviderAttempt

	for _, client := range c.clients {
		for try := 0; try < c.cfg.MaxAttempts; try++ {
			started := time.Now()
			emitted := false

			var text string
			var err error
			if emit == nil {
				text, err = client.Complete(ctx, prompt, opts)
			} else {
				text, err = client.CompleteStream(ctx, prompt, opts, func(chunk string) error {
					emitted = true
					return emit(chunk)
				})
			}

			record := types.ProviderAttempt{
				Provider:  client.Name(),
				Model:     client.Model(),
				StartedAt: started,
				LatencyMS: time.Since(started).Milliseconds(),
			}

			if err == nil {
				record.Outcome = types.OutcomeSuccess
				attempts = append(attempts, record)
				return text, attempts, nil
			}

			var perr *ProviderError
			if !errors.As(err, &perr) {
				// Not a provider failure: caller-initiated cancellation or
				// a cooperative stop from the chunk callback. Hand back the
				// partial text and the caller's error untouched.
				record.Outcome = types.OutcomeInvalidResponse
				record.Detail = "stopped: " + err.Error()
				attempts = append(attempts, record)
				return text, attempts, err
			}

			record.Outcome = perr.Kind.Outcome()
			record.Detail = perr.Error()
			attempts = append(attempts, record)

			if emitted {
				// Output already reached the caller; falling over would
				// duplicate it.
				return text, attempts, perr
			}

			if !perr.Kind.Retryable() {
				break // next provider
			}
			if try+1 < c.cfg.MaxAttempts {
				if err := c.sleep(ctx, c.cfg.BackoffBase<<uint(try)); err != nil {
					attempts = append(attempts, types.ProviderAttempt{
						Provider:  client.Name(),
						Model:     client.Model(),
						StartedAt: time.Now(),
						Outcome:   types.OutcomeTimeout,
						Detail:    "backoff interrupted: " + err.Error(),
					})
					return "", attempts, err
				}
			}
		}
	}

	return "", attempts, &AllProvidersFailedError{Attempts: attempts}
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
