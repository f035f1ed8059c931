// Package config provides configuration loading and validation for the CLI.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/skillgap/internal/llm"
)

// Provider names accepted in the providers list.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderGroq       = "groq"
)

// ProviderConfig selects one LLM provider for the fallback chain. The API
// key is read from the named environment variable, never stored in the file.
type ProviderConfig struct {
	Name      string `json:"name"`
	Model     string `json:"model,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume string `json:"resume,omitempty"` // Path to resume text file
	Job    string `json:"job,omitempty"`    // Path to job posting text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job posting from

	// Candidate Info
	JobTitle string   `json:"job_title,omitempty"`
	Skills   []string `json:"skills,omitempty"` // Declared skills

	// Providers, tried in order. Empty means the built-in default chain.
	Providers []ProviderConfig `json:"providers,omitempty"`

	// Retry policy
	MaxAttempts int `json:"max_attempts,omitempty"` // Tries per provider for transient failures
	BackoffMS   int `json:"backoff_ms,omitempty"`   // First retry delay, doubles per retry
	TimeoutSecs int `json:"timeout_seconds,omitempty"`

	// Behavior
	HistoryBudget    int  `json:"history_budget,omitempty"`     // Chat turns sent per question
	DefaultPlanWeeks int  `json:"default_plan_weeks,omitempty"` // Learning plan length
	UseBrowser       bool `json:"use_browser,omitempty"`        // Use headless browser for SPA job pages
	Verbose          bool `json:"verbose,omitempty"`            // Print detailed debug information
}

// DefaultProviders is the chain used when the config lists none: Gemini
// first, then the free OpenRouter tier, then Groq.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: ProviderGemini, APIKeyEnv: "GEMINI_API_KEY"},
		{Name: ProviderOpenRouter, APIKeyEnv: "OPENROUTER_API_KEY"},
		{Name: ProviderGroq, APIKeyEnv: "GROQ_API_KEY"},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.BackoffMS < 0 {
		return fmt.Errorf("config error: 'backoff_ms' must be non-negative")
	}
	if c.TimeoutSecs < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.HistoryBudget < 0 {
		return fmt.Errorf("config error: 'history_budget' must be non-negative")
	}
	if c.DefaultPlanWeeks < 0 {
		return fmt.Errorf("config error: 'default_plan_weeks' must be non-negative")
	}

	for _, provider := range c.Providers {
		switch provider.Name {
		case ProviderGemini, ProviderOpenRouter, ProviderGroq:
		default:
			return fmt.Errorf("config error: unknown provider %q", provider.Name)
		}
	}

	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.JobTitle == "" {
		result.JobTitle = defaults.JobTitle
	}
	if len(result.Skills) == 0 {
		result.Skills = defaults.Skills
	}
	if len(result.Providers) == 0 {
		result.Providers = defaults.Providers
	}

	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.BackoffMS == 0 {
		result.BackoffMS = defaults.BackoffMS
	}
	if result.TimeoutSecs == 0 {
		result.TimeoutSecs = defaults.TimeoutSecs
	}
	if result.HistoryBudget == 0 {
		result.HistoryBudget = defaults.HistoryBudget
	}
	if result.DefaultPlanWeeks == 0 {
		result.DefaultPlanWeeks = defaults.DefaultPlanWeeks
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ChainConfig converts the retry settings into a chain policy. Zero values
// fall back to the chain defaults.
func (c *Config) ChainConfig() *llm.ChainConfig {
	cfg := llm.DefaultChainConfig()
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	if c.BackoffMS > 0 {
		cfg.BackoffBase = time.Duration(c.BackoffMS) * time.Millisecond
	}
	return cfg
}

// RequestOptions converts the timeout setting into completion options.
func (c *Config) RequestOptions() *llm.RequestOptions {
	opts := llm.DefaultRequestOptions()
	if c.TimeoutSecs > 0 {
		opts.TimeoutSeconds = c.TimeoutSecs
	}
	return opts
}

// BuildChain constructs the provider chain from the configured (or default)
// provider list. Providers whose API key environment variable is unset are
// skipped. An empty chain is returned as (nil, nil); callers treat that as
// deterministic-only mode.
func (c *Config) BuildChain(ctx context.Context) (*llm.Chain, error) {
	providers := c.Providers
	if len(providers) == 0 {
		providers = DefaultProviders()
	}

	var clients []llm.Client
	for _, provider := range providers {
		apiKey := os.Getenv(provider.APIKeyEnv)
		if apiKey == "" {
			continue
		}

		switch provider.Name {
		case ProviderGemini:
			client, err := llm.NewGeminiClient(ctx, apiKey, provider.Model)
			if err != nil {
				return nil, fmt.Errorf("failed to build gemini client: %w", err)
			}
			clients = append(clients, client)
		case ProviderOpenRouter:
			clients = append(clients, llm.NewOpenRouterClient(apiKey, provider.Model))
		case ProviderGroq:
			clients = append(clients, llm.NewGroqClient(apiKey, provider.Model))
		default:
			return nil, fmt.Errorf("unknown provider %q", provider.Name)
		}
	}

	if len(clients) == 0 {
		return nil, nil
	}
	return llm.NewChain(clients, c.ChainConfig()), nil
}
