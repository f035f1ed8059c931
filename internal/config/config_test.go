package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"job_url": "https://example.com/jobs/42",
		"job_title": "Backend Engineer",
		"skills": ["Go", "PostgreSQL"],
		"max_attempts": 3,
		"backoff_ms": 250,
		"history_budget": 8,
		"providers": [
			{"name": "groq", "model": "llama-3.1-8b-instant", "api_key_env": "GROQ_API_KEY"}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/jobs/42", cfg.JobURL)
	assert.Equal(t, "Backend Engineer", cfg.JobTitle)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, cfg.Skills)
	assert.Equal(t, 3, cfg.MaxAttempts)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, ProviderGroq, cfg.Providers[0].Name)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeTempConfig(t, `{not json`)
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty config", cfg: Config{}},
		{name: "job and job_url together", cfg: Config{Job: "a.txt", JobURL: "https://x"}, wantErr: true},
		{name: "negative attempts", cfg: Config{MaxAttempts: -1}, wantErr: true},
		{name: "negative backoff", cfg: Config{BackoffMS: -5}, wantErr: true},
		{name: "unknown provider", cfg: Config{Providers: []ProviderConfig{{Name: "openai"}}}, wantErr: true},
		{name: "known providers", cfg: Config{Providers: []ProviderConfig{{Name: ProviderGemini}, {Name: ProviderGroq}}}},
		{name: "missing resume file", cfg: Config{Resume: "/definitely/not/here.txt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobTitle: "From Flags", MaxAttempts: 5}
	defaults := Config{
		JobTitle:         "From File",
		JobURL:           "https://example.com",
		Skills:           []string{"Go"},
		MaxAttempts:      2,
		HistoryBudget:    5,
		DefaultPlanWeeks: 4,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "From Flags", merged.JobTitle, "explicit value wins")
	assert.Equal(t, "https://example.com", merged.JobURL)
	assert.Equal(t, []string{"Go"}, merged.Skills)
	assert.Equal(t, 5, merged.MaxAttempts)
	assert.Equal(t, 5, merged.HistoryBudget)
	assert.Equal(t, 4, merged.DefaultPlanWeeks)
}

func TestChainConfig(t *testing.T) {
	cfg := Config{MaxAttempts: 4, BackoffMS: 100}
	chainCfg := cfg.ChainConfig()
	assert.Equal(t, 4, chainCfg.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, chainCfg.BackoffBase)

	defaults := (&Config{}).ChainConfig()
	assert.Equal(t, 2, defaults.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, defaults.BackoffBase)
}

func TestRequestOptions(t *testing.T) {
	opts := (&Config{TimeoutSecs: 90}).RequestOptions()
	assert.Equal(t, 90, opts.TimeoutSeconds)

	assert.Equal(t, 30, (&Config{}).RequestOptions().TimeoutSeconds)
}

func TestBuildChainSkipsProvidersWithoutKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	cfg := Config{}
	chain, err := cfg.BuildChain(context.Background())
	require.NoError(t, err)
	assert.Nil(t, chain, "no keys means deterministic-only mode")
}

func TestBuildChainWithHTTPProviders(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("GROQ_API_KEY", "test-key")

	cfg := Config{Providers: []ProviderConfig{
		{Name: ProviderOpenRouter, APIKeyEnv: "OPENROUTER_API_KEY"},
		{Name: ProviderGroq, APIKeyEnv: "GROQ_API_KEY"},
	}}

	chain, err := cfg.BuildChain(context.Background())
	require.NoError(t, err)
	require.NotNil(t, chain)
}
