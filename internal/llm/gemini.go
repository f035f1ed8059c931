package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed provider client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Name identifies the provider for audit records.
func (c *GeminiClient) Name() string { return "gemini" }

// Model returns the configured model name.
func (c *GeminiClient) Model() string { return c.model }

// Complete submits a prompt and returns the full completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts *RequestOptions) (string, error) {
	if opts == nil {
		opts = DefaultRequestOptions()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := c.generativeModel(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", c.classify(ctx, err)
	}

	text, err := extractGeminiText(resp)
	if err != nil {
		return "", &ProviderError{Provider: c.Name(), Model: c.model, Kind: FailureInvalidResponse, Cause: err}
	}
	return text, nil
}

// CompleteStream streams the completion chunk by chunk through emit.
func (c *GeminiClient) CompleteStream(ctx context.Context, prompt string, opts *RequestOptions, emit ChunkFunc) (string, error) {
	if opts == nil {
		opts = DefaultRequestOptions()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	iter := c.generativeModel(opts).GenerateContentStream(ctx, genai.Text(prompt))

	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return sb.String(), c.classify(ctx, err)
		}

		chunk, err := extractGeminiText(resp)
		if err != nil {
			continue // empty interim chunk
		}
		sb.WriteString(chunk)
		if err := emit(chunk); err != nil {
			// Cooperative stop: hand back what was already delivered.
			return sb.String(), err
		}
	}

	if sb.Len() == 0 {
		return "", &ProviderError{Provider: c.Name(), Model: c.model, Kind: FailureInvalidResponse, Cause: errors.New("empty stream")}
	}
	return sb.String(), nil
}

// Close releases resources held by the underlying client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generativeModel(opts *RequestOptions) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	return model
}

// classify maps SDK and transport errors onto the uniform failure taxonomy.
// Context cancellation initiated by the caller passes through unchanged.
func (c *GeminiClient) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		return err
	}

	kind := FailureServerError
	var gerr *googleapi.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailureTimeout
	case errors.As(err, &gerr):
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			kind = FailureRateLimited
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			kind = FailureAuthError
		case gerr.Code >= 500:
			kind = FailureServerError
		default:
			kind = FailureInvalidResponse
		}
	}
	return &ProviderError{Provider: c.Name(), Model: c.model, Kind: kind, Cause: err}
}

// extractGeminiText pulls the text parts out of a Gemini response.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
