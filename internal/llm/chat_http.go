package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Chat-completions endpoints for the OpenAI-compatible providers.
const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	groqBaseURL       = "https://api.groq.com/openai/v1"
)

// chatClient implements Client against any OpenAI-compatible
// chat-completions API. OpenRouter and Groq share this implementation.
type chatClient struct {
	name       string
	model      string
	apiKey     string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
}

// NewOpenRouterClient creates a provider client for openrouter.ai.
func NewOpenRouterClient(apiKey, model string) Client {
	if model == "" {
		model = "meta-llama/llama-3.2-3b-instruct:free"
	}
	return &chatClient{
		name:    "openrouter",
		model:   model,
		apiKey:  apiKey,
		baseURL: openRouterBaseURL,
		headers: map[string]string{
			"X-Title": "skillgap",
		},
		httpClient: &http.Client{},
	}
}

// NewGroqClient creates a provider client for api.groq.com.
func NewGroqClient(apiKey, model string) Client {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &chatClient{
		name:       "groq",
		model:      model,
		apiKey:     apiKey,
		baseURL:    groqBaseURL,
		httpClient: &http.Client{},
	}
}

// Name identifies the provider for audit records.
func (c *chatClient) Name() string { return c.name }

// Model returns the configured model name.
func (c *chatClient) Model() string { return c.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete submits a prompt and returns the full completion.
func (c *chatClient) Complete(ctx context.Context, prompt string, opts *RequestOptions) (string, error) {
	if opts == nil {
		opts = DefaultRequestOptions()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := c.post(ctx, prompt, opts, false)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.wrap(ctx, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ProviderError{Provider: c.name, Model: c.model, Kind: FailureInvalidResponse, Cause: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: c.name, Model: c.model, Kind: FailureInvalidResponse, Cause: errors.New("no completion choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}

// CompleteStream submits a streaming request and emits delta chunks as they
// arrive on the SSE response body.
func (c *chatClient) CompleteStream(ctx context.Context, prompt string, opts *RequestOptions, emit ChunkFunc) (string, error) {
	if opts == nil {
		opts = DefaultRequestOptions()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	resp, err := c.post(ctx, prompt, opts, true)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var parsed chatResponse
		if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
			continue // skip malformed keep-alive frames
		}
		if len(parsed.Choices) == 0 {
			continue
		}
		chunk := parsed.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if err := emit(chunk); err != nil {
			// Cooperative stop: hand back what was already delivered.
			return sb.String(), err
		}
	}
	if err := scanner.Err(); err != nil {
		return sb.String(), c.wrap(ctx, err)
	}

	if sb.Len() == 0 {
		return "", &ProviderError{Provider: c.name, Model: c.model, Kind: FailureInvalidResponse, Cause: errors.New("empty stream")}
	}
	return sb.String(), nil
}

// post sends the chat-completions request and classifies HTTP-level failures.
func (c *chatClient) post(ctx context.Context, prompt string, opts *RequestOptions, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Model: c.model, Kind: FailureInvalidResponse, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Model: c.model, Kind: FailureInvalidResponse, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrap(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		cause := fmt.Errorf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

		kind := FailureInvalidResponse
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			kind = FailureRateLimited
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			kind = FailureAuthError
		case resp.StatusCode >= 500:
			kind = FailureServerError
		}
		return nil, &ProviderError{Provider: c.name, Model: c.model, Kind: kind, Cause: cause}
	}
	return resp, nil
}

// wrap classifies transport errors. Caller-initiated cancellation passes
// through unchanged.
func (c *chatClient) wrap(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		return err
	}
	kind := FailureServerError
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailureTimeout
	}
	return &ProviderError{Provider: c.name, Model: c.model, Kind: kind, Cause: err}
}
