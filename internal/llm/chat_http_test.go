package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChatClient(baseURL string) *chatClient {
	return &chatClient{
		name:       "openrouter",
		model:      "test-model",
		apiKey:     "test-key",
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func TestChatClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)
		assert.False(t, req.Stream)

		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "hi there"}}]}`))
	}))
	defer server.Close()

	client := testChatClient(server.URL)
	text, err := client.Complete(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestChatClientCompleteClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   FailureKind
	}{
		{http.StatusTooManyRequests, FailureRateLimited},
		{http.StatusUnauthorized, FailureAuthError},
		{http.StatusForbidden, FailureAuthError},
		{http.StatusInternalServerError, FailureServerError},
		{http.StatusBadRequest, FailureInvalidResponse},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", tt.status)
		}))

		client := testChatClient(server.URL)
		_, err := client.Complete(context.Background(), "hello", nil)

		var perr *ProviderError
		require.ErrorAs(t, err, &perr, "status %d", tt.status)
		assert.Equal(t, tt.kind, perr.Kind, "status %d", tt.status)
		assert.Equal(t, "openrouter", perr.Provider)
		server.Close()
	}
}

func TestChatClientCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := testChatClient(server.URL)
	_, err := client.Complete(context.Background(), "hello", nil)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FailureInvalidResponse, perr.Kind)
}

func TestChatClientCompleteStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"choices\": [{\"delta\": {\"content\": \"Hello\"}}]}\n\n" +
				"data: {\"choices\": [{\"delta\": {\"content\": \" world\"}}]}\n\n" +
				": keep-alive comment\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := testChatClient(server.URL)
	var chunks []string
	text, err := client.CompleteStream(context.Background(), "hello", nil, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, []string{"Hello", " world"}, chunks)
}

func TestChatClientStreamCooperativeStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			"data: {\"choices\": [{\"delta\": {\"content\": \"first\"}}]}\n\n" +
				"data: {\"choices\": [{\"delta\": {\"content\": \"second\"}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer server.Close()

	stop := errors.New("enough")
	client := testChatClient(server.URL)
	text, err := client.CompleteStream(context.Background(), "hello", nil, func(string) error {
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, "first", text)
}

func TestChatClientStreamEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := testChatClient(server.URL)
	_, err := client.CompleteStream(context.Background(), "hello", nil, func(string) error { return nil })

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FailureInvalidResponse, perr.Kind)
}

func TestNewClientsDefaults(t *testing.T) {
	or := NewOpenRouterClient("k", "")
	assert.Equal(t, "openrouter", or.Name())
	assert.NotEmpty(t, or.Model())

	groq := NewGroqClient("k", "custom-model")
	assert.Equal(t, "groq", groq.Name())
	assert.Equal(t, "custom-model", groq.Model())
}
