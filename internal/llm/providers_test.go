package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(name, endpoint string) *ProviderConfig {
	cfg := DefaultConfig(name)
	cfg.Endpoint = endpoint
	cfg.APIKey = "test-key"
	return cfg
}

// TestAnthropicComplete verifies header handling and text unwrapping from
// the Anthropic messages envelope.
func TestAnthropicComplete(t *testing.T) {
	var gotReq anthropicMessagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"model":       "claude-test",
			"stop_reason": "end_turn",
			"content": []map[string]string{
				{"type": "text", "text": `{"summary": "ok"}`},
			},
			"usage": map[string]int{"input_tokens": 10, "output_tokens": 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewAnthropicProvider(testConfig("anthropic", server.URL))

	resp, err := p.Complete(context.Background(), &CompletionRequest{
		System: "be precise",
		Prompt: "analyze this",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"summary": "ok"}`, resp.Text)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, 10, resp.PromptTokens)
	assert.Equal(t, 5, resp.CompletionTokens)

	assert.Equal(t, "be precise", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, 1500, gotReq.MaxTokens)
	assert.InDelta(t, 0.3, gotReq.Temperature, 0.001)
}

func TestAnthropicEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []map[string]string{}})
	}))
	defer server.Close()

	p := NewAnthropicProvider(testConfig("anthropic", server.URL))

	_, err := p.Complete(context.Background(), &CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsBackendError(err))
}

func TestAnthropicNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider(testConfig("anthropic", server.URL))

	_, err := p.Complete(context.Background(), &CompletionRequest{Prompt: "x"})
	require.Error(t, err)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusTooManyRequests, be.StatusCode)
	assert.Contains(t, be.Message, "rate limited")
}

func TestAnthropicMissingKey(t *testing.T) {
	cfg := DefaultConfig("anthropic")
	p := NewAnthropicProvider(cfg)

	assert.False(t, p.Available())

	_, err := p.Complete(context.Background(), &CompletionRequest{Prompt: "x"})
	assert.True(t, IsBackendError(err))
}

// TestOpenAIComplete covers the chat-completions envelope shared by the
// OpenAI-compatible adapters.
func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := map[string]any{
			"model": "gpt-test",
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": `{"summary": "fine"}`},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 7, "completion_tokens": 3},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig("openai", server.URL))

	resp, err := p.Complete(context.Background(), &CompletionRequest{
		System: "be precise",
		Prompt: "analyze this",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"summary": "fine"}`, resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 7, resp.PromptTokens)
}

func TestOpenAINoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig("openai", server.URL))

	_, err := p.Complete(context.Background(), &CompletionRequest{Prompt: "x"})
	assert.True(t, IsBackendError(err))
}

func TestCompleteRespectsContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p := NewOpenAIProvider(testConfig("openai", server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, &CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRequestOverridesBeatDefaults(t *testing.T) {
	var got openAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testConfig("openai", server.URL))

	_, err := p.Complete(context.Background(), &CompletionRequest{
		Prompt:      "x",
		Model:       "custom-model",
		MaxTokens:   99,
		Temperature: 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, "custom-model", got.Model)
	assert.Equal(t, 99, got.MaxTokens)
	assert.InDelta(t, 0.9, got.Temperature, 0.001)
}

func TestNewProviderByName(t *testing.T) {
	for _, name := range SupportedProviders {
		p, err := NewProviderByName(name, DefaultConfig(name))
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err := NewProviderByName("ollama", nil)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("anthropic")
	assert.Equal(t, 1500, cfg.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Temperature, 0.001)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)

	groq := DefaultConfig("groq")
	assert.Equal(t, 30*time.Second, groq.Timeout)
}
