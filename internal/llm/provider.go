// Package llm provides the backend adapters for the insight engine.
// Each supported provider translates a prompt plus model identifier into
// that provider's REST contract and unwraps the raw answer text from its
// response envelope. Failures of any kind surface as *BackendError so the
// engine can fall back to the heuristic analyzer without inspecting
// provider-specific detail.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxErrorBodySize limits how much of an error response body is read back
// into the error message (1MB). Prevents unbounded allocation on malformed
// upstream errors.
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider is the uniform capability every backend adapter implements.
type Provider interface {
	// Complete sends a single prompt and returns the raw answer text.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Available reports whether the provider has a usable credential.
	Available() bool
}

// CompletionRequest is one prompt dispatched to a backend.
type CompletionRequest struct {
	// Model overrides the provider's configured default when set.
	Model string `json:"model,omitempty"`

	// System sets the instruction context, when the provider supports it.
	System string `json:"system,omitempty"`

	// Prompt is the user-facing instruction text.
	Prompt string `json:"prompt"`

	// MaxTokens caps the answer length; 0 uses the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness; 0 uses the provider default.
	Temperature float64 `json:"temperature,omitempty"`
}

// CompletionResponse is the unwrapped answer from a backend.
type CompletionResponse struct {
	Text             string        `json:"text"`
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Duration         time.Duration `json:"duration"`
	FinishReason     string        `json:"finish_reason,omitempty"`
}

// BackendError reports a failed backend call: transport failure, non-success
// status, or a response envelope missing the expected text field.
type BackendError struct {
	Provider   string
	StatusCode int // 0 when the failure happened before a status was received
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s backend error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s backend error: %s", e.Provider, e.Message)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// backendErr builds a BackendError without a status code.
func backendErr(provider, message string, err error) *BackendError {
	return &BackendError{Provider: provider, Message: message, Err: err}
}

// statusErr builds a BackendError for a non-success HTTP status, folding a
// bounded read of the response body into the message.
func statusErr(provider string, status int, body io.Reader) *BackendError {
	detail, _ := readLimitedBody(body, MaxErrorBodySize)
	return &BackendError{Provider: provider, StatusCode: status, Message: string(detail)}
}

// ProviderConfig configures one backend adapter. Constructed per analysis
// request and never mutated afterwards.
type ProviderConfig struct {
	// Name identifies the provider (anthropic, openai, gemini, groq, openrouter).
	Name string

	// Endpoint is the API base URL.
	Endpoint string

	// APIKey authenticates against the provider.
	APIKey string

	// Model is the default model identifier.
	Model string

	// MaxTokens is the default answer ceiling.
	MaxTokens int

	// Temperature is the default sampling temperature. Kept low: the engine
	// wants factual extraction, not creative writing.
	Temperature float64

	// Timeout bounds the whole HTTP round trip.
	Timeout time.Duration
}

// DefaultConfig returns per-provider defaults. Temperature and the token
// ceiling are uniform across providers; only endpoints and model names vary.
func DefaultConfig(name string) *ProviderConfig {
	cfg := &ProviderConfig{
		Name:        name,
		MaxTokens:   1500,
		Temperature: 0.3,
		Timeout:     2 * time.Minute,
	}
	switch name {
	case "anthropic":
		cfg.Endpoint = "https://api.anthropic.com"
		cfg.Model = "claude-3-5-sonnet-20241022"
	case "openai":
		cfg.Endpoint = "https://api.openai.com/v1"
		cfg.Model = "gpt-4o-mini"
	case "gemini":
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
		cfg.Model = "gemini-1.5-flash"
	case "groq":
		cfg.Endpoint = "https://api.groq.com/openai/v1"
		cfg.Model = "llama-3.3-70b-versatile"
		cfg.Timeout = 30 * time.Second
	case "openrouter":
		cfg.Endpoint = "https://openrouter.ai/api"
		cfg.Model = "anthropic/claude-3.5-sonnet"
	}
	return cfg
}

// baseProvider carries the shared plumbing of HTTP-based adapters.
type baseProvider struct {
	config *ProviderConfig
	client *http.Client
}

// newBaseProvider applies defaults for any unset field and builds the
// HTTP client.
func newBaseProvider(cfg *ProviderConfig, providerName string) baseProvider {
	if cfg == nil {
		cfg = DefaultConfig(providerName)
	}

	defaults := DefaultConfig(providerName)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.Name = providerName

	return baseProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider identifier.
func (b *baseProvider) Name() string {
	return b.config.Name
}

// Available checks if an API key is configured.
func (b *baseProvider) Available() bool {
	return b.config.APIKey != ""
}

// model resolves the effective model for a request.
func (b *baseProvider) model(req *CompletionRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return b.config.Model
}

// maxTokens resolves the effective token ceiling for a request.
func (b *baseProvider) maxTokens(req *CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return b.config.MaxTokens
}

// temperature resolves the effective temperature for a request.
func (b *baseProvider) temperature(req *CompletionRequest) float64 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return b.config.Temperature
}
