package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// OpenRouterProvider implements the Provider interface for OpenRouter, which
// fronts many hosted models behind one OpenAI-compatible API.
type OpenRouterProvider struct {
	baseProvider
}

// NewOpenRouterProvider creates a new OpenRouter provider.
func NewOpenRouterProvider(cfg *ProviderConfig) *OpenRouterProvider {
	return &OpenRouterProvider{
		baseProvider: newBaseProvider(cfg, "openrouter"),
	}
}

// Complete sends a completion request to OpenRouter.
func (p *OpenRouterProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if p.config.APIKey == "" {
		return nil, backendErr("openrouter", "API key not configured", nil)
	}

	start := time.Now()

	orReq := openRouterChatRequest{
		Model:       p.model(req),
		MaxTokens:   p.maxTokens(req),
		Temperature: p.temperature(req),
	}
	if req.System != "" {
		orReq.Messages = append(orReq.Messages, openRouterMessage{
			Role:    "system",
			Content: req.System,
		})
	}
	orReq.Messages = append(orReq.Messages, openRouterMessage{
		Role:    "user",
		Content: req.Prompt,
	})

	body, err := json.Marshal(orReq)
	if err != nil {
		return nil, backendErr("openrouter", "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.Endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, backendErr("openrouter", "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	httpReq.Header.Set("X-Title", "docsight")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, backendErr("openrouter", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("openrouter", resp.StatusCode, resp.Body)
	}

	var orResp openRouterChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&orResp); err != nil {
		return nil, backendErr("openrouter", "decode response", err)
	}

	if len(orResp.Choices) == 0 {
		return nil, backendErr("openrouter", "no choices in response", nil)
	}

	choice := orResp.Choices[0]
	if choice.Message.Content == "" {
		return nil, backendErr("openrouter", "empty message content", nil)
	}

	return &CompletionResponse{
		Text:             choice.Message.Content,
		Model:            orResp.Model,
		PromptTokens:     orResp.Usage.PromptTokens,
		CompletionTokens: orResp.Usage.CompletionTokens,
		Duration:         time.Since(start),
		FinishReason:     choice.FinishReason,
	}, nil
}

// OpenRouter API types (OpenAI-compatible)
type openRouterChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int               `json:"index"`
		Message      openRouterMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
