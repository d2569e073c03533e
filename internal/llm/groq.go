package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// GroqProvider implements the Provider interface for Groq.
// Groq exposes an OpenAI-compatible API with very low inference latency,
// which suits one-shot extraction calls well.
type GroqProvider struct {
	baseProvider
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(cfg *ProviderConfig) *GroqProvider {
	return &GroqProvider{
		baseProvider: newBaseProvider(cfg, "groq"),
	}
}

// Complete sends a completion request to Groq.
func (p *GroqProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if p.config.APIKey == "" {
		return nil, backendErr("groq", "API key not configured", nil)
	}

	start := time.Now()

	groqReq := groqChatRequest{
		Model:       p.model(req),
		MaxTokens:   p.maxTokens(req),
		Temperature: p.temperature(req),
	}
	if req.System != "" {
		groqReq.Messages = append(groqReq.Messages, groqMessage{
			Role:    "system",
			Content: req.System,
		})
	}
	groqReq.Messages = append(groqReq.Messages, groqMessage{
		Role:    "user",
		Content: req.Prompt,
	})

	body, err := json.Marshal(groqReq)
	if err != nil {
		return nil, backendErr("groq", "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, backendErr("groq", "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, backendErr("groq", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("groq", resp.StatusCode, resp.Body)
	}

	var groqResp groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return nil, backendErr("groq", "decode response", err)
	}

	if len(groqResp.Choices) == 0 {
		return nil, backendErr("groq", "no choices in response", nil)
	}

	choice := groqResp.Choices[0]
	if choice.Message.Content == "" {
		return nil, backendErr("groq", "empty message content", nil)
	}

	return &CompletionResponse{
		Text:             choice.Message.Content,
		Model:            groqResp.Model,
		PromptTokens:     groqResp.Usage.PromptTokens,
		CompletionTokens: groqResp.Usage.CompletionTokens,
		Duration:         time.Since(start),
		FinishReason:     choice.FinishReason,
	}, nil
}

// Groq uses the OpenAI wire format; the types are duplicated rather than
// shared so each adapter owns its provider contract end to end.
type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      groqMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
