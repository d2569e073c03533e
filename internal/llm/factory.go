package llm

import (
	"fmt"
	"os"
)

// SupportedProviders lists the provider identifiers the factory accepts.
var SupportedProviders = []string{"anthropic", "openai", "gemini", "groq", "openrouter"}

// NewProviderByName creates a provider by identifier. Every provider is
// wrapped with the metrics decorator for call counting and latency tracking.
func NewProviderByName(name string, cfg *ProviderConfig) (Provider, error) {
	var provider Provider

	switch name {
	case "anthropic":
		provider = NewAnthropicProvider(cfg)
	case "openai":
		provider = NewOpenAIProvider(cfg)
	case "gemini":
		provider = NewGeminiProvider(cfg)
	case "groq":
		provider = NewGroqProvider(cfg)
	case "openrouter":
		provider = NewOpenRouterProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return NewMetricsProvider(provider), nil
}

// APIKeyFromEnv returns the conventional environment variable value for a
// provider, used when the config file carries no key.
func APIKeyFromEnv(name string) string {
	envVars := map[string]string{
		"anthropic":  "ANTHROPIC_API_KEY",
		"openai":     "OPENAI_API_KEY",
		"gemini":     "GEMINI_API_KEY",
		"groq":       "GROQ_API_KEY",
		"openrouter": "OPENROUTER_API_KEY",
	}
	if envVar, ok := envVars[name]; ok {
		return os.Getenv(envVar)
	}
	return ""
}
