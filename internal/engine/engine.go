// Package engine is the entry point of insight synthesis. It tries one
// configured backend and always degrades to the heuristic analyzer: callers
// receive a complete insight for every request, never an error.
package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/normanking/docsight/internal/heuristic"
	"github.com/normanking/docsight/internal/insight"
	"github.com/normanking/docsight/internal/llm"
	"github.com/normanking/docsight/internal/normalize"
	"github.com/normanking/docsight/internal/patterns"
	"github.com/normanking/docsight/internal/prompt"
)

// ProviderFactory builds a backend adapter by name. Indirection exists for
// tests, which substitute a stub provider; production wiring uses
// llm.NewProviderByName.
type ProviderFactory func(name string, cfg *llm.ProviderConfig) (llm.Provider, error)

// Engine orchestrates one analysis: prompt, backend, normalize, or fall back.
// It holds only immutable collaborators and is safe for concurrent use.
type Engine struct {
	factory   ProviderFactory
	builder   *prompt.Builder
	heuristic *heuristic.Analyzer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithProviderFactory overrides backend construction (used by tests).
func WithProviderFactory(f ProviderFactory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithPromptBuilder overrides the prompt builder, e.g. with narrower caps.
func WithPromptBuilder(b *prompt.Builder) Option {
	return func(e *Engine) { e.builder = b }
}

// WithPatternLibrary overrides the heuristic recognizer library.
func WithPatternLibrary(lib *patterns.Library) Option {
	return func(e *Engine) { e.heuristic = heuristic.New(lib) }
}

// New creates an engine with production defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		factory:   llm.NewProviderByName,
		builder:   prompt.NewBuilder(),
		heuristic: heuristic.New(patterns.Default()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SourceHeuristic is reported when the local analyzer produced the insight.
// Backend results report the provider name instead.
const SourceHeuristic = "heuristic"

// placeholderKey matches obviously unfilled credential template values.
var placeholderKey = regexp.MustCompile(`(?i)^(your[-_ ]?api[-_ ]?key.*|changeme|change-me|placeholder|todo|xxx+|<[^>]*>|\$\{[^}]*\})$`)

// usableKey reports whether the key looks like a real credential.
func usableKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !placeholderKey.MatchString(key)
}

// Synthesize produces an insight for the request. When providerCfg is nil or
// carries no usable credential, or when the backend attempt fails at any
// stage, the heuristic analyzer decides the whole result. The two fallback
// reasons are logged distinctly: an absent credential is normal operation,
// a failed backend is an upstream problem worth alerting on.
//
// The second return names what produced the result: the provider name, or
// SourceHeuristic.
func (e *Engine) Synthesize(ctx context.Context, req *insight.Request, providerCfg *llm.ProviderConfig) (*insight.Insight, string) {
	logger := log.With().
		Str("request_id", uuid.NewString()).
		Str("classification", string(req.Classification)).
		Logger()

	if providerCfg == nil || !usableKey(providerCfg.APIKey) {
		logger.Debug().Str("reason", "no-credential").Msg("using heuristic analyzer")
		return e.heuristic.Analyze(req), SourceHeuristic
	}

	result, err := e.tryBackend(ctx, logger, req, providerCfg)
	if err != nil {
		// Failure detail matters for diagnostics only; control flow
		// always degrades to the heuristic path.
		logger.Warn().
			Str("reason", "backend-failed").
			Str("provider", providerCfg.Name).
			Err(err).
			Msg("using heuristic analyzer")
		return e.heuristic.Analyze(req), SourceHeuristic
	}

	logger.Debug().Str("provider", providerCfg.Name).Msg("backend insight accepted")
	return result, providerCfg.Name
}

// tryBackend runs the prompt -> adapter -> normalizer pipeline once. No
// retries and no second provider: provider selection is the caller's call.
func (e *Engine) tryBackend(ctx context.Context, logger zerolog.Logger, req *insight.Request, cfg *llm.ProviderConfig) (*insight.Insight, error) {
	instruction, err := e.builder.Build(req)
	if err != nil {
		return nil, err
	}

	provider, err := e.factory(cfg.Name, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("provider", cfg.Name).
		Int("prompt_bytes", len(instruction)).
		Msg("dispatching backend call")

	resp, err := provider.Complete(ctx, &llm.CompletionRequest{
		System: prompt.System,
		Prompt: instruction,
	})
	if err != nil {
		return nil, err
	}

	return normalize.Normalize(resp.Text)
}
