package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// MetricsProvider wraps a Provider with call counting and latency tracking.
// It satisfies the Provider interface, so callers never see the wrapper.
type MetricsProvider struct {
	provider Provider
	name     string

	totalCalls  int64
	totalErrors int64
	totalTokens int64

	mu           sync.Mutex
	totalLatency time.Duration
	maxLatency   time.Duration
}

// Stats is a point-in-time snapshot of a provider's counters.
type Stats struct {
	Provider   string        `json:"provider"`
	Calls      int64         `json:"calls"`
	Errors     int64         `json:"errors"`
	Tokens     int64         `json:"tokens"`
	AvgLatency time.Duration `json:"avg_latency"`
	MaxLatency time.Duration `json:"max_latency"`
}

// NewMetricsProvider wraps a provider with metrics collection.
func NewMetricsProvider(provider Provider) *MetricsProvider {
	return &MetricsProvider{
		provider: provider,
		name:     provider.Name(),
	}
}

// Complete implements Provider, recording latency and outcome.
func (m *MetricsProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	resp, err := m.provider.Complete(ctx, req)
	latency := time.Since(start)

	atomic.AddInt64(&m.totalCalls, 1)
	m.mu.Lock()
	m.totalLatency += latency
	if latency > m.maxLatency {
		m.maxLatency = latency
	}
	m.mu.Unlock()

	if err != nil {
		atomic.AddInt64(&m.totalErrors, 1)
		log.Debug().
			Str("provider", m.name).
			Dur("latency", latency).
			Err(err).
			Msg("backend call failed")
		return nil, err
	}

	atomic.AddInt64(&m.totalTokens, int64(resp.PromptTokens+resp.CompletionTokens))
	log.Debug().
		Str("provider", m.name).
		Str("model", resp.Model).
		Dur("latency", latency).
		Int("prompt_tokens", resp.PromptTokens).
		Int("completion_tokens", resp.CompletionTokens).
		Msg("backend call completed")

	return resp, nil
}

// Name returns the wrapped provider's identifier.
func (m *MetricsProvider) Name() string { return m.provider.Name() }

// Available reports the wrapped provider's availability.
func (m *MetricsProvider) Available() bool { return m.provider.Available() }

// Snapshot returns the current counters.
func (m *MetricsProvider) Snapshot() Stats {
	calls := atomic.LoadInt64(&m.totalCalls)

	m.mu.Lock()
	total := m.totalLatency
	max := m.maxLatency
	m.mu.Unlock()

	var avg time.Duration
	if calls > 0 {
		avg = total / time.Duration(calls)
	}

	return Stats{
		Provider:   m.name,
		Calls:      calls,
		Errors:     atomic.LoadInt64(&m.totalErrors),
		Tokens:     atomic.LoadInt64(&m.totalTokens),
		AvgLatency: avg,
		MaxLatency: max,
	}
}
