// Package normalize recovers a well-formed insight from raw backend answer
// text. Backends are asked for a bare JSON object but routinely wrap it in
// prose or a fenced code block, so parsing is layered: whole string first,
// then the outermost braced substring, then the body of a fenced block.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/normanking/docsight/internal/insight"
)

// ErrUnparseable is wrapped by every normalization failure.
var ErrUnparseable = errors.New("backend text is not a recoverable insight")

// ParseError reports that all parsing strategies failed, keeping a bounded
// sample of the offending text for diagnostics.
type ParseError struct {
	Sample string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("normalize: no strategy recovered a JSON object (text begins %q)", e.Sample)
}

func (e *ParseError) Unwrap() error { return ErrUnparseable }

// Normalize coerces raw backend text into a complete insight. Missing fields
// are defaulted rather than rejected: a parse success is treated as usable
// output, and Sanitize restores the structural invariant.
func Normalize(raw string) (*insight.Insight, error) {
	trimmed := strings.TrimSpace(raw)

	for _, candidate := range candidates(trimmed) {
		// Only objects count: `null` or a bare JSON string unmarshals
		// cleanly but carries no insight.
		if !strings.HasPrefix(candidate, "{") {
			continue
		}
		var in insight.Insight
		if err := json.Unmarshal([]byte(candidate), &in); err == nil {
			return in.Sanitize(), nil
		}
	}

	sample := trimmed
	if len(sample) > 80 {
		sample = sample[:80]
	}
	return nil, &ParseError{Sample: sample}
}

// candidates yields the substrings to try, in order: the whole text, the
// outermost braced region, and the body of the first fenced code block.
func candidates(s string) []string {
	out := []string{s}

	if first := strings.Index(s, "{"); first >= 0 {
		if last := strings.LastIndex(s, "}"); last > first {
			out = append(out, s[first:last+1])
		}
	}

	if body, ok := fencedBody(s); ok {
		out = append(out, body)
	}

	return out
}

// fencedBody extracts the content of the first ``` fenced block, tolerating
// a language tag on the opening fence.
func fencedBody(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open < 0 {
		return "", false
	}
	rest := s[open+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
