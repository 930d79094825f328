package empath

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// Generation Provider contract + error taxonomy
// ──────────────────────────────────────────────

// Turn is one conversation turn handed to a provider.
type Turn struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// GenerationRequest is the prompt for a single provider attempt. The
// orchestrator builds the message list; providers only transport it.
type GenerationRequest struct {
	Messages []Turn
}

// ResultKind tags the shape of a provider's answer.
type ResultKind int

const (
	// ResultPlainText means Text is the provider's verbatim answer.
	ResultPlainText ResultKind = iota
	// ResultStructured means the provider wrapped its answer in a
	// structured envelope; Text holds the best-effort extraction and Raw
	// the original payload.
	ResultStructured
)

// GenerationResult unifies the plain-text and structured answer shapes.
// Text is always populated, whatever the provider returned.
type GenerationResult struct {
	Kind      ResultKind      `json:"kind"`
	Text      string          `json:"text"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	Citations []string        `json:"citations,omitempty"`
}

// Provider is one interchangeable text-generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// ── Errors ──

// ErrNoProviders signals that no generation backend is configured.
// The orchestrator absorbs it by going straight to the fallback generator.
var ErrNoProviders = errors.New("no generation providers configured")

// RateLimitedError is the only error state visible to callers.
type RateLimitedError struct {
	Identity   string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: identity %s over budget, retry after %s", e.Identity, e.RetryAfter)
}

// ProviderError wraps a single provider's failure (transport, upstream
// rate limit, timeout). It triggers rotation to the next provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MalformedOutputError reports a provider answer in a non-plain-text
// envelope the client could not parse. The orchestrator recovers a
// best-effort plain-text answer instead of failing the request.
type MalformedOutputError struct {
	Provider string
	Payload  string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("provider %s returned malformed output (%d bytes)", e.Provider, len(e.Payload))
}

// ── Best-effort text recovery ──

// textEnvelopeKeys are tried in order when digging answers out of
// JSON-wrapped provider payloads.
var textEnvelopeKeys = []string{"text", "content", "response", "answer", "message", "output", "reply"}

// ExtractPlainText recovers a usable answer from an arbitrary provider
// payload. JSON envelopes are unwrapped by well-known keys; anything else
// is returned as-is minus code fences.
func ExtractPlainText(payload string) string {
	trimmed := strings.TrimSpace(payload)
	trimmed = stripCodeFence(trimmed)

	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return trimmed
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return trimmed
	}
	if text := digText(decoded, 0); text != "" {
		return strings.TrimSpace(text)
	}
	return trimmed
}

// digText walks a decoded JSON value looking for the first plausible
// answer string. Depth-bounded: envelopes are shallow in practice.
func digText(v interface{}, depth int) string {
	if depth > 4 {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		for _, key := range textEnvelopeKeys {
			if inner, ok := val[key]; ok {
				if text := digText(inner, depth+1); text != "" {
					return text
				}
			}
		}
		// OpenAI-style choices array
		if choices, ok := val["choices"].([]interface{}); ok && len(choices) > 0 {
			return digText(choices[0], depth+1)
		}
	case []interface{}:
		var parts []string
		for _, item := range val {
			if text := digText(item, depth+1); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
