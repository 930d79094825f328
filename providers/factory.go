package providers

import (
	"context"
	"os"

	empath "github.com/emberworks/empath-core-go"
)

// Detection priority: OPENAI > GEMINI > OPENROUTER. Every configured
// backend joins the rotation list in this order; absence of all keys
// yields an empty list and the engine runs fallback-only.

type detector struct {
	envVar string
	build  func(ctx context.Context, apiKey string) (empath.Provider, error)
}

var detectors = []detector{
	{"OPENAI_API_KEY", func(_ context.Context, key string) (empath.Provider, error) {
		return NewOpenAIProvider(OpenAIConfig{APIKey: key}), nil
	}},
	{"GEMINI_API_KEY", func(ctx context.Context, key string) (empath.Provider, error) {
		return NewGeminiProvider(ctx, GeminiConfig{APIKey: key})
	}},
	{"OPENROUTER_API_KEY", func(_ context.Context, key string) (empath.Provider, error) {
		return NewOpenRouterProvider(OpenRouterConfig{APIKey: key}), nil
	}},
}

// DetectProviders builds the provider priority list from environment
// variables. Backends whose construction fails are skipped rather than
// failing detection; an empty result is valid.
func DetectProviders(ctx context.Context) []empath.Provider {
	var out []empath.Provider
	for _, d := range detectors {
		key := os.Getenv(d.envVar)
		if key == "" {
			continue
		}
		p, err := d.build(ctx, key)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
