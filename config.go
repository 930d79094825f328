package empath

import (
	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// EngineConfig — one struct to wire the whole core
// ──────────────────────────────────────────────

// EngineConfig aggregates every component's tunables. Zero values fall
// back to each component's defaults.
type EngineConfig struct {
	Affect       AffectConfig
	Cache        ResponseCacheConfig
	RateLimit    RateLimiterConfig
	Fallback     FallbackConfig
	Orchestrator OrchestratorConfig
}

// DefaultEngineConfig returns production defaults for everything.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Affect:       DefaultAffectConfig(),
		Cache:        DefaultResponseCacheConfig(),
		RateLimit:    DefaultRateLimiterConfig(),
		Fallback:     DefaultFallbackConfig(),
		Orchestrator: DefaultOrchestratorConfig(),
	}
}

// NewEngine builds a fully wired Orchestrator from config and a provider
// priority list. providers may be empty: the engine then serves every
// request from cache or the local fallback generator. A nil logger
// defaults to zap.NewNop().
func NewEngine(config EngineConfig, providers []Provider, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewOrchestrator(
		config.Orchestrator,
		NewAffectScorer(config.Affect),
		NewResponseCache(config.Cache),
		NewRateLimiter(config.RateLimit),
		NewRotationManager(providers, logger.Named("rotation")),
		NewFallbackGenerator(config.Fallback),
		logger.Named("orchestrator"),
	)
}
