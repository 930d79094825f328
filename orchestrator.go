package empath

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ──────────────────────────────────────────────
// Orchestrator — rate check → cache → providers → fallback
// ──────────────────────────────────────────────
//
// Per-request state machine:
//
//	RateCheck → {rejected | CacheLookup}
//	CacheLookup → {hit = done | ProviderAttempt}
//	ProviderAttempt → {success = cache+done | rotate, bounded by provider
//	count | exhausted → FallbackGenerate = cache+done}
//
// The only error callers ever see is *RateLimitedError; every other
// failure mode is absorbed and still yields usable text.

// Reply is the orchestrator's answer, handed to the persistence
// collaborator together with the affect score.
type Reply struct {
	RequestID string      `json:"request_id"`
	Text      string      `json:"text"`
	Affect    AffectScore `json:"affect"`
	Source    string      `json:"source"` // provider name, "cache" or "fallback"
	CacheHit  bool        `json:"cache_hit"`
}

// OrchestratorConfig holds the orchestration tunables.
type OrchestratorConfig struct {
	// SimilarityThreshold for the approximate cache lookup. Default 0.8.
	// Empirically chosen; kept configurable for calibration.
	SimilarityThreshold float64
	// ProviderTimeout bounds each provider call. A timeout is treated
	// exactly like a provider error and triggers rotation. Default 30s.
	ProviderTimeout time.Duration
	// HistoryLimit caps how many prior turns enter the tier-1 prompt.
	// Default 12.
	HistoryLimit int
	// SystemPrompt is prepended to provider prompts when non-empty.
	SystemPrompt string
	// FollowUpWindow for conversation-state tracking. Default 60s.
	FollowUpWindow time.Duration
}

// DefaultOrchestratorConfig returns production defaults.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		SimilarityThreshold: 0.8,
		ProviderTimeout:     30 * time.Second,
		HistoryLimit:        12,
		FollowUpWindow:      60 * time.Second,
	}
}

// Orchestrator coordinates the scorer, cache, limiter, rotation manager
// and fallback generator. All collaborators are explicit constructor
// arguments so tests can substitute doubles; there is no package state.
type Orchestrator struct {
	config   OrchestratorConfig
	scorer   *AffectScorer
	cache    ResponseCache
	limiter  *RateLimiter
	rotation *RotationManager
	fallback *FallbackGenerator
	states   *ConversationStateTracker
	builder  *promptBuilder
	logger   *zap.Logger
}

// NewOrchestrator wires an orchestrator. A nil logger defaults to
// zap.NewNop().
func NewOrchestrator(
	config OrchestratorConfig,
	scorer *AffectScorer,
	cache ResponseCache,
	limiter *RateLimiter,
	rotation *RotationManager,
	fallback *FallbackGenerator,
	logger *zap.Logger,
) *Orchestrator {
	if config.SimilarityThreshold <= 0 {
		config.SimilarityThreshold = DefaultOrchestratorConfig().SimilarityThreshold
	}
	if config.ProviderTimeout <= 0 {
		config.ProviderTimeout = DefaultOrchestratorConfig().ProviderTimeout
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultOrchestratorConfig().HistoryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		config:   config,
		scorer:   scorer,
		cache:    cache,
		limiter:  limiter,
		rotation: rotation,
		fallback: fallback,
		states:   NewConversationStateTracker(config.FollowUpWindow),
		builder:  &promptBuilder{systemPrompt: config.SystemPrompt, historyLimit: config.HistoryLimit},
		logger:   logger,
	}
}

// Respond turns a user message into a reply. identity keys the rate
// limiter; history is the collaborator-supplied prior transcript, oldest
// first. The returned error is non-nil only for rate limiting.
func (o *Orchestrator) Respond(ctx context.Context, identity, text string, history []Turn) (*Reply, error) {
	requestID := uuid.NewString()
	affect := o.scorer.Score(text)

	// RateCheck. Rejected requests terminate immediately: no cache write,
	// no provider traffic.
	if o.limiter.IsRateLimited(identity) {
		o.logger.Info("request rate limited",
			zap.String("request_id", requestID),
			zap.String("identity", identity))
		return nil, &RateLimitedError{Identity: identity, RetryAfter: o.limiter.config.Window}
	}

	// CacheLookup: exact, then similar.
	if entry, ok := o.cache.Get(text); ok {
		o.logger.Debug("cache hit", zap.String("request_id", requestID), zap.String("kind", "exact"))
		return &Reply{RequestID: requestID, Text: entry.Response, Affect: entry.Affect, Source: "cache", CacheHit: true}, nil
	}
	if entry, ok := o.cache.FindSimilar(text, o.config.SimilarityThreshold); ok {
		o.logger.Debug("cache hit", zap.String("request_id", requestID), zap.String("kind", "similar"))
		return &Reply{RequestID: requestID, Text: entry.Response, Affect: entry.Affect, Source: "cache", CacheHit: true}, nil
	}

	state := o.states.Track(identity, text, time.Now())
	profile := ProfileStyle(text, userContents(history))

	// ProviderAttempt with rotation, bounded by the provider count.
	if o.rotation.IsAvailable() {
		o.rotation.Rewind()
		attempts := o.rotation.Len()
		tiers := o.builder.Tiers(text, history, affect, profile, state)

		for i := 0; i < attempts; i++ {
			provider, ok := o.rotation.Current()
			if !ok {
				break
			}
			answer, err := o.attemptProvider(ctx, provider, tiers)
			if err == nil {
				o.cache.Set(text, answer, affect)
				o.logger.Info("reply generated",
					zap.String("request_id", requestID),
					zap.String("provider", provider.Name()))
				return &Reply{RequestID: requestID, Text: answer, Affect: affect, Source: provider.Name()}, nil
			}
			o.logger.Warn("provider exhausted all tiers",
				zap.String("request_id", requestID),
				zap.String("provider", provider.Name()),
				zap.Error(err))
			o.rotation.Rotate()
		}
	}

	// FallbackGenerate: no external dependency, so this path cannot fail.
	answer := o.fallback.Generate(text, affect, userContents(history))
	o.cache.Set(text, answer, affect)
	o.logger.Info("reply generated",
		zap.String("request_id", requestID),
		zap.String("provider", "fallback"))
	return &Reply{RequestID: requestID, Text: answer, Affect: affect, Source: "fallback"}, nil
}

// attemptProvider runs the three prompt tiers against one provider. Any
// tier succeeding ends the attempt; exhausting all three counts as that
// provider's failure. No orchestrator lock is held across these calls.
func (o *Orchestrator) attemptProvider(ctx context.Context, provider Provider, tiers []GenerationRequest) (string, error) {
	var lastErr error
	for tier := range tiers {
		callCtx, cancel := context.WithTimeout(ctx, o.config.ProviderTimeout)
		result, err := provider.Generate(callCtx, &tiers[tier])
		cancel()

		if err != nil {
			// A structured-but-unparseable answer is still an answer;
			// recover best-effort text instead of burning the tier.
			var malformed *MalformedOutputError
			if errors.As(err, &malformed) {
				if text := ExtractPlainText(malformed.Payload); strings.TrimSpace(text) != "" {
					o.logger.Debug("recovered text from malformed output",
						zap.String("provider", provider.Name()))
					return text, nil
				}
			}
			lastErr = err
			continue
		}

		text := result.Text
		if result.Kind == ResultStructured && strings.TrimSpace(text) == "" {
			text = ExtractPlainText(string(result.Raw))
		}
		if strings.TrimSpace(text) == "" {
			lastErr = &ProviderError{Provider: provider.Name(), Err: errors.New("empty completion")}
			continue
		}
		return text, nil
	}
	if lastErr == nil {
		lastErr = &ProviderError{Provider: provider.Name(), Err: errors.New("no tiers attempted")}
	}
	return "", lastErr
}

// userContents extracts the user-authored texts from a transcript for
// style profiling.
func userContents(history []Turn) []string {
	var out []string
	for _, t := range history {
		if t.Role == "user" && strings.TrimSpace(t.Content) != "" {
			out = append(out, t.Content)
		}
	}
	return out
}
