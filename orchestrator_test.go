package empath

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// Orchestrator tests
// ══════════════════════════════════════════════

func newTestOrchestrator(limit RateLimiterConfig, providers ...Provider) *Orchestrator {
	return NewOrchestrator(
		OrchestratorConfig{SimilarityThreshold: 0.8, ProviderTimeout: time.Second, HistoryLimit: 6},
		newTestScorer(),
		NewResponseCache(),
		NewRateLimiter(limit),
		NewRotationManager(providers, nil),
		NewFallbackGenerator(DefaultFallbackConfig(), WithRand(rand.New(rand.NewSource(11)))),
		nil,
	)
}

func defaultLimit() RateLimiterConfig {
	return RateLimiterConfig{Window: time.Minute, MaxRequests: 100}
}

func TestRespond_NoProvidersUsesFallback(t *testing.T) {
	o := newTestOrchestrator(defaultLimit())

	reply, err := o.Respond(context.Background(), "user_1", "tell me about black holes", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Source != "fallback" {
		t.Fatalf("expected fallback source, got %s", reply.Source)
	}
	if reply.Text == "" {
		t.Fatal("fallback reply must be non-empty")
	}
	if reply.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if reply.CacheHit {
		t.Fatal("first answer cannot be a cache hit")
	}
}

func TestRespond_SecondIdenticalCallHitsCache(t *testing.T) {
	stub := &stubProvider{name: "alpha", generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{Kind: ResultPlainText, Text: "pong"}, nil
	}}
	o := newTestOrchestrator(defaultLimit(), stub)

	first, err := o.Respond(context.Background(), "user_1", "ping the backend", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != "alpha" || first.Text != "pong" {
		t.Fatalf("expected provider answer, got %+v", first)
	}
	callsAfterFirst := stub.calls

	second, err := o.Respond(context.Background(), "user_1", "Ping  the BACKEND", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.CacheHit || second.Source != "cache" {
		t.Fatalf("expected cache hit, got %+v", second)
	}
	if second.Text != "pong" {
		t.Fatalf("cached text mismatch: %q", second.Text)
	}
	if stub.calls != callsAfterFirst {
		t.Fatalf("cache hit must not touch providers: %d calls before, %d after",
			callsAfterFirst, stub.calls)
	}
}

func TestRespond_SimilarQuestionHitsCache(t *testing.T) {
	o := newTestOrchestrator(defaultLimit())

	if _, err := o.Respond(context.Background(), "user_1", "how do i reset my password", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := o.Respond(context.Background(), "user_1", "how do i reset my password please", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reply.CacheHit {
		t.Fatal("near-duplicate question should hit the similarity cache")
	}
}

func TestRespond_RateLimited(t *testing.T) {
	stub := &stubProvider{name: "alpha", generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{Kind: ResultPlainText, Text: "ok"}, nil
	}}
	o := newTestOrchestrator(RateLimiterConfig{Window: time.Minute, MaxRequests: 1}, stub)

	if _, err := o.Respond(context.Background(), "user_1", "first question", nil); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	sizeBefore := o.cache.Size()

	reply, err := o.Respond(context.Background(), "user_1", "second question", nil)
	if reply != nil {
		t.Fatalf("rejected request must not yield a reply, got %+v", reply)
	}
	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if limited.Identity != "user_1" {
		t.Fatalf("expected identity user_1, got %s", limited.Identity)
	}
	if limited.RetryAfter <= 0 {
		t.Fatal("expected a positive retry hint")
	}

	if o.cache.Size() != sizeBefore {
		t.Fatal("rejected request must not write to the cache")
	}
	if stub.calls > 1 {
		t.Fatalf("rejected request must not reach providers, calls=%d", stub.calls)
	}

	// Other identities are unaffected.
	if _, err := o.Respond(context.Background(), "user_2", "hello there friend", nil); err != nil {
		t.Fatalf("other identity should pass: %v", err)
	}
}

func TestRespond_RotatesThroughAllProvidersOnce(t *testing.T) {
	var order []string
	failing := func(name string) *stubProvider {
		return &stubProvider{name: name, generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
			order = append(order, name)
			return nil, &ProviderError{Provider: name, Err: errors.New("down")}
		}}
	}
	a, b, c := failing("alpha"), failing("beta"), failing("gamma")
	o := newTestOrchestrator(defaultLimit(), a, b, c)

	reply, err := o.Respond(context.Background(), "user_1", "is anyone alive out there", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Source != "fallback" {
		t.Fatalf("all providers down should end in fallback, got %s", reply.Source)
	}

	// Each provider is attempted exactly once per request (three prompt
	// tiers each), starting from the highest priority.
	for _, stub := range []*stubProvider{a, b, c} {
		if stub.calls != 3 {
			t.Fatalf("provider %s: expected 3 tier calls, got %d", stub.name, stub.calls)
		}
	}
	if len(order) == 0 || order[0] != "alpha" {
		t.Fatalf("rotation must start at the highest priority, order=%v", order)
	}
	if o.rotation.Usage("alpha") != 1 || o.rotation.Usage("beta") != 1 || o.rotation.Usage("gamma") != 1 {
		t.Fatal("each provider should be selected exactly once")
	}
}

func TestRespond_SecondProviderRescues(t *testing.T) {
	down := &stubProvider{name: "alpha"}
	up := &stubProvider{name: "beta", generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{Kind: ResultPlainText, Text: "beta answer"}, nil
	}}
	o := newTestOrchestrator(defaultLimit(), down, up)

	reply, err := o.Respond(context.Background(), "user_1", "what time is it on mars", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Source != "beta" || reply.Text != "beta answer" {
		t.Fatalf("expected beta to rescue the request, got %+v", reply)
	}
	if down.calls != 3 {
		t.Fatalf("alpha should have burned its 3 tiers, got %d", down.calls)
	}
}

func TestRespond_RecoversMalformedOutput(t *testing.T) {
	stub := &stubProvider{name: "alpha", generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
		return nil, &MalformedOutputError{Provider: "alpha", Payload: `{"response": "recovered answer"}`}
	}}
	o := newTestOrchestrator(defaultLimit(), stub)

	reply, err := o.Respond(context.Background(), "user_1", "give me something structured", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Source != "alpha" {
		t.Fatalf("recovered answer still counts as the provider's, got %s", reply.Source)
	}
	if reply.Text != "recovered answer" {
		t.Fatalf("expected recovered text, got %q", reply.Text)
	}
	if stub.calls != 1 {
		t.Fatalf("recovery should end the attempt on tier 1, calls=%d", stub.calls)
	}
}

func TestRespond_EmptyCompletionFallsThrough(t *testing.T) {
	stub := &stubProvider{name: "alpha", generate: func(context.Context, *GenerationRequest) (*GenerationResult, error) {
		return &GenerationResult{Kind: ResultPlainText, Text: "   "}, nil
	}}
	o := newTestOrchestrator(defaultLimit(), stub)

	reply, err := o.Respond(context.Background(), "user_1", "say something useful", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Source != "fallback" {
		t.Fatalf("blank completions should exhaust the provider, got %s", reply.Source)
	}
	if stub.calls != 3 {
		t.Fatalf("expected all 3 tiers attempted, got %d", stub.calls)
	}
}

func TestRespond_FallbackAnswerIsCached(t *testing.T) {
	o := newTestOrchestrator(defaultLimit())

	first, err := o.Respond(context.Background(), "user_1", "explain entropy to me", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := o.Respond(context.Background(), "user_1", "explain entropy to me", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("fallback answers must be cached like provider answers")
	}
	if second.Text != first.Text {
		t.Fatalf("cached text mismatch: %q vs %q", second.Text, first.Text)
	}
}

// ══════════════════════════════════════════════
// Engine wiring tests
// ══════════════════════════════════════════════

func TestNewEngine_EndToEndWithoutProviders(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig(), nil, nil)

	reply, err := engine.Respond(context.Background(), "user_1", "hello!", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text == "" {
		t.Fatal("engine must always answer")
	}
	if reply.Source != "fallback" {
		t.Fatalf("no providers configured, expected fallback, got %s", reply.Source)
	}
}
