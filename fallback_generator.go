package empath

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// ──────────────────────────────────────────────
// Fallback Generator — local deterministic reply synthesis
// ──────────────────────────────────────────────
//
// The generator is the orchestrator's last resort: no I/O, no external
// dependency, always returns non-empty text. Randomized template picks go
// through an injectable *rand.Rand so tests can pin the output.

// FallbackConfig controls the probabilistic template gates.
type FallbackConfig struct {
	// AckProbability gates the emotional-acknowledgment sentence.
	// Not always shown, to avoid robotic repetition. Default 0.6.
	AckProbability float64
	// ElaborationProbability gates the emotion-specific elaboration
	// sentence. Default 0.4.
	ElaborationProbability float64
}

// DefaultFallbackConfig returns production defaults.
func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		AckProbability:         0.6,
		ElaborationProbability: 0.4,
	}
}

// FallbackGenerator synthesizes replies from topic tables, emotional
// acknowledgments and the user's own writing style.
type FallbackGenerator struct {
	config FallbackConfig
	topics []TopicRule

	mu  sync.Mutex
	rng *rand.Rand
}

// FallbackOption customizes a generator at construction.
type FallbackOption func(*FallbackGenerator)

// WithRand injects a deterministic random source.
func WithRand(rng *rand.Rand) FallbackOption {
	return func(g *FallbackGenerator) { g.rng = rng }
}

// WithTopicTable replaces the built-in topic table.
func WithTopicTable(table []TopicRule) FallbackOption {
	return func(g *FallbackGenerator) { g.topics = table }
}

// NewFallbackGenerator creates a generator. Without WithRand it seeds
// from the global source.
func NewFallbackGenerator(config FallbackConfig, opts ...FallbackOption) *FallbackGenerator {
	g := &FallbackGenerator{
		config: config,
		topics: DefaultTopicTable(),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var (
	pureGreetingRe = regexp.MustCompile(`(?i)^\s*(hi+|hey+|hello+|yo+|sup|howdy|hiya|good (morning|afternoon|evening))[\s!.?]*$`)
	helpRequestRe  = regexp.MustCompile(`(?i)^\s*(help|help me|can you help( me)?|i need help)[\s!.?]*$`)
	howAreYouRe    = regexp.MustCompile(`(?i)\bhow are you\b|\bhow('?s| is) it going\b|\bhow do you do\b`)
)

var greetingReplies = []string{
	"Hey! Good to see you. What's on your mind?",
	"Hi there. What are we getting into today?",
	"Hey hey. What's up?",
}

var helpReplies = []string{
	"Of course. Tell me what you're stuck on and we'll work through it.",
	"Happy to help. Give me the details and let's sort it out.",
}

var howAreYouReplies = []string{
	"Doing well, thanks for asking. More importantly, how are you doing?",
	"Can't complain. What about you, how's your day going?",
}

// Generate produces a reply for text given its affect score and the
// user's recent message history. Total: every branch has a default.
func (g *FallbackGenerator) Generate(text string, affect AffectScore, history []string) string {
	profile := ProfileStyle(text, history)

	g.mu.Lock()
	reply := g.compose(text, affect)
	reply = g.mirrorStyle(reply, profile)
	g.mu.Unlock()

	reply = filterEndearments(reply, text)
	if strings.TrimSpace(reply) == "" {
		// Should be unreachable; the general topic bucket always yields
		// text. Kept as a hard floor.
		reply = "Tell me more about that."
	}
	return reply
}

// compose builds the unmirrored reply. Caller holds g.mu.
func (g *FallbackGenerator) compose(text string, affect AffectScore) string {
	// Shortcut cases run before the general path.
	switch {
	case pureGreetingRe.MatchString(text):
		return g.pick(greetingReplies)
	case helpRequestRe.MatchString(text):
		return g.pick(helpReplies)
	case howAreYouRe.MatchString(text):
		return g.pick(howAreYouReplies)
	}

	var parts []string

	if g.rng.Float64() < g.config.AckProbability {
		parts = append(parts, g.pick(ackPool(affect.Valence)))
	}

	if pool, ok := emotionElaborations[affect.Primary]; ok {
		if g.rng.Float64() < g.config.ElaborationProbability {
			parts = append(parts, g.pick(pool))
		}
	}

	mainTopic := detectTopic(text, g.topics)
	parts = append(parts, g.pick(mainTopic.Paragraphs))
	parts = append(parts, g.pick(continuationPrompts))

	return strings.Join(parts, " ")
}

func ackPool(valence float64) []string {
	switch {
	case valence > 0.15:
		return positiveAcks
	case valence < -0.15:
		return negativeAcks
	default:
		return neutralAcks
	}
}

// pick selects uniformly from a pool. Caller holds g.mu.
func (g *FallbackGenerator) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[g.rng.Intn(len(pool))]
}
