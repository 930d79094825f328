package empath

import (
	"regexp"
	"strings"
	"unicode"
)

// ──────────────────────────────────────────────
// Affect Scorer — deterministic lexical VAD scoring
// ──────────────────────────────────────────────
//
// Score converts free text into a valence/arousal/dominance vector plus a
// discrete emotion label. It is a total function: every input, including
// empty text, produces a score. There is no randomness anywhere in this
// path, so Score(t) == Score(t) always holds.

// Emotion is a categorical emotion label.
type Emotion string

const (
	EmotionJoy         Emotion = "joy"
	EmotionExcitement  Emotion = "excitement"
	EmotionCalm        Emotion = "calm"
	EmotionGratitude   Emotion = "gratitude"
	EmotionAnger       Emotion = "anger"
	EmotionFrustration Emotion = "frustration"
	EmotionFear        Emotion = "fear"
	EmotionAnxiety     Emotion = "anxiety"
	EmotionSadness     Emotion = "sadness"
	EmotionBoredom     Emotion = "boredom"
	EmotionConfusion   Emotion = "confusion"
	EmotionInterest    Emotion = "interest"
	EmotionSurprise    Emotion = "surprise"
	EmotionNeutral     Emotion = "neutral"
)

// AffectScore is the result of scoring one piece of text.
// All dimensions are clamped to [-1, 1]; Confidence to [0, 0.95].
type AffectScore struct {
	Valence    float64 `json:"valence"`
	Arousal    float64 `json:"arousal"`
	Dominance  float64 `json:"dominance"`
	Primary    Emotion `json:"primary_emotion"`
	Secondary  Emotion `json:"secondary_emotion,omitempty"` // "" = none
	Confidence float64 `json:"confidence"`
}

// AffectConfig holds the scorer's tunables. The negation constants and
// thresholds are empirically chosen; they are exposed here rather than
// hard-coded so they can be recalibrated against a labeled set.
type AffectConfig struct {
	// ShoutRatio is the minimum uppercase-letter ratio for the all-caps
	// "shouting" signal. Default 0.6.
	ShoutRatio float64
	// NegationInversion scales a negated valence contribution after the
	// sign flip. Default 0.8.
	NegationInversion float64
	// NegationRedamp further dampens contributions that flipped from
	// negative to positive ("not terrible" is not praise). Default 0.7.
	NegationRedamp float64
	// ShortInputWeightFloor triggers the short-utterance table when the
	// accumulated weight stays below it. Default 0.4.
	ShortInputWeightFloor float64
	// ShortInputMaxWords bounds the short-input heuristics. Default 3.
	ShortInputMaxWords int
}

// DefaultAffectConfig returns the production defaults.
func DefaultAffectConfig() AffectConfig {
	return AffectConfig{
		ShoutRatio:            0.6,
		NegationInversion:     0.8,
		NegationRedamp:        0.7,
		ShortInputWeightFloor: 0.4,
		ShortInputMaxWords:    3,
	}
}

// AffectScorer scores text against a compiled lexicon and an emotion
// catalog. Safe for concurrent use: all state is read-only after New.
type AffectScorer struct {
	config   AffectConfig
	signals  []compiledSignal
	negators *regexp.Regexp
	shorts   []ShortUtterance
	catalog  []EmotionRegion
}

// AffectScorerOption customizes a scorer at construction.
type AffectScorerOption func(*AffectScorer)

// WithLexicon replaces the built-in lexicon.
func WithLexicon(lex *Lexicon) AffectScorerOption {
	return func(s *AffectScorer) {
		s.signals = compileLexicon(lex)
		s.negators = compileNegators(lex.Negators)
		s.shorts = lex.ShortUtterances
	}
}

// WithEmotionCatalog replaces the built-in emotion-region catalog.
func WithEmotionCatalog(catalog []EmotionRegion) AffectScorerOption {
	return func(s *AffectScorer) { s.catalog = catalog }
}

// NewAffectScorer creates a scorer with the default lexicon and catalog.
func NewAffectScorer(config AffectConfig, opts ...AffectScorerOption) *AffectScorer {
	lex := DefaultLexicon()
	s := &AffectScorer{
		config:   config,
		signals:  compileLexicon(lex),
		negators: compileNegators(lex.Negators),
		shorts:   lex.ShortUtterances,
		catalog:  DefaultEmotionCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// neutralDefault is returned for empty or whitespace-only input.
func neutralDefault() AffectScore {
	return AffectScore{Primary: EmotionNeutral, Confidence: 0.05}
}

// contribution is one weighted VAD tuple in the accumulation.
type contribution struct {
	v, a, d, w float64
}

// Score computes the AffectScore for text. Never fails, never blocks.
func (s *AffectScorer) Score(text string) AffectScore {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return neutralDefault()
	}

	lower := strings.ToLower(trimmed)
	words := strings.Fields(lower)

	var contribs []contribution

	// 1. Punctuation / structural signals
	contribs = append(contribs, s.structuralSignals(trimmed)...)

	// 2. Lexical + emoticon signals, with negation handling
	contribs = append(contribs, s.lexicalSignals(lower)...)

	// 3. Short-input heuristics
	totalW := 0.0
	for _, c := range contribs {
		totalW += c.w
	}
	if totalW < s.config.ShortInputWeightFloor && len(words) <= s.config.ShortInputMaxWords {
		if c, ok := s.matchShortUtterance(words); ok {
			contribs = append(contribs, c)
		} else {
			// Unmatched short text leans mildly curious rather than
			// collapsing to exact zero.
			contribs = append(contribs, contribution{v: 0.05, a: 0.1, d: 0, w: 0.3})
		}
	}

	// 4. Weighted centroid + clamp
	score := centroid(contribs)
	score.Valence = clamp1(score.Valence)
	score.Arousal = clamp1(score.Arousal)
	score.Dominance = clamp1(score.Dominance)

	// 5-6. Classification
	score.Primary = classifyPrimary(score, s.catalog)
	score.Secondary = classifySecondary(score, s.catalog, score.Primary)

	// 7. Confidence
	accumulated := 0.0
	for _, c := range contribs {
		accumulated += c.w
	}
	score.Confidence = confidence(accumulated, len(words), score.Primary)

	return score
}

func (s *AffectScorer) structuralSignals(original string) []contribution {
	var out []contribution

	exclaims := strings.Count(original, "!")
	if exclaims > 0 {
		multi := float64(exclaims)
		if multi > 3 {
			multi = 3
		}
		out = append(out, contribution{v: 0.1 * multi, a: 0.2 * multi, d: 0.1, w: 0.3 * multi})
	}

	questions := strings.Count(original, "?")
	if questions >= 2 {
		out = append(out, contribution{v: -0.1, a: 0.3, d: -0.2, w: 0.5})
	}

	if strings.Contains(original, "...") || strings.Contains(original, "…") {
		out = append(out, contribution{v: -0.2, a: -0.3, d: -0.2, w: 0.5})
	}

	if s.isShouting(original) {
		out = append(out, contribution{v: 0, a: 0.5, d: 0.3, w: 0.8})
	}

	return out
}

// isShouting reports whether the original text reads as all-caps shouting:
// more than 3 characters, at least one letter, and an uppercase ratio
// above ShoutRatio.
func (s *AffectScorer) isShouting(original string) bool {
	if len(original) <= 3 {
		return false
	}
	letters, uppers := 0, 0
	for _, r := range original {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters == 0 {
		return false
	}
	return float64(uppers)/float64(letters) > s.config.ShoutRatio
}

func (s *AffectScorer) lexicalSignals(lower string) []contribution {
	var out []contribution
	negations := s.negatorPositions(lower)

	for _, cs := range s.signals {
		e := cs.entry
		if cs.re == nil {
			// Glyph entries: one contribution per occurrence, capped at 3.
			n := strings.Count(lower, strings.ToLower(e.Pattern))
			if n > 3 {
				n = 3
			}
			for i := 0; i < n; i++ {
				out = append(out, contribution{v: e.Valence, a: e.Arousal, d: e.Dominance, w: e.Weight})
			}
			continue
		}

		for _, loc := range cs.re.FindAllStringIndex(lower, -1) {
			c := contribution{v: e.Valence, a: e.Arousal, d: e.Dominance, w: e.Weight}
			if s.isNegated(lower, loc[0], negations) {
				c.v = -c.v * s.config.NegationInversion
				if c.v > 0 {
					// Flipped negative→positive reads weaker than a
					// genuinely positive word.
					c.v *= s.config.NegationRedamp
				}
			}
			out = append(out, c)
		}
	}
	return out
}

// negatorPositions returns the start offsets of every negator token.
func (s *AffectScorer) negatorPositions(lower string) []int {
	if s.negators == nil {
		return nil
	}
	locs := s.negators.FindAllStringIndex(lower, -1)
	out := make([]int, len(locs))
	for i, l := range locs {
		out[i] = l[0]
	}
	return out
}

// isNegated reports whether a negator precedes position pos within the
// same clause (clauses end at '.', '!' or '?').
func (s *AffectScorer) isNegated(lower string, pos int, negations []int) bool {
	clauseStart := 0
	for i := pos - 1; i >= 0; i-- {
		if lower[i] == '.' || lower[i] == '!' || lower[i] == '?' {
			clauseStart = i + 1
			break
		}
	}
	for _, n := range negations {
		if n >= clauseStart && n < pos {
			return true
		}
	}
	return false
}

func (s *AffectScorer) matchShortUtterance(words []string) (contribution, bool) {
	for _, w := range words {
		token := strings.Trim(w, ".,!?;:'\"")
		for _, su := range s.shorts {
			for _, t := range su.Tokens {
				if token == t {
					return contribution{v: su.Valence, a: su.Arousal, d: su.Dominance, w: su.Weight}, true
				}
			}
		}
	}
	return contribution{}, false
}

// centroid computes the weighted centroid of all contributions.
// Division by total weight, not by count: heavy signals dominate.
func centroid(contribs []contribution) AffectScore {
	var sv, sa, sd, sw float64
	for _, c := range contribs {
		sv += c.v * c.w
		sa += c.a * c.w
		sd += c.d * c.w
		sw += c.w
	}
	if sw == 0 {
		return AffectScore{}
	}
	return AffectScore{Valence: sv / sw, Arousal: sa / sw, Dominance: sd / sw}
}

// confidence grows with accumulated signal weight and word count, gets a
// small bump for a non-neutral label, and is capped at 0.95.
func confidence(totalWeight float64, wordCount int, primary Emotion) float64 {
	conf := totalWeight / (totalWeight + 1.5)
	wordFactor := 0.6 + float64(wordCount)/25.0
	if wordFactor > 1 {
		wordFactor = 1
	}
	conf *= wordFactor
	if primary != EmotionNeutral {
		conf += 0.1
	}
	if conf > 0.95 {
		conf = 0.95
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
