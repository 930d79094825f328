package empath

import (
	"testing"
)

// ══════════════════════════════════════════════
// AffectScorer tests
// ══════════════════════════════════════════════

func newTestScorer() *AffectScorer {
	return NewAffectScorer(DefaultAffectConfig())
}

func TestScore_EmptyInput(t *testing.T) {
	scorer := newTestScorer()

	for _, input := range []string{"", "   ", "\n\t"} {
		score := scorer.Score(input)
		if score.Primary != EmotionNeutral {
			t.Fatalf("empty input %q: expected neutral, got %s", input, score.Primary)
		}
		if score.Confidence != 0.05 {
			t.Fatalf("empty input %q: expected confidence 0.05, got %f", input, score.Confidence)
		}
		if score.Valence != 0 || score.Arousal != 0 || score.Dominance != 0 {
			t.Fatalf("empty input %q: expected zero vector, got %+v", input, score)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	scorer := newTestScorer()
	inputs := []string{
		"I'm so happy today",
		"this is terrible",
		"WHY IS NOTHING WORKING",
		"hmm... not sure about this one",
		"thanks a lot!! :)",
	}
	for _, input := range inputs {
		a := scorer.Score(input)
		b := scorer.Score(input)
		if a != b {
			t.Fatalf("scoring %q is not deterministic: %+v vs %+v", input, a, b)
		}
	}
}

func TestScore_BoundsHold(t *testing.T) {
	scorer := newTestScorer()
	inputs := []string{
		"amazing amazing amazing amazing!!! I love love love it 🎉🎉🎉",
		"I hate this terrible horrible awful mess!!!",
		"ok",
		"why??? what??? how???",
		"AAAAAAAH",
		"I'm furious and enraged and livid, this is the worst",
	}
	for _, input := range inputs {
		score := scorer.Score(input)
		for name, dim := range map[string]float64{
			"valence": score.Valence, "arousal": score.Arousal, "dominance": score.Dominance,
		} {
			if dim < -1 || dim > 1 {
				t.Fatalf("%q: %s out of range: %f", input, name, dim)
			}
		}
		if score.Confidence < 0 || score.Confidence > 0.95 {
			t.Fatalf("%q: confidence out of range: %f", input, score.Confidence)
		}
		if score.Primary == "" {
			t.Fatalf("%q: missing primary emotion", input)
		}
	}
}

func TestScore_PositiveText(t *testing.T) {
	scorer := newTestScorer()
	score := scorer.Score("I'm so happy today")

	if score.Valence < 0.3 {
		t.Fatalf("expected clearly positive valence, got %f", score.Valence)
	}
	if score.Primary != EmotionJoy {
		t.Fatalf("expected joy, got %s", score.Primary)
	}
	if score.Confidence <= 0.2 {
		t.Fatalf("expected confidence above 0.2, got %f", score.Confidence)
	}
}

func TestScore_NegativeText(t *testing.T) {
	scorer := newTestScorer()
	score := scorer.Score("this is terrible")

	if score.Valence > -0.4 {
		t.Fatalf("expected clearly negative valence, got %f", score.Valence)
	}
}

func TestScore_FrustrationScenario(t *testing.T) {
	scorer := newTestScorer()
	score := scorer.Score("I'm sick of everything today")

	if score.Valence >= 0 {
		t.Fatalf("expected negative valence, got %f", score.Valence)
	}
	if score.Primary != EmotionFrustration {
		t.Fatalf("expected frustration, got %s", score.Primary)
	}
}

func TestScore_NegationFlipsValence(t *testing.T) {
	scorer := newTestScorer()

	plain := scorer.Score("this is amazing")
	negated := scorer.Score("this is not amazing")

	if negated.Valence >= plain.Valence {
		t.Fatalf("negation should lower valence: plain=%f negated=%f", plain.Valence, negated.Valence)
	}
	if negated.Valence >= 0 {
		t.Fatalf("'not amazing' should read negative, got %f", negated.Valence)
	}
}

func TestScore_NegatedNegativeIsDampened(t *testing.T) {
	scorer := newTestScorer()

	// "not terrible" flips positive but must stay well below genuine praise.
	notTerrible := scorer.Score("this is not terrible")
	amazing := scorer.Score("this is amazing")

	if notTerrible.Valence <= 0 {
		t.Fatalf("'not terrible' should read mildly positive, got %f", notTerrible.Valence)
	}
	if notTerrible.Valence >= amazing.Valence {
		t.Fatalf("'not terrible' (%f) should score below 'amazing' (%f)",
			notTerrible.Valence, amazing.Valence)
	}
}

func TestScore_NegationStopsAtClauseBoundary(t *testing.T) {
	scorer := newTestScorer()

	// The negator sits in the previous clause; "happy" must not flip.
	score := scorer.Score("I did not sleep. I am happy now")
	if score.Valence <= 0 {
		t.Fatalf("negation should not cross the sentence boundary, got valence %f", score.Valence)
	}
}

func TestScore_ShoutingRaisesArousal(t *testing.T) {
	scorer := newTestScorer()

	calm := scorer.Score("this is unacceptable")
	loud := scorer.Score("THIS IS UNACCEPTABLE")

	if loud.Arousal <= calm.Arousal {
		t.Fatalf("shouting should raise arousal: calm=%f loud=%f", calm.Arousal, loud.Arousal)
	}
}

func TestScore_ExclamationsRaiseArousal(t *testing.T) {
	scorer := newTestScorer()

	flat := scorer.Score("we won the game")
	excited := scorer.Score("we won the game!!!")

	if excited.Arousal <= flat.Arousal {
		t.Fatalf("exclamations should raise arousal: flat=%f excited=%f", flat.Arousal, excited.Arousal)
	}
}

func TestScore_ShortGreeting(t *testing.T) {
	scorer := newTestScorer()
	score := scorer.Score("hey")

	if score.Valence <= 0 {
		t.Fatalf("bare greeting should read mildly positive, got %f", score.Valence)
	}
	if score.Confidence >= 0.5 {
		t.Fatalf("short input should have modest confidence, got %f", score.Confidence)
	}
}

func TestScore_EmoticonSignal(t *testing.T) {
	scorer := newTestScorer()

	smiling := scorer.Score("see you tomorrow :)")
	frowning := scorer.Score("see you tomorrow :(")

	if smiling.Valence <= frowning.Valence {
		t.Fatalf("emoticons should separate valence: smile=%f frown=%f",
			smiling.Valence, frowning.Valence)
	}
}

func TestScore_ExcitementShortcut(t *testing.T) {
	scorer := newTestScorer()
	score := scorer.Score("I'm so excited and thrilled, this is amazing!!!")

	if score.Primary != EmotionExcitement {
		t.Fatalf("expected excitement, got %s", score.Primary)
	}
}

func TestScore_CustomLexicon(t *testing.T) {
	lex := &Lexicon{
		Signals: []SignalEntry{
			{Pattern: "splendid", Valence: 0.9, Arousal: 0.6, Dominance: 0.3, Weight: 1.0},
		},
		Negators: []string{"not"},
	}
	scorer := NewAffectScorer(DefaultAffectConfig(), WithLexicon(lex))

	custom := scorer.Score("what a splendid turn of events")
	if custom.Valence < 0.5 {
		t.Fatalf("custom signal should apply, got valence %f", custom.Valence)
	}

	// Built-in vocabulary is replaced, not merged.
	replaced := scorer.Score("this is a rather long amazing sentence overall")
	if replaced.Valence > 0.3 {
		t.Fatalf("default signals should be gone, got valence %f", replaced.Valence)
	}
}

// ══════════════════════════════════════════════
// Emotion classification tests
// ══════════════════════════════════════════════

func TestClassifyPrimary_Shortcuts(t *testing.T) {
	catalog := DefaultEmotionCatalog()
	cases := []struct {
		v, a, d float64
		want    Emotion
	}{
		{0.0, 0.05, -0.05, EmotionNeutral},
		{0.7, 0.7, 0.2, EmotionExcitement},
		{-0.7, 0.7, 0.5, EmotionAnger},
		{-0.7, 0.7, -0.5, EmotionFear},
		{-0.7, -0.4, -0.3, EmotionSadness},
		{0.6, -0.4, 0.2, EmotionCalm},
	}
	for _, c := range cases {
		got := classifyPrimary(AffectScore{Valence: c.v, Arousal: c.a, Dominance: c.d}, catalog)
		if got != c.want {
			t.Fatalf("classify(%.1f, %.1f, %.1f): expected %s, got %s", c.v, c.a, c.d, c.want, got)
		}
	}
}

func TestClassifyPrimary_RegionMatch(t *testing.T) {
	catalog := DefaultEmotionCatalog()

	got := classifyPrimary(AffectScore{Valence: -0.6, Arousal: 0.3, Dominance: -0.2}, catalog)
	if got != EmotionFrustration {
		t.Fatalf("expected frustration, got %s", got)
	}
}

func TestClassifySecondary_NeverPrimaryOrNeutral(t *testing.T) {
	catalog := DefaultEmotionCatalog()
	vectors := []AffectScore{
		{Valence: 0.7, Arousal: 0.4, Dominance: 0.3},
		{Valence: -0.6, Arousal: 0.3, Dominance: -0.2},
		{Valence: -0.5, Arousal: 0.6, Dominance: -0.5},
	}
	for _, vec := range vectors {
		primary := classifyPrimary(vec, catalog)
		secondary := classifySecondary(vec, catalog, primary)
		if secondary == primary {
			t.Fatalf("secondary must differ from primary %s", primary)
		}
		if secondary == EmotionNeutral {
			t.Fatal("secondary must never be neutral")
		}
	}
}
