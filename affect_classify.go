package empath

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Emotion classification — VAD cube regions
// ──────────────────────────────────────────────
//
// Each catalog emotion owns a box in the (valence, arousal, dominance)
// cube. Classification runs a few high-confidence shortcut rules on the
// coarse regions first, then scores every candidate by how close the
// vector sits to its box center, weighted by the emotion's family.

// EmotionFamily selects the dimension weighting used when matching.
type EmotionFamily string

const (
	// FamilyHedonic emotions are primarily about valence (joy, sadness).
	FamilyHedonic EmotionFamily = "hedonic"
	// FamilyEnergy emotions are primarily about arousal (excitement, boredom).
	FamilyEnergy EmotionFamily = "energy"
	// FamilyPower emotions are primarily about dominance (anger, fear).
	FamilyPower EmotionFamily = "power"
)

// EmotionRegion defines one catalog emotion's VAD box.
type EmotionRegion struct {
	Emotion    Emotion       `yaml:"emotion"`
	ValenceMin float64       `yaml:"valence_min"`
	ValenceMax float64       `yaml:"valence_max"`
	ArousalMin float64       `yaml:"arousal_min"`
	ArousalMax float64       `yaml:"arousal_max"`
	DomMin     float64       `yaml:"dominance_min"`
	DomMax     float64       `yaml:"dominance_max"`
	BaseWeight float64       `yaml:"base_weight"`
	Family     EmotionFamily `yaml:"family"`
}

// DefaultEmotionCatalog returns the built-in emotion-region catalog.
func DefaultEmotionCatalog() []EmotionRegion {
	return []EmotionRegion{
		{EmotionJoy, 0.3, 1.0, 0.0, 0.7, 0.0, 0.8, 1.0, FamilyHedonic},
		{EmotionExcitement, 0.4, 1.0, 0.6, 1.0, 0.1, 1.0, 1.0, FamilyEnergy},
		{EmotionCalm, 0.1, 0.8, -1.0, -0.1, 0.0, 0.6, 0.9, FamilyHedonic},
		{EmotionGratitude, 0.4, 1.0, -0.2, 0.5, -0.3, 0.4, 0.85, FamilyHedonic},
		{EmotionAnger, -1.0, -0.3, 0.4, 1.0, 0.3, 1.0, 1.0, FamilyPower},
		{EmotionFrustration, -0.9, -0.2, 0.1, 0.8, -0.4, 0.4, 0.9, FamilyPower},
		{EmotionFear, -1.0, -0.3, 0.4, 1.0, -1.0, -0.3, 1.0, FamilyPower},
		{EmotionAnxiety, -0.8, -0.1, 0.3, 0.9, -0.8, -0.1, 0.85, FamilyEnergy},
		{EmotionSadness, -1.0, -0.3, -1.0, 0.1, -1.0, 0.0, 1.0, FamilyHedonic},
		{EmotionBoredom, -0.5, 0.0, -1.0, -0.4, -0.5, 0.2, 0.7, FamilyEnergy},
		{EmotionConfusion, -0.5, 0.1, 0.0, 0.6, -0.8, -0.1, 0.8, FamilyPower},
		{EmotionInterest, 0.1, 0.6, 0.1, 0.6, -0.2, 0.5, 0.8, FamilyEnergy},
		{EmotionSurprise, -0.2, 0.6, 0.5, 1.0, -0.5, 0.3, 0.75, FamilyEnergy},
		{EmotionNeutral, -0.15, 0.15, -0.15, 0.15, -0.15, 0.15, 0.5, FamilyHedonic},
	}
}

// LoadEmotionCatalog reads an emotion-region catalog from a YAML file.
func LoadEmotionCatalog(path string) ([]EmotionRegion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read emotion catalog: %w", err)
	}
	var catalog []EmotionRegion
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse emotion catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("emotion catalog %s defines no regions", path)
	}
	for i := range catalog {
		if catalog[i].BaseWeight <= 0 {
			catalog[i].BaseWeight = 0.5
		}
	}
	return catalog, nil
}

// familyWeights returns per-dimension weights for a family.
func familyWeights(f EmotionFamily) (wv, wa, wd float64) {
	switch f {
	case FamilyEnergy:
		return 0.25, 0.5, 0.25
	case FamilyPower:
		return 0.25, 0.25, 0.5
	default:
		return 0.5, 0.25, 0.25
	}
}

const (
	classifyScoreFloor    = 0.3
	allInRangeBonus       = 0.15
	secondaryDistanceCeil = 0.85
)

// classifyPrimary assigns the primary emotion label for a VAD vector.
func classifyPrimary(score AffectScore, catalog []EmotionRegion) Emotion {
	v, a, d := score.Valence, score.Arousal, score.Dominance

	// Shortcut rules on coarse regions.
	switch {
	case math.Abs(v) < 0.12 && math.Abs(a) < 0.12 && math.Abs(d) < 0.12:
		return EmotionNeutral
	case v >= 0.5 && a >= 0.5:
		return EmotionExcitement
	case v <= -0.5 && a >= 0.5 && d >= 0.3:
		return EmotionAnger
	case v <= -0.5 && a >= 0.5 && d <= -0.3:
		return EmotionFear
	case v <= -0.5 && a <= -0.2:
		return EmotionSadness
	case v >= 0.5 && a <= -0.2:
		return EmotionCalm
	}

	best, bestScore := EmotionNeutral, 0.0
	for _, region := range catalog {
		s, ok := regionMatchScore(v, a, d, region)
		if !ok {
			continue
		}
		if s > bestScore {
			bestScore = s
			best = region.Emotion
		}
	}

	if bestScore < classifyScoreFloor {
		// Valence-sign default when nothing matches convincingly.
		switch {
		case v > 0.1:
			return EmotionInterest
		case v < -0.1:
			return EmotionConfusion
		default:
			return EmotionNeutral
		}
	}
	return best
}

// regionMatchScore computes the weighted-center-distance match for one
// candidate. At least two of three dimensions must fall inside the box.
func regionMatchScore(v, a, d float64, region EmotionRegion) (float64, bool) {
	dims := []struct {
		x, min, max float64
	}{
		{v, region.ValenceMin, region.ValenceMax},
		{a, region.ArousalMin, region.ArousalMax},
		{d, region.DomMin, region.DomMax},
	}

	inRange := 0
	match := make([]float64, 3)
	for i, dim := range dims {
		center := (dim.min + dim.max) / 2
		half := (dim.max - dim.min) / 2
		if half == 0 {
			half = 0.01
		}
		dist := math.Abs(dim.x-center) / half
		if dim.x >= dim.min && dim.x <= dim.max {
			inRange++
		}
		if dist > 1 {
			dist = 1
		}
		match[i] = 1 - dist
	}
	if inRange < 2 {
		return 0, false
	}

	wv, wa, wd := familyWeights(region.Family)
	score := (match[0]*wv + match[1]*wa + match[2]*wd) * region.BaseWeight
	if inRange == 3 {
		score += allInRangeBonus
	}
	return score, true
}

// classifySecondary picks the closest-by-distance non-primary candidate
// whose box still covers at least two dimensions, under a distance ceiling.
func classifySecondary(score AffectScore, catalog []EmotionRegion, primary Emotion) Emotion {
	v, a, d := score.Valence, score.Arousal, score.Dominance

	best := Emotion("")
	bestDist := secondaryDistanceCeil
	for _, region := range catalog {
		if region.Emotion == primary || region.Emotion == EmotionNeutral {
			continue
		}
		if _, ok := regionMatchScore(v, a, d, region); !ok {
			continue
		}
		cv := (region.ValenceMin + region.ValenceMax) / 2
		ca := (region.ArousalMin + region.ArousalMax) / 2
		cd := (region.DomMin + region.DomMax) / 2
		dist := math.Sqrt((v-cv)*(v-cv) + (a-ca)*(a-ca) + (d-cd)*(d-cd))
		if dist < bestDist {
			bestDist = dist
			best = region.Emotion
		}
	}
	return best
}
