package fusion

import (
	"math"

	"sales-profiler-go/internal/types"
)

const scoreEpsilon = 1e-9

// Synthesize maps the merged trait profile onto one archetype from the
// fixed catalogue. It returns nil while fewer than three interactions
// have been fused; callers must treat that as "insufficient data",
// distinct from the explicit neutral sentinel. Ties and weak signals
// resolve to neutral.
func Synthesize(profile types.CumulativeProfile, interactionCount, psychologyConfidence int) *types.CustomerArchetype {
	if interactionCount < archetypeMinInteractions {
		return nil
	}

	best := archetypeRule{}
	bestScore := math.Inf(-1)
	tie := false
	for _, rule := range archetypeCatalogue {
		s := rule.score(profile)
		switch {
		case s > bestScore+scoreEpsilon:
			best, bestScore, tie = rule, s, false
		case math.Abs(s-bestScore) <= scoreEpsilon:
			tie = true
		}
	}

	key, advisory := best.key, best.advisory
	if tie || bestScore < archetypeSignalFloor {
		key, advisory = ArchetypeNeutral, neutralAdvisory
	}

	// The archetype is always presented as less certain than the trait
	// reads themselves until the session converges.
	confidence := psychologyConfidence
	if interactionCount <= diminishAfter {
		confidence -= archetypeConfidenceMargin
		if confidence < 0 {
			confidence = 0
		}
	}

	return &types.CustomerArchetype{
		ArchetypeKey: key,
		Confidence:   confidence,
		Advisory:     advisory,
	}
}

// score is the weighted sum of normalized trait reads, where a score of 5
// is the neutral midpoint. Weights are ordered so the sum is reproducible.
func (r archetypeRule) score(p types.CumulativeProfile) float64 {
	total := 0.0
	for _, tw := range r.weights {
		total += tw.weight * normalizedTrait(p, tw.trait)
	}
	return total
}

func normalizedTrait(p types.CumulativeProfile, trait string) float64 {
	if e, ok := p.BigFive[trait]; ok {
		return (float64(e.Score) - defaultTraitScore) / defaultTraitScore
	}
	if e, ok := p.DISC[trait]; ok {
		return (float64(e.Score) - defaultTraitScore) / defaultTraitScore
	}
	return 0
}
