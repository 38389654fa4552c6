package fusion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-profiler-go/internal/types"
)

func fullCleanPayload() map[string]any {
	traits := func(names []string) map[string]any {
		fam := map[string]any{}
		for _, n := range names {
			fam[n] = map[string]any{
				"score":     float64(6),
				"rationale": "klient mówił o " + n,
				"strategy":  "odnieś się do " + n,
			}
		}
		return fam
	}
	return map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five":        traits(bigFiveTraits),
			"disc":            traits(discTraits),
			"schwartz_values": []any{"bezpieczeństwo", "osiągnięcia"},
		},
	}
}

func TestRepairNullScoreFallsBackToDefault(t *testing.T) {
	raw := map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness": map[string]any{"score": nil},
			},
		},
	}

	rep := Repair(raw, nil)

	entry := rep.Profile.BigFive["openness"]
	assert.Equal(t, defaultTraitScore, entry.Score)
	assert.NotEmpty(t, entry.Rationale)
	assert.NotEmpty(t, entry.Strategy)
	assert.True(t, rep.Repaired())
	assert.Contains(t, rep.DefaultedTraits, "big_five:openness")
	assert.Equal(t, 0.0, rep.Completeness)
}

func TestRepairEmitsEveryCanonicalTrait(t *testing.T) {
	rep := Repair(nil, nil)

	require.Len(t, rep.Profile.BigFive, len(bigFiveTraits))
	require.Len(t, rep.Profile.DISC, len(discTraits))
	for _, fam := range []types.TraitFamily{rep.Profile.BigFive, rep.Profile.DISC} {
		for name, entry := range fam {
			assert.Equal(t, defaultTraitScore, entry.Score, name)
			assert.Equal(t, placeholderText, entry.Rationale, name)
		}
	}
}

func TestRepairKeepsPriorScoreOverDefault(t *testing.T) {
	prior := &types.CumulativeProfile{
		BigFive: types.TraitFamily{
			"openness": {Score: 8, Rationale: "wcześniejsza ocena", Strategy: "jak dotąd"},
		},
	}
	raw := map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness": map[string]any{"score": float64(14)}, // out of range
			},
		},
	}

	rep := Repair(raw, prior)

	assert.Equal(t, 8, rep.Profile.BigFive["openness"].Score)
	assert.NotContains(t, rep.DefaultedTraits, "big_five:openness")
}

func TestRepairCleanPayloadIsUntouched(t *testing.T) {
	rep := Repair(fullCleanPayload(), nil)

	assert.False(t, rep.Repaired())
	assert.Equal(t, 1.0, rep.Completeness)
	assert.Equal(t, 6, rep.Profile.BigFive["openness"].Score)
	assert.Len(t, rep.CleanTraits, len(bigFiveTraits)+len(discTraits))
}

func TestRepairIsIdempotent(t *testing.T) {
	messy := map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness":     map[string]any{"score": "wysoki"},
				"neuroticism":  map[string]any{"score": float64(7)},
				"extraversion": "nie obiekt",
			},
			"disc":            []any{"zły", "kontener"},
			"schwartz_values": []any{"bezpieczeństwo", "bezpieczeństwo", float64(3)},
		},
	}

	first := Repair(messy, nil)

	// Round-trip the repaired profile back through JSON the way a caller
	// would persist and resubmit it.
	data, err := json.Marshal(first.Profile)
	require.NoError(t, err)
	var echoed map[string]any
	require.NoError(t, json.Unmarshal(data, &echoed))

	second := Repair(map[string]any{"cumulative_psychology": echoed}, nil)

	assert.Equal(t, first.Profile, second.Profile)
	assert.False(t, second.Repaired())
}

func TestRepairSchwartzCoercion(t *testing.T) {
	raw := map[string]any{
		"cumulative_psychology": map[string]any{
			"schwartz_values": []any{"tradycja", float64(1), "hedonizm", "tradycja", nil},
		},
	}

	rep := Repair(raw, nil)

	assert.Equal(t, []string{"tradycja", "hedonizm"}, rep.Profile.SchwartzValues)
}

func TestRepairDiscardsWrongContainers(t *testing.T) {
	rep := Repair(map[string]any{"cumulative_psychology": "nie-obiekt"}, nil)

	assert.True(t, rep.Repaired())
	assert.Len(t, rep.Profile.BigFive, len(bigFiveTraits))
	assert.Empty(t, rep.Profile.SchwartzValues)
}

func TestRepairRoundsFractionalScores(t *testing.T) {
	raw := map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness": map[string]any{
					"score":     7.6,
					"rationale": "r",
					"strategy":  "s",
				},
			},
		},
	}

	rep := Repair(raw, nil)

	assert.Equal(t, 8, rep.Profile.BigFive["openness"].Score)
	assert.True(t, rep.Repaired())
}

func TestRepairPreservesUnknownFamilies(t *testing.T) {
	raw := fullCleanPayload()
	raw["cumulative_psychology"].(map[string]any)["attachment"] = map[string]any{"style": "secure"}

	rep := Repair(raw, nil)

	require.Contains(t, rep.Profile.Extra, "attachment")

	data, err := json.Marshal(rep.Profile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "attachment")
}

func TestRepairScoresAlwaysInBounds(t *testing.T) {
	raw := map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness":      map[string]any{"score": float64(-3)},
				"agreeableness": map[string]any{"score": float64(400)},
			},
		},
	}

	rep := Repair(raw, nil)

	for name, entry := range rep.Profile.BigFive {
		assert.GreaterOrEqual(t, entry.Score, 0, name)
		assert.LessOrEqual(t, entry.Score, 10, name)
	}
}
