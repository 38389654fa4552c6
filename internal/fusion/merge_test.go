package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-profiler-go/internal/types"
)

func TestMergeBlendsScoresTowardIncoming(t *testing.T) {
	prior := &types.CumulativeProfile{
		BigFive: types.TraitFamily{
			"openness": {Score: 4, Rationale: "stara ocena", Strategy: "stara strategia"},
		},
	}
	incoming := types.CumulativeProfile{
		BigFive: types.TraitFamily{
			"openness": {Score: 9, Rationale: "nowa ocena", Strategy: "nowa strategia"},
		},
	}

	merged := Merge(prior, incoming)

	// 0.6*9 + 0.4*4 = 7 (rounded)
	assert.Equal(t, 7, merged.BigFive["openness"].Score)
	assert.Equal(t, "nowa ocena", merged.BigFive["openness"].Rationale)
	assert.Equal(t, "nowa strategia", merged.BigFive["openness"].Strategy)
}

func TestMergeNilPriorReturnsIncoming(t *testing.T) {
	incoming := types.CumulativeProfile{
		BigFive: types.TraitFamily{"openness": {Score: 6, Rationale: "r", Strategy: "s"}},
	}
	assert.Equal(t, incoming, Merge(nil, incoming))
}

func TestMergeKeepsOneSidedTraits(t *testing.T) {
	prior := &types.CumulativeProfile{
		DISC: types.TraitFamily{"dominance": {Score: 8, Rationale: "r", Strategy: "s"}},
	}
	incoming := types.CumulativeProfile{
		BigFive: types.TraitFamily{"openness": {Score: 3, Rationale: "r", Strategy: "s"}},
	}

	merged := Merge(prior, incoming)

	assert.Equal(t, 8, merged.DISC["dominance"].Score)
	assert.Equal(t, 3, merged.BigFive["openness"].Score)
}

func TestMergeSchwartzKeepsSalienceOrder(t *testing.T) {
	prior := &types.CumulativeProfile{SchwartzValues: []string{"bezpieczeństwo", "tradycja"}}
	incoming := types.CumulativeProfile{SchwartzValues: []string{"tradycja", "osiągnięcia"}}

	merged := Merge(prior, incoming)

	assert.Equal(t, []string{"bezpieczeństwo", "tradycja", "osiągnięcia"}, merged.SchwartzValues)
}

func TestMergeIsDeterministic(t *testing.T) {
	prior := &types.CumulativeProfile{
		BigFive:        types.TraitFamily{"openness": {Score: 2, Rationale: "r", Strategy: "s"}},
		SchwartzValues: []string{"władza"},
	}
	incoming := types.CumulativeProfile{
		BigFive:        types.TraitFamily{"openness": {Score: 10, Rationale: "r2", Strategy: "s2"}},
		SchwartzValues: []string{"hedonizm"},
	}

	assert.Equal(t, Merge(prior, incoming), Merge(prior, incoming))
}

func TestMergeScoresStayInBounds(t *testing.T) {
	prior := &types.CumulativeProfile{
		BigFive: types.TraitFamily{"openness": {Score: 10, Rationale: "r", Strategy: "s"}},
	}
	incoming := types.CumulativeProfile{
		BigFive: types.TraitFamily{"openness": {Score: 10, Rationale: "r", Strategy: "s"}},
	}

	merged := Merge(prior, incoming)
	assert.Equal(t, 10, merged.BigFive["openness"].Score)
}
