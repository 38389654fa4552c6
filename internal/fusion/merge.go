package fusion

import (
	"math"

	"sales-profiler-go/internal/types"
)

// Merge fuses a validated incoming profile into the prior cumulative one.
// Scalar scores blend 60/40 toward the incoming read so a single noisy
// assessment cannot swing an established trait; qualitative text follows
// the most recent evidence. Pure and deterministic.
func Merge(prior *types.CumulativeProfile, incoming types.CumulativeProfile) types.CumulativeProfile {
	if prior == nil {
		return incoming
	}
	return types.CumulativeProfile{
		BigFive:        mergeFamily(prior.BigFive, incoming.BigFive),
		DISC:           mergeFamily(prior.DISC, incoming.DISC),
		SchwartzValues: mergeValues(prior.SchwartzValues, incoming.SchwartzValues),
		Extra:          mergeExtras(prior.Extra, incoming.Extra),
	}
}

func mergeFamily(prior, incoming types.TraitFamily) types.TraitFamily {
	if prior == nil && incoming == nil {
		return nil
	}
	out := make(types.TraitFamily, len(prior)+len(incoming))
	for trait, p := range prior {
		out[trait] = p
	}
	for trait, in := range incoming {
		p, had := prior[trait]
		if !had {
			out[trait] = in
			continue
		}
		blended := incomingBlendWeight*float64(in.Score) + (1-incomingBlendWeight)*float64(p.Score)
		out[trait] = types.TraitEntry{
			Score:     clampInt(int(math.Round(blended)), 0, 10),
			Rationale: in.Rationale,
			Strategy:  in.Strategy,
		}
	}
	return out
}

// mergeValues keeps the established salience order: prior entries first,
// then incoming ones not already present.
func mergeValues(prior, incoming []string) []string {
	if len(prior) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make([]string, 0, len(prior)+len(incoming))
	seen := make(map[string]bool, len(prior))
	for _, v := range prior {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range incoming {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func mergeExtras(prior, incoming map[string]any) map[string]any {
	if len(prior) == 0 && len(incoming) == 0 {
		return nil
	}
	out := make(map[string]any, len(prior)+len(incoming))
	for k, v := range prior {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
