package fusion

import (
	"encoding/json"
	"fmt"
	"math"

	"sales-profiler-go/internal/types"
)

// RepairAction records one normalization applied to the raw payload. The
// log exists for observability only and never drives control flow.
type RepairAction struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Old    any    `json:"old,omitempty"`
	New    any    `json:"new,omitempty"`
}

type RepairLog []RepairAction

// RepairResult is the tagged outcome of validation: an already-valid
// payload yields an empty log and completeness 1.
type RepairResult struct {
	Profile      types.CumulativeProfile
	Log          RepairLog
	Completeness float64 // fraction of expected fields that needed no repair

	// DefaultedTraits lists "family:trait" entries that had to be filled
	// with the fixed default because neither the payload nor the prior
	// profile carried evidence; these are the clarifying-question seeds.
	DefaultedTraits []string
	// CleanTraits lists "family:trait" entries the payload supplied
	// without any repair; they answer open clarifying questions.
	CleanTraits []string
}

func (r RepairResult) Repaired() bool { return len(r.Log) > 0 }

// Repair normalizes one raw profile-update payload into a structurally
// valid profile, filling gaps from the prior profile or from documented
// defaults. No input is rejected: the worst case is an entirely-default
// profile. Repairing valid output again is a no-op.
func Repair(raw any, prior *types.CumulativeProfile) RepairResult {
	r := &repairer{}
	payload := asMap(raw)

	psychRaw, present := payload["cumulative_psychology"]
	psych := asMap(psychRaw)
	if present && psych == nil {
		r.record("cumulative_psychology", "wrong container type, rebuilt from defaults", psychRaw, nil)
	}

	var profile types.CumulativeProfile
	profile.BigFive = r.repairFamily(types.FamilyBigFive, bigFiveTraits, psych[types.FamilyBigFive], priorFamily(prior, types.FamilyBigFive))
	profile.DISC = r.repairFamily(types.FamilyDISC, discTraits, psych[types.FamilyDISC], priorFamily(prior, types.FamilyDISC))
	profile.SchwartzValues = r.repairSchwartz(psych[types.FamilySchwartz])

	// Unknown trait families pass through uninterpreted.
	for k, v := range psych {
		switch k {
		case types.FamilyBigFive, types.FamilyDISC, types.FamilySchwartz:
		default:
			if profile.Extra == nil {
				profile.Extra = map[string]any{}
			}
			profile.Extra[k] = v
		}
	}

	expected := len(bigFiveTraits) + len(discTraits) + 1 // families + schwartz
	return RepairResult{
		Profile:         profile,
		Log:             r.log,
		Completeness:    float64(r.clean) / float64(expected),
		DefaultedTraits: r.defaulted,
		CleanTraits:     r.cleanTraits,
	}
}

type repairer struct {
	log         RepairLog
	clean       int
	defaulted   []string
	cleanTraits []string
}

func (r *repairer) record(path, reason string, oldVal, newVal any) {
	r.log = append(r.log, RepairAction{Path: path, Reason: reason, Old: oldVal, New: newVal})
}

func (r *repairer) repairFamily(famName string, canonical []string, famRaw any, prior types.TraitFamily) types.TraitFamily {
	fam := asMap(famRaw)
	if famRaw != nil && fam == nil {
		r.record(famName, "wrong container type, rebuilt from defaults", famRaw, nil)
	}

	out := make(types.TraitFamily, len(canonical))
	for _, trait := range canonical {
		out[trait] = r.repairTrait(famName, trait, fam[trait], prior, true)
	}
	// Non-canonical traits the producer supplied are kept, validated the
	// same way, but do not count toward completeness.
	for trait := range fam {
		if _, known := out[trait]; !known {
			out[trait] = r.repairTrait(famName, trait, fam[trait], prior, false)
		}
	}
	return out
}

func (r *repairer) repairTrait(famName, trait string, entryRaw any, prior types.TraitFamily, counted bool) types.TraitEntry {
	path := famName + "." + trait
	key := famName + ":" + trait
	entry := asMap(entryRaw)
	repairsBefore := len(r.log)

	priorEntry, hasPrior := prior[trait]

	var out types.TraitEntry
	if entry == nil {
		reason := "trait entry missing"
		if entryRaw != nil {
			reason = "trait entry has wrong type"
		}
		if hasPrior {
			out.Score = priorEntry.Score
			r.record(path, reason+", kept prior", entryRaw, priorEntry.Score)
		} else {
			out.Score = defaultTraitScore
			r.record(path, reason+", defaulted", entryRaw, defaultTraitScore)
			if counted {
				r.defaulted = append(r.defaulted, key)
			}
		}
		out.Rationale = placeholderText
		out.Strategy = placeholderText
		return out
	}

	if v, ok := numeric(entry["score"]); ok && v >= 0 && v <= 10 {
		out.Score = int(math.Round(v))
		if float64(out.Score) != v {
			r.record(path+".score", "rounded to integer", v, out.Score)
		}
	} else if hasPrior {
		out.Score = priorEntry.Score
		r.record(path+".score", "missing or out of range, kept prior", entry["score"], priorEntry.Score)
	} else {
		out.Score = defaultTraitScore
		r.record(path+".score", "missing or out of range, defaulted", entry["score"], defaultTraitScore)
		if counted {
			r.defaulted = append(r.defaulted, key)
		}
	}

	out.Rationale = r.repairText(path+".rationale", entry["rationale"])
	out.Strategy = r.repairText(path+".strategy", entry["strategy"])

	if counted && len(r.log) == repairsBefore {
		r.clean++
		r.cleanTraits = append(r.cleanTraits, key)
	}
	return out
}

func (r *repairer) repairText(path string, v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	r.record(path, "missing or empty, synthesized placeholder", v, placeholderText)
	return placeholderText
}

func (r *repairer) repairSchwartz(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		if raw != nil {
			r.record(types.FamilySchwartz, "wrong container type, dropped", raw, nil)
		}
		return nil
	}
	repairsBefore := len(r.log)
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			r.record(fmt.Sprintf("%s[%d]", types.FamilySchwartz, i), "non-string entry dropped", v, nil)
			continue
		}
		if seen[s] {
			r.record(fmt.Sprintf("%s[%d]", types.FamilySchwartz, i), "duplicate dropped", s, nil)
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(r.log) == repairsBefore {
		r.clean++
	}
	return out
}

func priorFamily(prior *types.CumulativeProfile, name string) types.TraitFamily {
	if prior == nil {
		return nil
	}
	return prior.Family(name)
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
