package fusion

import (
	"fmt"

	"sales-profiler-go/internal/types"
)

// Input carries everything a single fusion call may read. The engine keeps
// no state between calls: every call is a pure function of the prior state
// and the new raw payload, and concurrent calls for different sessions
// share nothing. Serializing calls per session is the caller's job.
type Input struct {
	// RawPayload is the decoded LLM assessment; nil or any non-object
	// value is treated as an empty document and repaired from defaults.
	RawPayload       any
	PriorProfile     *types.CumulativeProfile
	PriorIndicators  *types.SalesIndicatorSet
	PriorQuestions   []types.ClarifyingQuestion
	PriorConfidence  int
	InteractionCount int
	// AnsweredIDs is the caller-supplied signal that the new transcript
	// answered previously open clarifying questions.
	AnsweredIDs []string
}

// Fuse runs validation, merge, confidence accumulation, archetype
// synthesis and indicator computation in sequence and assembles one
// immutable result. It never fails: a panic from any stage degrades to
// the fallback result instead of propagating.
func Fuse(in Input) (result types.FusionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Fallback(in)
		}
	}()

	payload := asMap(in.RawPayload)

	rep := Repair(payload, in.PriorProfile)
	merged := Merge(in.PriorProfile, rep.Profile)
	confidence := Accumulate(in.PriorConfidence, in.InteractionCount, rep)
	archetype := Synthesize(merged, in.InteractionCount, confidence)
	indicators := ComputeIndicators(payload["sales_indicators"], in.PriorIndicators)
	questions := refreshQuestions(in.PriorQuestions, rep, in.AnsweredIDs)

	return types.FusionResult{
		CumulativePsychology:      merged,
		PsychologyConfidence:      confidence,
		ActiveClarifyingQuestions: questions,
		CustomerArchetype:         archetype,
		SalesIndicators:           indicators,
		AnalysisLevel:             AnalysisLevel(in.InteractionCount),
	}
}

// Fallback produces the guaranteed-success degraded result for the case
// where the upstream assessment pipeline failed before any payload was
// produced. It uses only locally known information and never raises.
func Fallback(in Input) types.FusionResult {
	return types.FusionResult{
		CumulativePsychology:      defaultProfile(),
		PsychologyConfidence:      DegradedConfidence(in.PriorConfidence),
		ActiveClarifyingQuestions: append([]types.ClarifyingQuestion(nil), in.PriorQuestions...),
		CustomerArchetype: &types.CustomerArchetype{
			ArchetypeKey: ArchetypeNeutral,
			Confidence:   0,
			Advisory:     fallbackAdvisory,
		},
		SalesIndicators: ComputeIndicators(nil, in.PriorIndicators),
		AnalysisLevel:   AnalysisLevel(in.InteractionCount),
	}
}

// refreshQuestions carries prior clarifying questions forward, marks the
// ones answered either by the caller's signal or by a clean trait read in
// this payload, and raises a new question for every trait the repairer
// had to fill with the bare default. Question IDs are deterministic so
// fusion stays a pure function.
func refreshQuestions(prior []types.ClarifyingQuestion, rep RepairResult, answeredIDs []string) []types.ClarifyingQuestion {
	answered := make(map[string]bool, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = true
	}
	for _, key := range rep.CleanTraits {
		answered[questionID(key)] = true
	}

	out := make([]types.ClarifyingQuestion, 0, len(prior)+len(rep.DefaultedTraits))
	open := make(map[string]bool, len(prior))
	for _, q := range prior {
		if answered[q.ID] {
			q.Answered = true
		}
		open[q.ID] = true
		out = append(out, q)
	}

	for _, key := range rep.DefaultedTraits {
		id := questionID(key)
		if open[id] {
			continue
		}
		out = append(out, types.ClarifyingQuestion{
			ID:    id,
			Text:  fmt.Sprintf("Brak danych o cesze %q. Dopytaj klienta, aby doprecyzować profil.", key),
			Trait: key,
		})
	}
	return out
}

func questionID(traitKey string) string { return "q:" + traitKey }

// defaultProfile is the entirely-default cumulative profile: every
// canonical trait at the neutral midpoint with placeholder texts.
func defaultProfile() types.CumulativeProfile {
	return types.CumulativeProfile{
		BigFive: defaultFamily(bigFiveTraits),
		DISC:    defaultFamily(discTraits),
	}
}

func defaultFamily(traits []string) types.TraitFamily {
	fam := make(types.TraitFamily, len(traits))
	for _, t := range traits {
		fam[t] = types.TraitEntry{
			Score:     defaultTraitScore,
			Rationale: placeholderText,
			Strategy:  placeholderText,
		}
	}
	return fam
}
