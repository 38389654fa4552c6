// Package fusion is the profile fusion and validation engine: it takes one
// raw, possibly malformed LLM assessment, repairs it against the schema,
// merges it into the session's cumulative profile and derives the archetype
// and the four sales indicators. Every stage is a pure function; the
// orchestrator in this package is the only entry point callers should use.
package fusion

// Tunables and fixed defaults, kept in one table so the thresholds below
// stay the single source of truth. The blend weight, the baseline and the
// diminishing-returns cutoff are inferred defaults (see DESIGN.md).
const (
	defaultTraitScore  = 5
	fallbackConfidence = 10
	confidenceBaseline = 30 // minimum confidence after any successful fusion
	maxConfidenceGain  = 15
	diminishAfter      = 5 // interactions; the gain halves beyond this

	incomingBlendWeight = 0.6 // merger bias toward the newest read

	archetypeMinInteractions  = 3
	archetypeConfidenceMargin = 15
	archetypeSignalFloor      = 0.15 // weighted score below this is inconclusive

	tempWarmAt   = 40
	tempHotAt    = 70
	riskMediumAt = 30
	riskHighAt   = 70

	neutralTemperature = 50
	neutralChurn       = 50
	neutralProbability = 50

	// AnalysisLevelPreliminary marks a session with fewer than three
	// fused interactions; everything past that is a developed analysis.
	AnalysisLevelPreliminary = "wstępna"
	AnalysisLevelDeveloped   = "rozwinięta"

	// ArchetypeNeutral is the explicit "computed but inconclusive"
	// sentinel, distinct from a nil archetype (insufficient data).
	ArchetypeNeutral = "neutral"

	placeholderText  = "Niewystarczające dane do oceny"
	neutralTimeframe = "nieokreślony"

	neutralAdvisory  = "Profil klienta niejednoznaczny; stosuj zrównoważoną strategię sprzedaży."
	fallbackAdvisory = "Brak świeżej analizy; kontynuuj rozmowę neutralnie i zbieraj dalsze sygnały."
)

// Canonical scalar trait catalogue. Repair always emits every entry, so
// the worst case is an entirely-default profile and repair is idempotent.
var (
	bigFiveTraits = []string{"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism"}
	discTraits    = []string{"dominance", "influence", "steadiness", "compliance"}
)

// Journey stages in their fixed order; next_stage always follows it.
var journeyStages = []string{"awareness", "consideration", "evaluation", "decision", "purchase"}

// Default progress when the producer omits or garbles the percentage,
// chosen so a defaulted value stays ordered with the stage itself.
var stageProgressDefault = map[string]int{
	"awareness":     10,
	"consideration": 30,
	"evaluation":    55,
	"decision":      80,
	"purchase":      100,
}

type traitWeight struct {
	trait  string
	weight float64
}

type archetypeRule struct {
	key      string
	advisory string
	weights  []traitWeight
}

// Fixed archetype catalogue. Selection is a deterministic weighted rule
// over normalized trait scores; ties resolve to the neutral sentinel.
var archetypeCatalogue = []archetypeRule{
	{
		key:      "analityk",
		advisory: "Prezentuj dane, specyfikacje i porównania; unikaj presji czasowej.",
		weights:  []traitWeight{{"conscientiousness", 0.5}, {"compliance", 0.4}, {"extraversion", -0.2}},
	},
	{
		key:      "impulsywny",
		advisory: "Podkreślaj natychmiastową korzyść i ograniczoną dostępność; skracaj proces decyzyjny.",
		weights:  []traitWeight{{"extraversion", 0.4}, {"influence", 0.4}, {"conscientiousness", -0.3}},
	},
	{
		key:      "relacyjny",
		advisory: "Buduj zaufanie i relację; odwołuj się do rekomendacji i wspólnych wartości.",
		weights:  []traitWeight{{"agreeableness", 0.5}, {"steadiness", 0.4}},
	},
	{
		key:      "dominujący",
		advisory: "Komunikuj rezultaty i zostawiaj klientowi kontrolę nad decyzją.",
		weights:  []traitWeight{{"dominance", 0.6}, {"agreeableness", -0.3}},
	},
	{
		key:      "sceptyk",
		advisory: "Uprzedzaj obiekcje, dawaj gwarancje i dowody społeczne; nie wywieraj presji.",
		weights:  []traitWeight{{"neuroticism", 0.5}, {"openness", -0.3}},
	},
	{
		key:      "wizjoner",
		advisory: "Pokazuj szerszy obraz i możliwości rozwoju zamiast szczegółów operacyjnych.",
		weights:  []traitWeight{{"openness", 0.5}, {"influence", 0.3}},
	},
}

// AnalysisLevel maps the interaction count onto the session analysis level.
func AnalysisLevel(interactionCount int) string {
	if interactionCount < archetypeMinInteractions {
		return AnalysisLevelPreliminary
	}
	return AnalysisLevelDeveloped
}
