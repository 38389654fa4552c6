package types

// FusionResult is the single immutable output of one fusion call. It is
// JSON-serializable as-is, suitable for a document column or an API body.
type FusionResult struct {
	CumulativePsychology      CumulativeProfile    `json:"cumulative_psychology"`
	PsychologyConfidence      int                  `json:"psychology_confidence"`
	ActiveClarifyingQuestions []ClarifyingQuestion `json:"active_clarifying_questions"`
	CustomerArchetype         *CustomerArchetype   `json:"customer_archetype,omitempty"`
	SalesIndicators           SalesIndicatorSet    `json:"sales_indicators"`
	AnalysisLevel             string               `json:"analysis_level"`
}
