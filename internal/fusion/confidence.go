package fusion

import "math"

// Accumulate computes the next overall confidence from the prior value,
// the interaction count and how cleanly the latest payload validated.
// A fully clean payload contributes up to +15; a heavily repaired one
// contributes nothing. The gain halves once the session has more than
// five interactions, modeling convergence toward a stable read. The
// result never drops below the prior value on the success path.
func Accumulate(priorConfidence, interactionCount int, rep RepairResult) int {
	completeness := rep.Completeness
	if completeness < 0 {
		completeness = 0
	}
	if completeness > 1 {
		completeness = 1
	}

	gain := int(math.Round(completeness * maxConfidenceGain))
	if interactionCount > diminishAfter {
		gain /= 2
	}

	next := priorConfidence + gain
	if next < confidenceBaseline {
		next = confidenceBaseline
	}
	if next > 100 {
		next = 100
	}
	return next
}

// DegradedConfidence is the fallback-path confidence: a fixed low value
// that never reduces what the session already earned.
func DegradedConfidence(priorConfidence int) int {
	if priorConfidence > fallbackConfidence {
		return priorConfidence
	}
	return fallbackConfidence
}
