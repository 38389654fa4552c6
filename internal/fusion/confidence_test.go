package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulateBaselineOnFirstRead(t *testing.T) {
	got := Accumulate(0, 1, RepairResult{Completeness: 0})
	assert.Equal(t, confidenceBaseline, got)
}

func TestAccumulateFullCompletenessGain(t *testing.T) {
	got := Accumulate(40, 2, RepairResult{Completeness: 1})
	assert.Equal(t, 55, got)
}

func TestAccumulateDiminishingReturns(t *testing.T) {
	// Past the cutoff the gain halves: 40 + 15/2 = 47.
	got := Accumulate(40, 6, RepairResult{Completeness: 1})
	assert.Equal(t, 47, got)
	assert.LessOrEqual(t, got, 47)
}

func TestAccumulateNeverDecreases(t *testing.T) {
	got := Accumulate(80, 4, RepairResult{Completeness: 0})
	assert.Equal(t, 80, got)
}

func TestAccumulateCapsAtHundred(t *testing.T) {
	got := Accumulate(95, 2, RepairResult{Completeness: 1})
	assert.Equal(t, 100, got)
}

func TestAccumulateClampsCompleteness(t *testing.T) {
	assert.Equal(t, 55, Accumulate(40, 2, RepairResult{Completeness: 3.5}))
	assert.Equal(t, 40, Accumulate(40, 2, RepairResult{Completeness: -1}))
}

func TestDegradedConfidence(t *testing.T) {
	assert.Equal(t, fallbackConfidence, DegradedConfidence(0))
	assert.Equal(t, fallbackConfidence, DegradedConfidence(fallbackConfidence))
	assert.Equal(t, 60, DegradedConfidence(60))
}
