package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-profiler-go/internal/types"
)

func TestTemperatureLevelOverridesProducer(t *testing.T) {
	raw := map[string]any{
		"purchase_temperature": map[string]any{
			"value":             float64(85),
			"temperature_level": "cold",
		},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, 85, set.PurchaseTemperature.Value)
	assert.Equal(t, "hot", set.PurchaseTemperature.TemperatureLevel)
}

func TestTemperatureThresholds(t *testing.T) {
	cases := map[int]string{0: "cold", 39: "cold", 40: "warm", 69: "warm", 70: "hot", 100: "hot"}
	for value, level := range cases {
		assert.Equal(t, level, temperatureLevel(value), "value %d", value)
	}
}

func TestChurnRiskThresholds(t *testing.T) {
	cases := map[int]string{0: "low", 29: "low", 30: "medium", 69: "medium", 70: "high", 100: "high"}
	for value, level := range cases {
		assert.Equal(t, level, riskLevel(value), "value %d", value)
	}
}

func TestRiskLevelOverridesProducer(t *testing.T) {
	raw := map[string]any{
		"churn_risk": map[string]any{
			"value":        float64(75),
			"risk_level":   "low",
			"risk_factors": []any{"brak kontaktu", float64(7), "cena"},
		},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, "high", set.ChurnRisk.RiskLevel)
	assert.Equal(t, []string{"brak kontaktu", "cena"}, set.ChurnRisk.RiskFactors)
}

func TestJourneyNextStageFollowsOrdering(t *testing.T) {
	raw := map[string]any{
		"customer_journey_stage": map[string]any{
			"value":      "evaluation",
			"next_stage": "awareness", // producer nonsense
		},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, "evaluation", set.CustomerJourneyStage.Value)
	assert.Equal(t, "decision", set.CustomerJourneyStage.NextStage)
}

func TestJourneyTerminalStageHasNoNext(t *testing.T) {
	raw := map[string]any{
		"customer_journey_stage": map[string]any{"value": "purchase"},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, "purchase", set.CustomerJourneyStage.Value)
	assert.Empty(t, set.CustomerJourneyStage.NextStage)
	assert.Equal(t, 100, set.CustomerJourneyStage.ProgressPercentage)
}

func TestJourneyInvalidStageDefaults(t *testing.T) {
	raw := map[string]any{
		"customer_journey_stage": map[string]any{"value": "teleportacja"},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, "awareness", set.CustomerJourneyStage.Value)
	assert.Equal(t, stageProgressDefault["awareness"], set.CustomerJourneyStage.ProgressPercentage)
	assert.Equal(t, "consideration", set.CustomerJourneyStage.NextStage)
}

func TestAbsentIndicatorCarriedFromPrior(t *testing.T) {
	prior := &types.SalesIndicatorSet{
		PurchaseTemperature: types.PurchaseTemperature{
			Value:            80,
			TemperatureLevel: "hot",
			IndicatorBase:    types.IndicatorBase{Rationale: "r", Strategy: "s", Confidence: 70},
		},
	}

	set := ComputeIndicators(map[string]any{}, prior)

	assert.Equal(t, 80, set.PurchaseTemperature.Value)
	assert.Equal(t, "hot", set.PurchaseTemperature.TemperatureLevel)
	assert.Equal(t, 70, set.PurchaseTemperature.Confidence)
}

func TestNeutralDefaultsWhenNothingKnown(t *testing.T) {
	set := ComputeIndicators(nil, nil)

	assert.Equal(t, neutralTemperature, set.PurchaseTemperature.Value)
	assert.Equal(t, "warm", set.PurchaseTemperature.TemperatureLevel)
	assert.Equal(t, 0, set.PurchaseTemperature.Confidence)

	assert.Equal(t, "awareness", set.CustomerJourneyStage.Value)
	assert.Equal(t, "consideration", set.CustomerJourneyStage.NextStage)

	assert.Equal(t, neutralChurn, set.ChurnRisk.Value)
	assert.Equal(t, "medium", set.ChurnRisk.RiskLevel)
	assert.NotNil(t, set.ChurnRisk.RiskFactors)

	assert.Equal(t, 0.0, set.SalesPotential.Value)
	assert.Equal(t, neutralProbability, set.SalesPotential.Probability)
	assert.Equal(t, neutralTimeframe, set.SalesPotential.EstimatedTimeframe)
}

func TestSalesPotentialRejectsNegativeValue(t *testing.T) {
	raw := map[string]any{
		"sales_potential": map[string]any{
			"value":       float64(-5000),
			"probability": float64(140),
		},
	}

	set := ComputeIndicators(raw, nil)

	assert.Equal(t, 0.0, set.SalesPotential.Value)
	assert.Equal(t, 100, set.SalesPotential.Probability)
}

func TestAllFourIndicatorsAlwaysPopulated(t *testing.T) {
	set := ComputeIndicators(map[string]any{"purchase_temperature": map[string]any{"value": float64(10)}}, nil)

	assert.NotEmpty(t, set.PurchaseTemperature.TemperatureLevel)
	assert.NotEmpty(t, set.CustomerJourneyStage.Value)
	assert.NotEmpty(t, set.ChurnRisk.RiskLevel)
	assert.NotEmpty(t, set.SalesPotential.EstimatedTimeframe)
}
