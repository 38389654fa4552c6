package fusion

import (
	"math"

	"sales-profiler-go/internal/types"
)

// ComputeIndicators repairs the raw sales_indicators section and enforces
// the value↔category consistency rules. An indicator entirely absent from
// the payload is carried over from the prior set; when neither side has
// it, a neutral default with confidence 0 is synthesized. The returned
// set always contains all four indicators.
func ComputeIndicators(raw any, prior *types.SalesIndicatorSet) types.SalesIndicatorSet {
	m := asMap(raw)
	return types.SalesIndicatorSet{
		PurchaseTemperature:  repairTemperature(m["purchase_temperature"], prior),
		CustomerJourneyStage: repairJourneyStage(m["customer_journey_stage"], prior),
		ChurnRisk:            repairChurnRisk(m["churn_risk"], prior),
		SalesPotential:       repairSalesPotential(m["sales_potential"], prior),
	}
}

func repairTemperature(raw any, prior *types.SalesIndicatorSet) types.PurchaseTemperature {
	entry := asMap(raw)
	if entry == nil {
		if prior != nil {
			t := prior.PurchaseTemperature
			t.Value = clampInt(t.Value, 0, 100)
			t.TemperatureLevel = temperatureLevel(t.Value)
			return t
		}
		return types.PurchaseTemperature{
			Value:            neutralTemperature,
			TemperatureLevel: temperatureLevel(neutralTemperature),
			IndicatorBase:    neutralBase(),
		}
	}

	t := types.PurchaseTemperature{IndicatorBase: repairIndicatorBase(entry)}
	if v, ok := numeric(entry["value"]); ok {
		t.Value = clampInt(roundInt(v), 0, 100)
	} else if prior != nil {
		t.Value = clampInt(prior.PurchaseTemperature.Value, 0, 100)
	} else {
		t.Value = neutralTemperature
	}
	// Consistency wins over whatever the producer asserted.
	t.TemperatureLevel = temperatureLevel(t.Value)
	return t
}

func repairJourneyStage(raw any, prior *types.SalesIndicatorSet) types.CustomerJourneyStage {
	entry := asMap(raw)
	if entry == nil {
		if prior != nil {
			s := prior.CustomerJourneyStage
			if !validStage(s.Value) {
				s.Value = journeyStages[0]
			}
			s.ProgressPercentage = clampInt(s.ProgressPercentage, 0, 100)
			s.NextStage = nextStage(s.Value)
			return s
		}
		stage := journeyStages[0]
		return types.CustomerJourneyStage{
			Value:              stage,
			ProgressPercentage: stageProgressDefault[stage],
			NextStage:          nextStage(stage),
			IndicatorBase:      neutralBase(),
		}
	}

	s := types.CustomerJourneyStage{IndicatorBase: repairIndicatorBase(entry)}
	if v, ok := entry["value"].(string); ok && validStage(v) {
		s.Value = v
	} else if prior != nil && validStage(prior.CustomerJourneyStage.Value) {
		s.Value = prior.CustomerJourneyStage.Value
	} else {
		s.Value = journeyStages[0]
	}
	if v, ok := numeric(entry["progress_percentage"]); ok {
		s.ProgressPercentage = clampInt(roundInt(v), 0, 100)
	} else {
		s.ProgressPercentage = stageProgressDefault[s.Value]
	}
	s.NextStage = nextStage(s.Value)
	return s
}

func repairChurnRisk(raw any, prior *types.SalesIndicatorSet) types.ChurnRisk {
	entry := asMap(raw)
	if entry == nil {
		if prior != nil {
			c := prior.ChurnRisk
			c.Value = clampInt(c.Value, 0, 100)
			c.RiskLevel = riskLevel(c.Value)
			if c.RiskFactors == nil {
				c.RiskFactors = []string{}
			}
			return c
		}
		return types.ChurnRisk{
			Value:         neutralChurn,
			RiskLevel:     riskLevel(neutralChurn),
			RiskFactors:   []string{},
			IndicatorBase: neutralBase(),
		}
	}

	c := types.ChurnRisk{IndicatorBase: repairIndicatorBase(entry)}
	if v, ok := numeric(entry["value"]); ok {
		c.Value = clampInt(roundInt(v), 0, 100)
	} else if prior != nil {
		c.Value = clampInt(prior.ChurnRisk.Value, 0, 100)
	} else {
		c.Value = neutralChurn
	}
	c.RiskLevel = riskLevel(c.Value)
	c.RiskFactors = stringList(entry["risk_factors"])
	return c
}

func repairSalesPotential(raw any, prior *types.SalesIndicatorSet) types.SalesPotential {
	entry := asMap(raw)
	if entry == nil {
		if prior != nil {
			p := prior.SalesPotential
			if p.Value < 0 {
				p.Value = 0
			}
			p.Probability = clampInt(p.Probability, 0, 100)
			if p.EstimatedTimeframe == "" {
				p.EstimatedTimeframe = neutralTimeframe
			}
			return p
		}
		return types.SalesPotential{
			Value:              0,
			Probability:        neutralProbability,
			EstimatedTimeframe: neutralTimeframe,
			IndicatorBase:      neutralBase(),
		}
	}

	p := types.SalesPotential{IndicatorBase: repairIndicatorBase(entry)}
	if v, ok := numeric(entry["value"]); ok && v >= 0 {
		p.Value = v
	} else if prior != nil && prior.SalesPotential.Value >= 0 {
		p.Value = prior.SalesPotential.Value
	}
	if v, ok := numeric(entry["probability"]); ok {
		p.Probability = clampInt(roundInt(v), 0, 100)
	} else {
		p.Probability = neutralProbability
	}
	if s, ok := entry["estimated_timeframe"].(string); ok && s != "" {
		p.EstimatedTimeframe = s
	} else {
		p.EstimatedTimeframe = neutralTimeframe
	}
	return p
}

func repairIndicatorBase(entry map[string]any) types.IndicatorBase {
	base := types.IndicatorBase{Rationale: placeholderText, Strategy: placeholderText}
	if s, ok := entry["rationale"].(string); ok && s != "" {
		base.Rationale = s
	}
	if s, ok := entry["strategy"].(string); ok && s != "" {
		base.Strategy = s
	}
	if v, ok := numeric(entry["confidence"]); ok {
		base.Confidence = clampInt(roundInt(v), 0, 100)
	}
	return base
}

func neutralBase() types.IndicatorBase {
	return types.IndicatorBase{Rationale: placeholderText, Strategy: placeholderText, Confidence: 0}
}

func temperatureLevel(value int) string {
	switch {
	case value < tempWarmAt:
		return "cold"
	case value < tempHotAt:
		return "warm"
	default:
		return "hot"
	}
}

func riskLevel(value int) string {
	switch {
	case value < riskMediumAt:
		return "low"
	case value < riskHighAt:
		return "medium"
	default:
		return "high"
	}
}

func validStage(stage string) bool {
	for _, s := range journeyStages {
		if s == stage {
			return true
		}
	}
	return false
}

// nextStage returns the stage immediately following the given one, or ""
// when the stage is terminal.
func nextStage(stage string) string {
	for i, s := range journeyStages {
		if s == stage && i+1 < len(journeyStages) {
			return journeyStages[i+1]
		}
	}
	return ""
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
