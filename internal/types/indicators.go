package types

// --------------------------------------------
// Common indicator contract
// --------------------------------------------
type IndicatorBase struct {
	Rationale  string `json:"rationale"`
	Strategy   string `json:"strategy"`
	Confidence int    `json:"confidence"` // 0-100
}

// --------------------------------------------
// Purchase temperature
// --------------------------------------------
type PurchaseTemperature struct {
	Value            int    `json:"value"` // 0-100
	TemperatureLevel string `json:"temperature_level"`
	IndicatorBase
}

// --------------------------------------------
// Customer journey stage
// --------------------------------------------
type CustomerJourneyStage struct {
	Value              string `json:"value"`
	ProgressPercentage int    `json:"progress_percentage"` // 0-100
	NextStage          string `json:"next_stage,omitempty"`
	IndicatorBase
}

// --------------------------------------------
// Churn risk
// --------------------------------------------
type ChurnRisk struct {
	Value       int      `json:"value"` // 0-100
	RiskLevel   string   `json:"risk_level"`
	RiskFactors []string `json:"risk_factors"`
	IndicatorBase
}

// --------------------------------------------
// Sales potential
// --------------------------------------------
type SalesPotential struct {
	Value              float64 `json:"value"` // non-negative
	Probability        int     `json:"probability"` // 0-100
	EstimatedTimeframe string  `json:"estimated_timeframe"`
	IndicatorBase
}

// SalesIndicatorSet always carries all four indicators; the engine never
// returns a partial set.
type SalesIndicatorSet struct {
	PurchaseTemperature  PurchaseTemperature  `json:"purchase_temperature"`
	CustomerJourneyStage CustomerJourneyStage `json:"customer_journey_stage"`
	ChurnRisk            ChurnRisk            `json:"churn_risk"`
	SalesPotential       SalesPotential       `json:"sales_potential"`
}
