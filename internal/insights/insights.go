package insights

import (
	"fmt"

	"sales-profiler-go/internal/session"
)

// Insight is a fleet-level view across all profiled sessions.
type Insight struct {
	Sessions        int            `json:"sessions"`
	ArchetypeCounts map[string]int `json:"archetype_counts"`
	AvgTemperature  float64        `json:"avg_temperature"`
	HighChurnShare  float64        `json:"high_churn_share"`
	HotLeadCount    int            `json:"hot_lead_count"`
}

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

func Aggregate(states []session.State) Insight {
	ins := Insight{ArchetypeCounts: map[string]int{}}
	tempSum := 0
	highChurn := 0
	for _, st := range states {
		ins.Sessions++
		if st.Archetype != nil {
			ins.ArchetypeCounts[st.Archetype.ArchetypeKey]++
		}
		if st.Indicators == nil {
			continue
		}
		tempSum += st.Indicators.PurchaseTemperature.Value
		if st.Indicators.PurchaseTemperature.TemperatureLevel == "hot" {
			ins.HotLeadCount++
		}
		if st.Indicators.ChurnRisk.RiskLevel == "high" {
			highChurn++
		}
	}
	if ins.Sessions > 0 {
		ins.AvgTemperature = float64(tempSum) / float64(ins.Sessions)
		ins.HighChurnShare = float64(highChurn) / float64(ins.Sessions)
	}
	return ins
}

func Generate(ins Insight) ActionCard {
	switch {
	case ins.Sessions == 0:
		return ActionCard{
			Insight: "No profiled sessions yet",
			Action:  "Run analysis on incoming conversations",
			Impact:  "Baseline for sales guidance",
		}
	case ins.HighChurnShare >= 0.35:
		return ActionCard{
			Insight: fmt.Sprintf("High churn risk in %.0f%% of sessions", ins.HighChurnShare*100),
			Action:  "Prioritize retention outreach for high-risk customers",
			Impact:  "Reduce churn in the active pipeline",
		}
	case ins.HotLeadCount > 0:
		return ActionCard{
			Insight: fmt.Sprintf("%d hot leads in the pipeline", ins.HotLeadCount),
			Action:  "Route hot sessions to closers within 24h",
			Impact:  "Shorten time to close while interest peaks",
		}
	default:
		return ActionCard{
			Insight: "No strong pattern detected",
			Action:  "Monitor and collect more data",
			Impact:  "Low immediate intervention",
		}
	}
}
