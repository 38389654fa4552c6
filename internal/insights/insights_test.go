package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-profiler-go/internal/session"
	"sales-profiler-go/internal/types"
)

func stateWith(archetype string, temp int, tempLevel, risk string) session.State {
	return session.State{
		Archetype: &types.CustomerArchetype{ArchetypeKey: archetype},
		Indicators: &types.SalesIndicatorSet{
			PurchaseTemperature: types.PurchaseTemperature{Value: temp, TemperatureLevel: tempLevel},
			ChurnRisk:           types.ChurnRisk{RiskLevel: risk},
		},
	}
}

func TestAggregate(t *testing.T) {
	states := []session.State{
		stateWith("analityk", 80, "hot", "low"),
		stateWith("analityk", 40, "warm", "high"),
		stateWith("relacyjny", 60, "warm", "low"),
	}

	ins := Aggregate(states)

	assert.Equal(t, 3, ins.Sessions)
	assert.Equal(t, 2, ins.ArchetypeCounts["analityk"])
	assert.Equal(t, 1, ins.ArchetypeCounts["relacyjny"])
	assert.Equal(t, 60.0, ins.AvgTemperature)
	assert.Equal(t, 1, ins.HotLeadCount)
	assert.InDelta(t, 1.0/3.0, ins.HighChurnShare, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	ins := Aggregate(nil)
	assert.Equal(t, 0, ins.Sessions)
	assert.Equal(t, 0.0, ins.AvgTemperature)
}

func TestGenerateChurnCard(t *testing.T) {
	card := Generate(Insight{Sessions: 10, HighChurnShare: 0.4})
	assert.Contains(t, card.Insight, "churn")
	assert.NotEmpty(t, card.Action)
}

func TestGenerateHotLeadCard(t *testing.T) {
	card := Generate(Insight{Sessions: 5, HotLeadCount: 2})
	assert.Contains(t, card.Insight, "hot leads")
}

func TestGenerateDefaultCards(t *testing.T) {
	assert.Equal(t, "No profiled sessions yet", Generate(Insight{}).Insight)
	assert.Equal(t, "No strong pattern detected", Generate(Insight{Sessions: 3}).Insight)
}
