package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"sales-profiler-go/internal/session"
)

const sheetName = "Sessions"

var headers = []string{
	"Session ID",
	"Interactions",
	"Confidence",
	"Analysis Level",
	"Archetype",
	"Temperature",
	"Journey Stage",
	"Churn Risk",
	"Sales Potential",
	"Updated At",
}

// Write renders one row per session into an xlsx workbook at the given
// path, suitable for handing to a sales team lead.
func Write(path string, states []session.State) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, st := range states {
		values := sessionRow(st)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write session %s: %w", st.SessionID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func sessionRow(st session.State) []any {
	archetype := ""
	if st.Archetype != nil {
		archetype = st.Archetype.ArchetypeKey
	}
	var temperature, churn int
	var stage string
	var potential float64
	if st.Indicators != nil {
		temperature = st.Indicators.PurchaseTemperature.Value
		stage = st.Indicators.CustomerJourneyStage.Value
		churn = st.Indicators.ChurnRisk.Value
		potential = st.Indicators.SalesPotential.Value
	}
	return []any{
		st.SessionID,
		st.InteractionCount,
		st.Confidence,
		st.AnalysisLevel,
		archetype,
		temperature,
		stage,
		churn,
		potential,
		st.UpdatedAt.Format(time.RFC3339),
	}
}
