package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pulsewatch/internal/domain"
)

// ExcelExporter renders a metrics summary plus the raw readings behind it
// into an .xlsx workbook for offline review.
type ExcelExporter struct{}

// NewExcelExporter creates an exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export builds a two-sheet workbook: "Summary" with the aggregated metrics
// and "Readings" with one row per reading. The caller owns the returned file
// and must Close it after writing.
func (e *ExcelExporter) Export(employee *domain.Employee, summary *domain.MetricsSummary, readings []domain.VitalsReading) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.writeSummarySheet(f, employee, summary); err != nil {
		f.Close()
		return nil, err
	}
	if err := e.writeReadingsSheet(f, readings); err != nil {
		f.Close()
		return nil, err
	}

	// Drop the default sheet left by excelize.
	f.DeleteSheet("Sheet1")

	return f, nil
}

func (e *ExcelExporter) writeSummarySheet(f *excelize.File, employee *domain.Employee, summary *domain.MetricsSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]interface{}{
		{"Employee", employee.Name},
		{"Department", employee.Department},
		{"Period Start", summary.Period.Since.Format(time.RFC3339)},
		{"Period End", summary.Period.Until.Format(time.RFC3339)},
		{"Total Readings", summary.TotalReadings},
	}

	if summary.HeartRate != nil {
		rows = append(rows,
			[]interface{}{"Heart Rate Avg (bpm)", summary.HeartRate.Avg},
			[]interface{}{"Heart Rate Min (bpm)", summary.HeartRate.Min},
			[]interface{}{"Heart Rate Max (bpm)", summary.HeartRate.Max},
		)
	}
	if summary.BloodOxygen != nil {
		rows = append(rows,
			[]interface{}{"Blood Oxygen Avg (%)", summary.BloodOxygen.Avg},
			[]interface{}{"Blood Oxygen Min (%)", summary.BloodOxygen.Min},
			[]interface{}{"Blood Oxygen Max (%)", summary.BloodOxygen.Max},
		)
	}
	if summary.Steps != nil {
		rows = append(rows,
			[]interface{}{"Steps Total", summary.Steps.Total},
			[]interface{}{"Steps Avg", summary.Steps.Avg},
		)
	}
	if summary.Sleep != nil {
		rows = append(rows,
			[]interface{}{"Sleep Total (h)", summary.Sleep.Total},
			[]interface{}{"Sleep Avg (h)", summary.Sleep.Avg},
		)
		if summary.Sleep.AvgQuality != nil {
			rows = append(rows, []interface{}{"Sleep Quality Avg (%)", *summary.Sleep.AvgQuality})
		}
	}
	if summary.Stress != nil {
		rows = append(rows,
			[]interface{}{"Stress Avg", summary.Stress.Avg},
			[]interface{}{"Stress Max", summary.Stress.Max},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	// Bold label column.
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("failed to style summary labels: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return nil
}

func (e *ExcelExporter) writeReadingsSheet(f *excelize.File, readings []domain.VitalsReading) error {
	const sheet = "Readings"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create readings sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []interface{}{
		"Timestamp", "Heart Rate", "Blood Oxygen", "Steps",
		"Sleep Hours", "Sleep Quality", "Stress Level", "Temperature", "Calories",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write readings header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("failed to style readings header: %w", err)
	}

	for i, r := range readings {
		row := []interface{}{
			r.Timestamp.Format(time.RFC3339),
			cellInt(r.HeartRate),
			cellInt(r.BloodOxygen),
			cellInt(r.Steps),
			cellFloat(r.SleepHours),
			cellInt(r.SleepQuality),
			cellInt(r.StressLevel),
			cellFloat(r.Temperature),
			cellInt(r.CaloriesBurned),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write reading row: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return nil
}

// Absent values render as empty cells, not zeros.
func cellInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func cellFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
