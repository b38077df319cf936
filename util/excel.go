package util

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cw-forecast/models"
)

const (
	ForecastSheet = "Forecast"
	SummarySheet  = "Summary"

	// forecastHeaderRow is the first table row of the forecast sheet; records follow it.
	forecastHeaderRow = 5
)

var forecastHeaders = []interface{}{
	"Date", "Max temp (°C)", "Rain (mm)", "Wind (km/h)", "Humidity (%)", "Predicted demand",
}

// BuildForecastWorkbook renders resp as an xlsx workbook with a forecast sheet and a
// summary sheet.
func BuildForecastWorkbook(resp *models.ForecastResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{
		Title:       fmt.Sprintf("Demand forecast - %s", resp.City),
		Subject:     "Car wash demand forecast",
		Creator:     "cw-forecast",
		Description: fmt.Sprintf("Forecast %s", resp.ForecastID),
		Created:     resp.GeneratedAt.UTC().Format(time.RFC3339),
	})

	if err := f.SetSheetName("Sheet1", ForecastSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeForecastSheet(f, resp); err != nil {
		return nil, fmt.Errorf("failed to create forecast sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, resp); err != nil {
		return nil, fmt.Errorf("failed to fill summary sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeForecastSheet(f *excelize.File, resp *models.ForecastResponse) error {
	meta := [][]interface{}{
		{fmt.Sprintf("Demand forecast: %s", resp.City)},
		{"Forecast ID", resp.ForecastID},
		{"Generated at", resp.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range meta {
		if err := f.SetSheetRow(ForecastSheet, cell(1, i+1), &row); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(ForecastSheet, cell(1, forecastHeaderRow), &forecastHeaders); err != nil {
		return err
	}
	for i, rec := range resp.Forecast {
		row := []interface{}{rec.Date, rec.TempMax, rec.Rain, rec.Wind, rec.Humidity, rec.PredictedDemand}
		if err := f.SetSheetRow(ForecastSheet, cell(1, forecastHeaderRow+1+i), &row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ForecastSheet, "A1", "A1", style); err != nil {
		return err
	}
	last := cell(len(forecastHeaders), forecastHeaderRow)
	if err := f.SetCellStyle(ForecastSheet, cell(1, forecastHeaderRow), last, style); err != nil {
		return err
	}
	return f.SetColWidth(ForecastSheet, "A", "F", 16)
}

func writeSummarySheet(f *excelize.File, resp *models.ForecastResponse) error {
	total := 0
	peak := -1
	for i, rec := range resp.Forecast {
		total += rec.PredictedDemand
		if peak < 0 || rec.PredictedDemand > resp.Forecast[peak].PredictedDemand {
			peak = i
		}
	}
	rows := [][]interface{}{
		{"Days", len(resp.Forecast)},
		{"Total demand", total},
	}
	if peak >= 0 {
		rows = append(rows,
			[]interface{}{"Mean daily demand", float64(total) / float64(len(resp.Forecast))},
			[]interface{}{"Peak day", resp.Forecast[peak].Date},
			[]interface{}{"Peak demand", resp.Forecast[peak].PredictedDemand},
		)
	}
	for i, row := range rows {
		if err := f.SetSheetRow(SummarySheet, cell(1, i+1), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
