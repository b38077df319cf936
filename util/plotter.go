package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"cw-forecast/models"
)

// RenderForecastChart writes an HTML page with the predicted demand and the max
// temperature of every forecast day.
func RenderForecastChart(w io.Writer, resp *models.ForecastResponse) error {
	dates := make([]string, len(resp.Forecast))
	demand := make([]opts.LineData, len(resp.Forecast))
	temp := make([]opts.LineData, len(resp.Forecast))
	for i, rec := range resp.Forecast {
		dates[i] = rec.Date
		demand[i] = opts.LineData{Value: rec.PredictedDemand}
		temp[i] = opts.LineData{Value: rec.TempMax}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Demand forecast - %s", resp.City),
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("7-day demand forecast: %s", resp.City),
			Subtitle: fmt.Sprintf("forecast %s", resp.ForecastID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cars / °C"}),
	)

	line.SetXAxis(dates).
		AddSeries("Predicted demand", demand,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		).
		AddSeries("Max temp (°C)", temp,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)

	return line.Render(w)
}
