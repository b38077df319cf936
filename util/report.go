package util

import (
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"

	"cw-forecast/models"
)

// WriteForecastTable prints resp as an aligned text table.
func WriteForecastTable(w io.Writer, resp *models.ForecastResponse) error {
	if _, err := fmt.Fprintf(w, "7-day forecast for %s (generated %s)\n\n",
		resp.City, resp.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\ttemp_max\train\twind\thumidity\tpredicted_demand\t")
	for _, rec := range resp.Forecast {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.0f\t%d\t\n",
			rec.Date, rec.TempMax, rec.Rain, rec.Wind, rec.Humidity, rec.PredictedDemand)
	}
	return tw.Flush()
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Demand forecast - {{.Response.City}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>7-day demand forecast: {{.Response.City}}</h1>
<form method="get" action="/">
<select name="city">
{{- range .Cities}}
<option value="{{.}}"{{if eq . $.Response.City}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<button type="submit">Show</button>
</form>
<p>Generated {{.Response.GeneratedAt.UTC.Format "2006-01-02 15:04 MST"}} &middot; forecast {{.Response.ForecastID}}</p>
<table>
<tr><th>Date</th><th>Max temp (°C)</th><th>Rain (mm)</th><th>Wind (km/h)</th><th>Humidity (%)</th><th>Predicted demand</th></tr>
{{- range .Response.Forecast}}
<tr><td>{{.Date}}</td><td>{{printf "%.1f" .TempMax}}</td><td>{{printf "%.1f" .Rain}}</td><td>{{printf "%.1f" .Wind}}</td><td>{{printf "%.0f" .Humidity}}</td><td>{{.PredictedDemand}}</td></tr>
{{- end}}
</table>
<p><a href="/v1/forecast/chart?city={{.Response.City}}">Chart</a> &middot; <a href="/v1/forecast/report.xlsx?city={{.Response.City}}">Excel report</a></p>
</body>
</html>
`))

// RenderDashboard writes the HTML dashboard of resp. cities fills the city selector.
func RenderDashboard(w io.Writer, resp *models.ForecastResponse, cities []string) error {
	return dashboardTemplate.Execute(w, struct {
		Response *models.ForecastResponse
		Cities   []string
	}{resp, cities})
}
