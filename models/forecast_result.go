package models

import "time"

// ForecastRecord is one forecast horizon day.
type ForecastRecord struct {
	Date            time.Time
	TempMax         float64
	Rain            float64
	Wind            float64
	Humidity        float64
	Pressure        float64
	PredictedDemand int
}

// ForecastResult holds the records of a rollout in ascending date order.
type ForecastResult struct {
	Records []ForecastRecord
}

// ForecastRecordView is the machine-readable form of a ForecastRecord.
type ForecastRecordView struct {
	Date            string  `json:"date"`
	TempMax         float64 `json:"temp_max"`
	Rain            float64 `json:"rain"`
	Wind            float64 `json:"wind"`
	Humidity        float64 `json:"humidity"`
	PredictedDemand int     `json:"predicted_demand"`
}

// View returns the machine-readable record list.
func (r ForecastResult) View() []ForecastRecordView {
	out := make([]ForecastRecordView, len(r.Records))
	for i, rec := range r.Records {
		out[i] = ForecastRecordView{
			Date:            rec.Date.Format(DateLayout),
			TempMax:         rec.TempMax,
			Rain:            rec.Rain,
			Wind:            rec.Wind,
			Humidity:        rec.Humidity,
			PredictedDemand: rec.PredictedDemand,
		}
	}
	return out
}
