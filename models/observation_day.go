package models

import "time"

// WeatherDay is one day of weather inputs, without demand.
type WeatherDay struct {
	Date     time.Time `json:"date"`
	TempMax  float64   `json:"temp_max"`
	Rain     float64   `json:"rain"`
	Wind     float64   `json:"wind"`
	Humidity float64   `json:"humidity"`
	Pressure float64   `json:"pressure"`
}

// ObservationDay is a weather day together with its demand. Inside a rollout the
// demand may be a model estimate rather than an observed value.
type ObservationDay struct {
	WeatherDay
	Demand float64 `json:"demand"`
}

// WithDemand returns an ObservationDay for w carrying the given demand.
func (w WeatherDay) WithDemand(demand float64) ObservationDay {
	return ObservationDay{WeatherDay: w, Demand: demand}
}
