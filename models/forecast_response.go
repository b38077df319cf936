package models

import "time"

// ForecastRequest is the body accepted by POST /v1/forecast.
type ForecastRequest struct {
	City string `json:"city"`
}

// ForecastResponse is the top-level JSON returned by POST /v1/forecast. It is also
// the value cached in Redis and published to Kafka.
type ForecastResponse struct {
	ForecastID  string               `json:"forecast_id"`
	City        string               `json:"city"`
	GeneratedAt time.Time            `json:"generated_at"`
	Forecast    []ForecastRecordView `json:"forecast"`
}
