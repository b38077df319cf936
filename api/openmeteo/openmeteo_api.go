package openmeteo

import (
	"context"
	"errors"
	"time"

	"cw-forecast/models"
)

// DailyVariables are the daily series requested from Open-Meteo, in feature order.
const DailyVariables = "temperature_2m_max,precipitation_sum,windspeed_10m_max,relative_humidity_2m_max,surface_pressure_mean"

var (
	// ErrUpstream wraps transport failures and non-2xx answers from the provider.
	ErrUpstream = errors.New("open-meteo request failed")
	// ErrIncompleteData means the provider answered but some day lacks a value.
	ErrIncompleteData = errors.New("open-meteo returned incomplete data")
)

// OpenMeteoAPI fetches daily weather for an inclusive date range.
type OpenMeteoAPI interface {
	DailyForecast(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error)
	DailyArchive(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error)
}
