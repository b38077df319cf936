package services

import (
	"context"
	"errors"
	"time"

	"cw-forecast/models"
)

var (
	// ErrUnknownCity is returned for a city that is not configured.
	ErrUnknownCity = errors.New("unknown city")

	// ErrHistoryUnavailable wraps failures of the history store.
	ErrHistoryUnavailable = errors.New("history unavailable")

	// ErrWeatherUnavailable wraps failures of the weather provider.
	ErrWeatherUnavailable = errors.New("weather forecast unavailable")
)

// HistoryRepository returns recorded demand days in ascending date order.
type HistoryRepository interface {
	Tail(ctx context.Context, city string, n int) ([]models.ObservationDay, error)
	Append(ctx context.Context, city string, days []models.ObservationDay) error
}

// WeatherSource returns daily weather for the inclusive range [start, end].
type WeatherSource interface {
	DailyForecast(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error)
}

// ForecastCache stores generated forecasts keyed by city and first forecast day.
type ForecastCache interface {
	GetForecast(ctx context.Context, city string, start time.Time) (*models.ForecastResponse, error)
	SetForecast(ctx context.Context, city string, start time.Time, resp *models.ForecastResponse, ttl time.Duration) error
}

// ForecastPublisher announces generated forecasts to downstream consumers.
type ForecastPublisher interface {
	Publish(ctx context.Context, resp *models.ForecastResponse) error
	Close() error
}

// ReportArchiver stores the spreadsheet report of a forecast and returns its object key.
type ReportArchiver interface {
	Archive(ctx context.Context, resp *models.ForecastResponse, workbook []byte) (string, error)
	// Enabled reports whether reports are kept; when false no workbook is built.
	Enabled() bool
}

// Scheduler runs named tasks on an interval.
type Scheduler interface {
	Schedule(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context) error) error
	Stop()
}
