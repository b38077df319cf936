package openmeteo

import (
	"context"
	"fmt"
	"time"

	"cw-forecast/models"
	"cw-forecast/util"
)

// OpenMeteoApiClientMock serves weather from fixture files. The fixture days are
// re-dated to the requested range and repeated as needed.
type OpenMeteoApiClientMock struct {
	forecastPath string
	archivePath  string
}

// NewOpenMeteoApiClientMock creates a mock reading the given fixture files.
func NewOpenMeteoApiClientMock(forecastPath, archivePath string) *OpenMeteoApiClientMock {
	return &OpenMeteoApiClientMock{forecastPath: forecastPath, archivePath: archivePath}
}

func (c *OpenMeteoApiClientMock) DailyForecast(_ context.Context, _ models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	return c.fromFixture(c.forecastPath, start, end)
}

func (c *OpenMeteoApiClientMock) DailyArchive(_ context.Context, _ models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	return c.fromFixture(c.archivePath, start, end)
}

func (c *OpenMeteoApiClientMock) fromFixture(path string, start, end time.Time) ([]models.WeatherDay, error) {
	resp, err := util.ReadOpenMeteoResponseFromJSON(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	fixture, err := ToWeatherDays(resp)
	if err != nil {
		return nil, err
	}
	if len(fixture) == 0 {
		return nil, fmt.Errorf("%w: fixture %s is empty", ErrIncompleteData, path)
	}

	var days []models.WeatherDay
	for d, i := models.Day(start), 0; !d.After(models.Day(end)); d, i = models.NextDay(d), i+1 {
		day := fixture[i%len(fixture)]
		day.Date = d
		days = append(days, day)
	}
	return days, nil
}
