package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cw-forecast/api"
	"cw-forecast/models"
	"cw-forecast/models/openmeteo"
)

// OpenMeteoApiClient talks to the forecast and archive hosts, which share one response format.
type OpenMeteoApiClient struct {
	forecast *api.HTTPClient
	archive  *api.HTTPClient
}

// NewOpenMeteoApiClient creates a client over the two base URLs (".../v1").
func NewOpenMeteoApiClient(forecast, archive *api.HTTPClient) *OpenMeteoApiClient {
	return &OpenMeteoApiClient{forecast: forecast, archive: archive}
}

// DailyForecast fetches forecast days from start through end.
func (c *OpenMeteoApiClient) DailyForecast(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	return c.daily(ctx, c.forecast, "/forecast", loc, start, end)
}

// DailyArchive fetches observed days from start through end.
func (c *OpenMeteoApiClient) DailyArchive(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	return c.daily(ctx, c.archive, "/archive", loc, start, end)
}

func (c *OpenMeteoApiClient) daily(ctx context.Context, client *api.HTTPClient, endpoint string, loc models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	start, end = models.Day(start), models.Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end %s before start %s", end.Format(models.DateLayout), start.Format(models.DateLayout))
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	query.Set("daily", DailyVariables)
	query.Set("timezone", loc.Timezone)
	query.Set("start_date", start.Format(models.DateLayout))
	query.Set("end_date", end.Format(models.DateLayout))

	var resp openmeteo.DailyResponse
	if err := client.Request(ctx, http.MethodGet, endpoint, query, nil, nil, &resp); err != nil {
		return nil, upstreamError(err)
	}

	days, err := ToWeatherDays(&resp)
	if err != nil {
		return nil, err
	}
	want := int(end.Sub(start).Hours()/24) + 1
	if len(days) != want {
		return nil, fmt.Errorf("%w: got %d days, asked for %d", ErrIncompleteData, len(days), want)
	}
	return days, nil
}

func upstreamError(err error) error {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		var body openmeteo.ErrorResponse
		if json.Unmarshal(statusErr.Body, &body) == nil && body.Reason != "" {
			return fmt.Errorf("%w: %s: %s", ErrUpstream, statusErr.Status, body.Reason)
		}
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
