package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cw-forecast/api"
	"cw-forecast/models"
)

var riyadh = models.Location{City: "Riyadh", Latitude: 24.7136, Longitude: 46.6753, Timezone: "Asia/Riyadh"}

const threeDays = `{
  "latitude": 24.75, "longitude": 46.625, "timezone": "Asia/Riyadh",
  "daily": {
    "time": ["2025-03-01", "2025-03-02", "2025-03-03"],
    "temperature_2m_max": [41.0, 39.5, 43.2],
    "precipitation_sum": [0, 1.2, 0],
    "windspeed_10m_max": [10, 22.5, 31],
    "relative_humidity_2m_max": [20, 35, 18],
    "surface_pressure_mean": [1010, 1008.4, 1011]
  }
}`

func TestDailyForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("expected path /forecast; got %s", r.URL.Path)
		}
		q := r.URL.Query()
		checks := map[string]string{
			"latitude":   "24.7136",
			"longitude":  "46.6753",
			"timezone":   "Asia/Riyadh",
			"daily":      DailyVariables,
			"start_date": "2025-03-01",
			"end_date":   "2025-03-03",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("query %s = %q; want %q", k, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(threeDays))
	}))
	defer srv.Close()

	client := NewOpenMeteoApiClient(api.NewHTTPClient(srv.URL), api.NewHTTPClient(srv.URL))
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	days, err := client.DailyForecast(context.Background(), riyadh, start, start.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days; want 3", len(days))
	}
	want := models.WeatherDay{Date: start.AddDate(0, 0, 1), TempMax: 39.5, Rain: 1.2, Wind: 22.5, Humidity: 35, Pressure: 1008.4}
	if days[1] != want {
		t.Errorf("day 1 = %+v; want %+v", days[1], want)
	}
}

func TestDailyArchive_UsesArchiveHost(t *testing.T) {
	forecastHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("forecast host must not be called for archive data")
	}))
	defer forecastHost.Close()
	archiveHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/archive" {
			t.Errorf("expected path /archive; got %s", r.URL.Path)
		}
		w.Write([]byte(threeDays))
	}))
	defer archiveHost.Close()

	client := NewOpenMeteoApiClient(api.NewHTTPClient(forecastHost.URL), api.NewHTTPClient(archiveHost.URL))
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	days, err := client.DailyArchive(context.Background(), riyadh, start, start.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days; want 3", len(days))
	}
}

func TestDailyForecast_Errors(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  int
		body    string
		end     time.Time
		wantErr error
	}{
		{
			name:    "provider error with reason",
			status:  http.StatusBadRequest,
			body:    `{"error": true, "reason": "Parameter 'start_date' is out of allowed range"}`,
			end:     start.AddDate(0, 0, 2),
			wantErr: ErrUpstream,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `oops`,
			end:     start.AddDate(0, 0, 2),
			wantErr: ErrUpstream,
		},
		{
			name:   "null value",
			status: http.StatusOK,
			body: `{"daily": {"time": ["2025-03-01"], "temperature_2m_max": [null], "precipitation_sum": [0],
				"windspeed_10m_max": [1], "relative_humidity_2m_max": [1], "surface_pressure_mean": [1]}}`,
			end:     start,
			wantErr: ErrIncompleteData,
		},
		{
			name:    "fewer days than asked",
			status:  http.StatusOK,
			body:    threeDays,
			end:     start.AddDate(0, 0, 6),
			wantErr: ErrIncompleteData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewOpenMeteoApiClient(api.NewHTTPClient(srv.URL), api.NewHTTPClient(srv.URL))
			_, err := client.DailyForecast(context.Background(), riyadh, start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDailyForecast_RejectsInvertedRange(t *testing.T) {
	client := NewOpenMeteoApiClient(api.NewHTTPClient("http://unused"), api.NewHTTPClient("http://unused"))
	start := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	if _, err := client.DailyForecast(context.Background(), riyadh, start, start.AddDate(0, 0, -1)); err == nil {
		t.Fatalf("expected an error for end before start")
	}
}
