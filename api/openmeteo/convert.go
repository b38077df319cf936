package openmeteo

import (
	"fmt"

	"cw-forecast/models"
	"cw-forecast/models/openmeteo"
)

// ToWeatherDays turns the column arrays of resp into one WeatherDay per date.
func ToWeatherDays(resp *openmeteo.DailyResponse) ([]models.WeatherDay, error) {
	d := resp.Daily
	n := len(d.Time)
	columns := map[string][]*float64{
		"temperature_2m_max":       d.TemperatureMax,
		"precipitation_sum":        d.Precipitation,
		"windspeed_10m_max":        d.WindSpeedMax,
		"relative_humidity_2m_max": d.HumidityMax,
		"surface_pressure_mean":    d.SurfacePressure,
	}
	for name, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %s has %d values for %d dates", ErrIncompleteData, name, len(col), n)
		}
	}

	days := make([]models.WeatherDay, n)
	for i, raw := range d.Time {
		date, err := models.ParseDay(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrIncompleteData, raw)
		}
		for name, col := range columns {
			if col[i] == nil {
				return nil, fmt.Errorf("%w: %s missing for %s", ErrIncompleteData, name, raw)
			}
		}
		days[i] = models.WeatherDay{
			Date:     date,
			TempMax:  *d.TemperatureMax[i],
			Rain:     *d.Precipitation[i],
			Wind:     *d.WindSpeedMax[i],
			Humidity: *d.HumidityMax[i],
			Pressure: *d.SurfacePressure[i],
		}
	}
	return days, nil
}
