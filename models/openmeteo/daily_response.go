package openmeteo

// DailyUnits holds the unit labels Open-Meteo returns for each daily variable.
type DailyUnits struct {
	Time            string `json:"time"`
	TemperatureMax  string `json:"temperature_2m_max"`
	Precipitation   string `json:"precipitation_sum"`
	WindSpeedMax    string `json:"windspeed_10m_max"`
	HumidityMax     string `json:"relative_humidity_2m_max"`
	SurfacePressure string `json:"surface_pressure_mean"`
}

// Daily holds the column arrays of a daily response. Values are pointers because
// the API returns null for days it has no data for.
type Daily struct {
	Time            []string   `json:"time"`
	TemperatureMax  []*float64 `json:"temperature_2m_max"`
	Precipitation   []*float64 `json:"precipitation_sum"`
	WindSpeedMax    []*float64 `json:"windspeed_10m_max"`
	HumidityMax     []*float64 `json:"relative_humidity_2m_max"`
	SurfacePressure []*float64 `json:"surface_pressure_mean"`
}

// DailyResponse is the top-level JSON returned by the forecast and archive endpoints.
type DailyResponse struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Timezone   string     `json:"timezone"`
	DailyUnits DailyUnits `json:"daily_units"`
	Daily      Daily      `json:"daily"`
}

// ErrorResponse is returned by Open-Meteo with a 400 status.
type ErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}
