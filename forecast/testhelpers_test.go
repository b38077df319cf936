package forecast

import (
	"time"

	"cw-forecast/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// series returns contiguous observed days starting at start, one per demand value.
func series(start time.Time, demands ...float64) []models.ObservationDay {
	out := make([]models.ObservationDay, len(demands))
	for i, d := range demands {
		out[i] = models.ObservationDay{
			WeatherDay: models.WeatherDay{
				Date:     start.AddDate(0, 0, i),
				TempMax:  35 + float64(i),
				Rain:     0,
				Wind:     12,
				Humidity: 25,
				Pressure: 1008,
			},
			Demand: d,
		}
	}
	return out
}

// weatherFrom returns n contiguous weather days starting at start.
func weatherFrom(start time.Time, n int) []models.WeatherDay {
	out := make([]models.WeatherDay, n)
	for i := range out {
		out[i] = models.WeatherDay{
			Date:     start.AddDate(0, 0, i),
			TempMax:  40 - float64(i),
			Rain:     float64(i % 2),
			Wind:     10 + float64(i),
			Humidity: 20 + float64(i),
			Pressure: 1010,
		}
	}
	return out
}

// recordingModel returns outputs in order and remembers every vector it was given.
type recordingModel struct {
	outputs []float64
	seen    []models.FeatureVector
}

func (m *recordingModel) Predict(v models.FeatureVector) (float64, error) {
	m.seen = append(m.seen, v)
	out := m.outputs[(len(m.seen)-1)%len(m.outputs)]
	return out, nil
}

// linearModel is a deterministic stand-in for a trained regressor.
var linearModel = DemandModelFunc(func(v models.FeatureVector) (float64, error) {
	weekend := 0.0
	if v.IsWeekend {
		weekend = 20
	}
	return 0.4*v.Lag1 + 0.2*v.Lag7 + 0.3*v.Rolling7 - 0.5*(v.TempMax-35) + 8*v.Rain + weekend, nil
})
