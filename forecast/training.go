package forecast

import (
	"fmt"

	"cw-forecast/models"
)

// BuildTrainingSet produces a feature vector and target for every day of series that
// has HistoryLength contiguous observed days before it. Days right after a gap are
// skipped, the same rows a lagged frame would drop. series must be strictly increasing.
func BuildTrainingSet(series []models.ObservationDay, fb FeatureBuilder) ([]models.FeatureVector, []float64, error) {
	for i := 1; i < len(series); i++ {
		if !models.Day(series[i].Date).After(models.Day(series[i-1].Date)) {
			return nil, nil, fmt.Errorf("%w: series not strictly increasing at %s",
				ErrNonContiguousDate, models.Day(series[i].Date).Format(models.DateLayout))
		}
	}

	var vectors []models.FeatureVector
	var targets []float64
	for i := HistoryLength; i < len(series); i++ {
		window, err := NewHistoryWindow(series[i-HistoryLength : i])
		if err != nil {
			continue
		}
		v, err := fb.Build(series[i].WeatherDay, window)
		if err != nil {
			continue
		}
		vectors = append(vectors, v)
		targets = append(targets, series[i].Demand)
	}
	return vectors, targets, nil
}
