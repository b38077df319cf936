package forecast

import (
	"fmt"

	"cw-forecast/models"
)

// FeatureBuilder derives the model input for a target day from its trailing window.
type FeatureBuilder struct {
	weekend WeekendSet
}

// NewFeatureBuilder returns a builder using the given weekend convention.
func NewFeatureBuilder(weekend WeekendSet) FeatureBuilder {
	return FeatureBuilder{weekend: weekend}
}

// Build computes calendar features from target.Date and lag/rolling features from
// history, which must hold the HistoryLength days immediately before the target.
// The target's own demand is never read.
func (b FeatureBuilder) Build(target models.WeatherDay, history HistoryWindow) (models.FeatureVector, error) {
	if history.Len() < HistoryLength {
		return models.FeatureVector{}, fmt.Errorf("%w: window holds %d days, need %d",
			ErrInsufficientHistory, history.Len(), HistoryLength)
	}

	date := models.Day(target.Date)
	if !models.IsNextDay(history.LastDate(), date) {
		return models.FeatureVector{}, fmt.Errorf("%w: target %s does not follow history end %s",
			ErrNonContiguousDate, date.Format(models.DateLayout), history.LastDate().Format(models.DateLayout))
	}

	demands := history.Demands()
	var sum float64
	for _, d := range demands {
		sum += d
	}

	return models.FeatureVector{
		TempMax:   target.TempMax,
		Rain:      target.Rain,
		Wind:      target.Wind,
		Humidity:  target.Humidity,
		Pressure:  target.Pressure,
		IsWeekend: b.weekend.Contains(date.Weekday()),
		DayOfWeek: MondayIndex(date.Weekday()),
		Month:     int(date.Month()),
		Lag1:      demands[len(demands)-1],
		Lag7:      demands[0],
		Rolling7:  sum / float64(len(demands)),
	}, nil
}
