package forecast

import (
	"fmt"
	"math"

	"cw-forecast/models"
)

// Horizon is the number of days a rollout forecasts.
const Horizon = 7

// RolloutEngine turns a one-step DemandModel into a Horizon-day forecaster by feeding
// each prediction back as the newest day of history.
type RolloutEngine struct {
	features FeatureBuilder
}

// StepResult is the outcome of a single rollout iteration.
type StepResult struct {
	Record     models.ForecastRecord
	Features   models.FeatureVector
	Prediction float64 // unrounded model output
	Next       HistoryWindow
}

// NewRolloutEngine creates an engine that builds features with fb.
func NewRolloutEngine(fb FeatureBuilder) *RolloutEngine {
	return &RolloutEngine{features: fb}
}

// Step predicts day from history and returns the window advanced by the synthetic
// day. The window carries the unrounded prediction; only the record is rounded.
func (e *RolloutEngine) Step(history HistoryWindow, day models.WeatherDay, model DemandModel) (StepResult, error) {
	day.Date = models.Day(day.Date)

	vector, err := e.features.Build(day, history)
	if err != nil {
		return StepResult{}, err
	}

	prediction, err := model.Predict(vector)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: %s: %w", ErrModelInference, day.Date.Format(models.DateLayout), err)
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return StepResult{}, fmt.Errorf("%w: %s: non-finite prediction %v", ErrModelInference, day.Date.Format(models.DateLayout), prediction)
	}

	return StepResult{
		Record: models.ForecastRecord{
			Date:            day.Date,
			TempMax:         day.TempMax,
			Rain:            day.Rain,
			Wind:            day.Wind,
			Humidity:        day.Humidity,
			Pressure:        day.Pressure,
			PredictedDemand: RoundDemand(prediction),
		},
		Features:   vector,
		Prediction: prediction,
		Next:       history.Advance(day.WithDemand(prediction)),
	}, nil
}

// Rollout forecasts the Horizon days following seed using the first Horizon entries
// of weather. Inputs are validated before the first prediction and any failure
// aborts the whole rollout; no partial result is returned.
func (e *RolloutEngine) Rollout(seed HistoryWindow, weather []models.WeatherDay, model DemandModel) (models.ForecastResult, error) {
	if seed.Len() < HistoryLength {
		return models.ForecastResult{}, fmt.Errorf("%w: seed holds %d days, need %d", ErrInsufficientHistory, seed.Len(), HistoryLength)
	}
	if len(weather) < Horizon {
		return models.ForecastResult{}, fmt.Errorf("%w: got %d days, need %d", ErrInsufficientWeather, len(weather), Horizon)
	}
	weather = weather[:Horizon]
	if err := checkWeatherDates(seed, weather); err != nil {
		return models.ForecastResult{}, err
	}

	records := make([]models.ForecastRecord, 0, Horizon)
	history := seed
	for _, day := range weather {
		step, err := e.Step(history, day, model)
		if err != nil {
			return models.ForecastResult{}, err
		}
		records = append(records, step.Record)
		history = step.Next
	}

	return models.ForecastResult{Records: records}, nil
}

func checkWeatherDates(seed HistoryWindow, weather []models.WeatherDay) error {
	prev := seed.LastDate()
	for _, w := range weather {
		if !models.IsNextDay(prev, w.Date) {
			return fmt.Errorf("%w: weather day %s does not follow %s",
				ErrNonContiguousDate, models.Day(w.Date).Format(models.DateLayout), prev.Format(models.DateLayout))
		}
		prev = models.Day(w.Date)
	}
	return nil
}

// RoundDemand rounds a prediction for display, half to even.
func RoundDemand(prediction float64) int {
	return int(math.RoundToEven(prediction))
}
