// Package simulator generates synthetic wash counts for weather history so a model
// can be trained before real sales data exists.
package simulator

import (
	"math/rand/v2"

	"cw-forecast/forecast"
	"cw-forecast/models"
)

const (
	baseDemand  = 80
	minDemand   = 5
	noiseStdDev = 5.0
)

// DemandFor applies the demand rules to one day with the given noise term.
func DemandFor(day models.WeatherDay, weekend forecast.WeekendSet, noise float64) int {
	d := float64(baseDemand)
	if weekend.Contains(day.Date.Weekday()) {
		d += 25
	}
	switch {
	case day.TempMax > 42:
		d -= 20
	case day.TempMax < 30:
		d += 10
	}
	if day.Rain > 0 {
		d += 15
	}
	if day.Wind > 30 {
		d -= 10
	}
	d += noise
	return max(minDemand, int(d))
}

// SimulateDemand attaches a synthetic demand to every day. The same seed always yields
// the same series.
func SimulateDemand(days []models.WeatherDay, weekend forecast.WeekendSet, seed uint64) []models.ObservationDay {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]models.ObservationDay, len(days))
	for i, day := range days {
		out[i] = day.WithDemand(float64(DemandFor(day, weekend, rng.NormFloat64()*noiseStdDev)))
	}
	return out
}
