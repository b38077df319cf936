package predictor

import (
	"math"

	"cw-forecast/models"
)

// BaselineReport holds the errors of the naive persistence forecasts.
type BaselineReport struct {
	Rows    int
	Lag1MAE float64
	Lag7MAE float64
}

// EvaluateBaselines scores "same as yesterday" and "same as a week ago" against targets.
// A trained model is only worth deploying if it beats both.
func EvaluateBaselines(vectors []models.FeatureVector, targets []float64) BaselineReport {
	r := BaselineReport{Rows: min(len(vectors), len(targets))}
	if r.Rows == 0 {
		return r
	}
	for i := 0; i < r.Rows; i++ {
		r.Lag1MAE += math.Abs(targets[i] - vectors[i].Lag1)
		r.Lag7MAE += math.Abs(targets[i] - vectors[i].Lag7)
	}
	r.Lag1MAE /= float64(r.Rows)
	r.Lag7MAE /= float64(r.Rows)
	return r
}
