package forecast

import "cw-forecast/models"

// DemandModel is a trained one-step regressor. Implementations must be deterministic
// and must not mutate shared state in Predict, so one model can serve concurrent rollouts.
type DemandModel interface {
	Predict(v models.FeatureVector) (float64, error)
}

// DemandModelFunc adapts a plain function to DemandModel.
type DemandModelFunc func(v models.FeatureVector) (float64, error)

// Predict calls f(v).
func (f DemandModelFunc) Predict(v models.FeatureVector) (float64, error) {
	return f(v)
}
