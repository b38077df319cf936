package models

// FeatureNames is the fixed order in which a FeatureVector is handed to a regressor.
var FeatureNames = []string{
	"temp_max",
	"rain",
	"wind",
	"humidity",
	"pressure",
	"is_weekend",
	"dayofweek",
	"month",
	"lag_1",
	"lag_7",
	"rolling_7",
}

// FeatureVector is the model input for a single target day.
type FeatureVector struct {
	TempMax   float64 `json:"temp_max"`
	Rain      float64 `json:"rain"`
	Wind      float64 `json:"wind"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
	IsWeekend bool    `json:"is_weekend"`
	DayOfWeek int     `json:"dayofweek"` // Monday=0 .. Sunday=6
	Month     int     `json:"month"`     // 1-12
	Lag1      float64 `json:"lag_1"`
	Lag7      float64 `json:"lag_7"`
	Rolling7  float64 `json:"rolling_7"`
}

// Values returns the vector in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	weekend := 0.0
	if v.IsWeekend {
		weekend = 1
	}
	return []float64{
		v.TempMax,
		v.Rain,
		v.Wind,
		v.Humidity,
		v.Pressure,
		weekend,
		float64(v.DayOfWeek),
		float64(v.Month),
		v.Lag1,
		v.Lag7,
		v.Rolling7,
	}
}
