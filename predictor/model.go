package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"cw-forecast/models"
)

// Normalization holds per-feature z-score parameters and those of the target.
type Normalization struct {
	FeatureMean []float64 `json:"feature_mean"`
	FeatureStd  []float64 `json:"feature_std"`
	TargetMean  float64   `json:"target_mean"`
	TargetStd   float64   `json:"target_std"`
}

func computeNormalization(x [][]float64, y []float64) Normalization {
	width := len(x[0])
	norm := Normalization{
		FeatureMean: make([]float64, width),
		FeatureStd:  make([]float64, width),
	}
	for c := 0; c < width; c++ {
		col := make([]float64, len(x))
		for r := range x {
			col[r] = x[r][c]
		}
		norm.FeatureMean[c], norm.FeatureStd[c] = meanStd(col)
	}
	norm.TargetMean, norm.TargetStd = meanStd(y)
	return norm
}

// validate rejects scales that would divide by zero or yield NaN at prediction time.
func (n Normalization) validate() error {
	for i, std := range n.FeatureStd {
		if !(std > 0) || math.IsInf(std, 0) {
			return fmt.Errorf("feature %s has non-positive std %v", models.FeatureNames[i], std)
		}
	}
	if !(n.TargetStd > 0) || math.IsInf(n.TargetStd, 0) {
		return fmt.Errorf("target has non-positive std %v", n.TargetStd)
	}
	return nil
}

func (n Normalization) features(v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = (v[i] - n.FeatureMean[i]) / n.FeatureStd[i]
	}
	return out
}

func (n Normalization) target(y float64) float64 {
	return (y - n.TargetMean) / n.TargetStd
}

func (n Normalization) denormalize(y float64) float64 {
	return y*n.TargetStd + n.TargetMean
}

// Metrics summarizes how a model scored on its held-out split.
type Metrics struct {
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	TestMAE   float64 `json:"test_mae"`
}

// savedModel is the on-disk artifact.
type savedModel struct {
	Features      []string      `json:"features"`
	Network       *Network      `json:"network"`
	Normalization Normalization `json:"normalization"`
	Metrics       Metrics       `json:"metrics"`
}

// DemandNetwork is a trained demand regressor over the eleven forecast features.
// It is read-only after construction and safe for concurrent Predict calls.
type DemandNetwork struct {
	net     *Network
	norm    Normalization
	metrics Metrics
}

// Predict returns the expected demand for v.
func (m *DemandNetwork) Predict(v models.FeatureVector) (float64, error) {
	values := v.Values()
	if len(values) != m.net.InputSize() {
		return 0, fmt.Errorf("model expects %d features, got %d", m.net.InputSize(), len(values))
	}
	return m.norm.denormalize(m.net.Infer(m.norm.features(values))), nil
}

// Metrics returns the held-out scores recorded at training time.
func (m *DemandNetwork) Metrics() Metrics {
	return m.metrics
}

// Save writes the model as indented JSON.
func (m *DemandNetwork) Save(path string) error {
	data, err := json.MarshalIndent(savedModel{
		Features:      models.FeatureNames,
		Network:       m.net,
		Normalization: m.norm,
		Metrics:       m.metrics,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model %s: %w", path, err)
	}
	return nil
}

// LoadDemandNetwork reads a model written by Save.
func LoadDemandNetwork(path string) (*DemandNetwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	return DecodeDemandNetwork(data)
}

// DecodeDemandNetwork parses a saved model and checks it matches the current feature set.
func DecodeDemandNetwork(data []byte) (*DemandNetwork, error) {
	var saved savedModel
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if saved.Network == nil {
		return nil, fmt.Errorf("decoding model: missing network")
	}
	if !slices.Equal(saved.Features, models.FeatureNames) {
		return nil, fmt.Errorf("model trained on features %v, want %v", saved.Features, models.FeatureNames)
	}
	width := len(models.FeatureNames)
	if saved.Network.InputSize() != width ||
		len(saved.Normalization.FeatureMean) != width || len(saved.Normalization.FeatureStd) != width {
		return nil, fmt.Errorf("model input width does not match %d features", width)
	}
	if err := saved.Normalization.validate(); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	return &DemandNetwork{net: saved.Network, norm: saved.Normalization, metrics: saved.Metrics}, nil
}
