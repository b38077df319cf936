package predictor

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"cw-forecast/models"
)

// MinTrainingRows is the smallest dataset TrainDemandNetwork accepts.
const MinTrainingRows = 10

// TrainOptions configures TrainDemandNetwork.
type TrainOptions struct {
	Hidden       []int
	TestFraction float64
	Seed         uint64
	Config       TrainConfig
}

// DefaultTrainOptions mirrors the 80/20 chronological split used for evaluation.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Hidden:       []int{32, 16},
		TestFraction: 0.2,
		Seed:         42,
		Config:       DefaultTrainConfig(),
	}
}

// TrainDemandNetwork fits a network on date-ordered rows. The last TestFraction of
// rows is held out, never shuffled into training, and scored with MAE.
func TrainDemandNetwork(vectors []models.FeatureVector, targets []float64, opts TrainOptions) (*DemandNetwork, []float64, error) {
	if len(vectors) != len(targets) {
		return nil, nil, fmt.Errorf("got %d feature rows and %d targets", len(vectors), len(targets))
	}
	if len(vectors) < MinTrainingRows {
		return nil, nil, fmt.Errorf("need at least %d rows to train, got %d", MinTrainingRows, len(vectors))
	}
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		return nil, nil, errors.New("test fraction must be between 0 and 1")
	}

	x := make([][]float64, len(vectors))
	for i, v := range vectors {
		x[i] = v.Values()
	}
	split := int(float64(len(x)) * (1 - opts.TestFraction))
	split = min(max(split, 1), len(x)-1)

	norm := computeNormalization(x[:split], targets[:split])
	encode := func(rows [][]float64, ys []float64) ([][]float64, []float64) {
		ex := make([][]float64, len(rows))
		ey := make([]float64, len(ys))
		for i := range rows {
			ex[i] = norm.features(rows[i])
			ey[i] = norm.target(ys[i])
		}
		return ex, ey
	}
	trainX, trainY := encode(x[:split], targets[:split])
	testX, testY := encode(x[split:], targets[split:])

	sizes := append([]int{len(models.FeatureNames)}, opts.Hidden...)
	sizes = append(sizes, 1)
	rng := rand.New(rand.NewPCG(opts.Seed, 0))
	net := NewNetwork(sizes, rng)
	losses := net.Fit(trainX, trainY, testX, testY, opts.Config, rng)
	for i := range losses {
		losses[i] *= norm.TargetStd
	}

	model := &DemandNetwork{net: net, norm: norm}
	model.metrics = Metrics{
		TrainRows: split,
		TestRows:  len(x) - split,
		TestMAE:   meanAbsoluteError(model, vectors[split:], targets[split:]),
	}
	return model, losses, nil
}

func meanAbsoluteError(m *DemandNetwork, vectors []models.FeatureVector, targets []float64) float64 {
	var sum float64
	for i, v := range vectors {
		p, err := m.Predict(v)
		if err != nil {
			return math.NaN()
		}
		sum += math.Abs(p - targets[i])
	}
	return sum / float64(len(vectors))
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(values)))
	if std < 1e-10 {
		std = 1
	}
	return mean, std
}
