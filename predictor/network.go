package predictor

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
)

// layer is a fully connected layer. Only Weights and Biases are persisted.
type layer struct {
	Weights [][]float64 // [out][in]
	Biases  []float64

	// Adam moments.
	mW, vW [][]float64
	mB, vB []float64

	// Training-time caches, filled by forward and consumed by backward.
	input  []float64
	output []float64
	dW     [][]float64
	dB     []float64
}

// Network is a feedforward regressor with ReLU hidden layers and one linear output.
type Network struct {
	layers []layer
}

// TrainConfig holds the optimizer hyperparameters.
type TrainConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	BatchSize    int
	Epochs       int
}

// DefaultTrainConfig suits a few hundred daily rows.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.003,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		BatchSize:    32,
		Epochs:       400,
	}
}

// NewNetwork creates a network with He-initialized weights. sizes lists the width
// of every layer including input and output, e.g. [11, 32, 16, 1].
func NewNetwork(sizes []int, rng *rand.Rand) *Network {
	n := &Network{layers: make([]layer, len(sizes)-1)}
	for i := 0; i < len(sizes)-1; i++ {
		in, out := sizes[i], sizes[i+1]
		stddev := math.Sqrt(2.0 / float64(in))
		l := layer{
			Weights: make([][]float64, out),
			Biases:  make([]float64, out),
		}
		for j := range l.Weights {
			l.Weights[j] = make([]float64, in)
			for k := range l.Weights[j] {
				l.Weights[j][k] = rng.NormFloat64() * stddev
			}
		}
		n.layers[i] = l
	}
	n.resetOptimizer()
	return n
}

// InputSize is the expected input width.
func (n *Network) InputSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return len(n.layers[0].Weights[0])
}

func (n *Network) resetOptimizer() {
	for i := range n.layers {
		l := &n.layers[i]
		out, in := len(l.Weights), len(l.Weights[0])
		l.mW, l.vW, l.dW = makeMatrix(out, in), makeMatrix(out, in), makeMatrix(out, in)
		l.mB, l.vB, l.dB = make([]float64, out), make([]float64, out), make([]float64, out)
	}
}

// Infer evaluates the network without touching any training state, so it may be
// called from several goroutines at once.
func (n *Network) Infer(input []float64) float64 {
	x := input
	for i := range n.layers {
		x = n.layers[i].apply(x, i < len(n.layers)-1)
	}
	return x[0]
}

func (l *layer) apply(x []float64, relu bool) []float64 {
	y := make([]float64, len(l.Weights))
	for j, row := range l.Weights {
		sum := l.Biases[j]
		for k, w := range row {
			sum += w * x[k]
		}
		if relu && sum < 0 {
			sum = 0
		}
		y[j] = sum
	}
	return y
}

func (n *Network) forward(input []float64) float64 {
	x := input
	for i := range n.layers {
		l := &n.layers[i]
		l.input = append(l.input[:0], x...)
		l.output = l.apply(x, i < len(n.layers)-1)
		x = l.output
	}
	return x[0]
}

// backward accumulates gradients for the sample last passed to forward.
func (n *Network) backward(dOut float64) {
	dx := []float64{dOut}
	for i := len(n.layers) - 1; i >= 0; i-- {
		l := &n.layers[i]
		if i < len(n.layers)-1 {
			for j := range dx {
				if l.output[j] <= 0 {
					dx[j] = 0
				}
			}
		}
		for j := range l.Weights {
			l.dB[j] += dx[j]
			for k := range l.Weights[j] {
				l.dW[j][k] += dx[j] * l.input[k]
			}
		}
		if i == 0 {
			break
		}
		dIn := make([]float64, len(l.Weights[0]))
		for j := range l.Weights {
			for k, w := range l.Weights[j] {
				dIn[k] += dx[j] * w
			}
		}
		dx = dIn
	}
}

func (n *Network) zeroGrad() {
	for i := range n.layers {
		l := &n.layers[i]
		for j := range l.dW {
			clear(l.dW[j])
		}
		clear(l.dB)
	}
}

func (n *Network) adamStep(cfg TrainConfig, step int) {
	c1 := 1 - math.Pow(cfg.Beta1, float64(step))
	c2 := 1 - math.Pow(cfg.Beta2, float64(step))
	update := func(p, m, v *float64, g float64) {
		*m = cfg.Beta1**m + (1-cfg.Beta1)*g
		*v = cfg.Beta2**v + (1-cfg.Beta2)*g*g
		*p -= cfg.LearningRate * (*m / c1) / (math.Sqrt(*v/c2) + cfg.Epsilon)
	}
	for i := range n.layers {
		l := &n.layers[i]
		for j := range l.Weights {
			for k := range l.Weights[j] {
				update(&l.Weights[j][k], &l.mW[j][k], &l.vW[j][k], l.dW[j][k])
			}
			update(&l.Biases[j], &l.mB[j], &l.vB[j], l.dB[j])
		}
	}
}

// Fit runs mini-batch Adam on squared error and returns the mean absolute error on
// (valX, valY) after each epoch. Training mutates the network and is not safe for
// concurrent use with Infer.
func (n *Network) Fit(trainX [][]float64, trainY []float64, valX [][]float64, valY []float64, cfg TrainConfig, rng *rand.Rand) []float64 {
	order := make([]int, len(trainX))
	for i := range order {
		order[i] = i
	}
	batch := max(cfg.BatchSize, 1)

	step := 0
	losses := make([]float64, cfg.Epochs)
	for epoch := range cfg.Epochs {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for start := 0; start < len(order); start += batch {
			end := min(start+batch, len(order))
			n.zeroGrad()
			for _, idx := range order[start:end] {
				pred := n.forward(trainX[idx])
				n.backward(2 * (pred - trainY[idx]) / float64(end-start))
			}
			step++
			n.adamStep(cfg, step)
		}
		losses[epoch] = n.MAE(valX, valY)
	}
	return losses
}

// MAE is the mean absolute error of the network over a dataset, in the target's units.
func (n *Network) MAE(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for i := range x {
		sum += math.Abs(n.Infer(x[i]) - y[i])
	}
	return sum / float64(len(x))
}

type layerJSON struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// MarshalJSON writes weights and biases only.
func (n *Network) MarshalJSON() ([]byte, error) {
	out := struct {
		Layers []layerJSON `json:"layers"`
	}{Layers: make([]layerJSON, len(n.layers))}
	for i, l := range n.layers {
		out.Layers[i] = layerJSON{Weights: l.Weights, Biases: l.Biases}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores weights and biases and resets the optimizer.
func (n *Network) UnmarshalJSON(data []byte) error {
	var raw struct {
		Layers []layerJSON `json:"layers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Layers) == 0 {
		return errors.New("network has no layers")
	}
	n.layers = make([]layer, len(raw.Layers))
	for i, l := range raw.Layers {
		if len(l.Weights) == 0 || len(l.Weights) != len(l.Biases) {
			return errors.New("malformed layer")
		}
		if i > 0 && len(l.Weights[0]) != len(raw.Layers[i-1].Weights) {
			return errors.New("layer widths do not chain")
		}
		n.layers[i] = layer{Weights: l.Weights, Biases: l.Biases}
	}
	if len(n.layers[len(n.layers)-1].Weights) != 1 {
		return errors.New("network must have a single output")
	}
	n.resetOptimizer()
	return nil
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
