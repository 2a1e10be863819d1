package ml

import (
	"encoding/json"
	"fmt"
	"math"
)

// Layer is one dense layer of an exported network. Weights are row-major,
// one row per output unit.
type Layer struct {
	Activation string      `json:"activation"` // relu, sigmoid, tanh, linear
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
}

// Network is a feed-forward model exported by the offline training pipeline.
// The artifact holds the input step count and the dense layer stack; the
// final layer must produce a single unit.
type Network struct {
	Name       string  `json:"name"`
	InputSteps int     `json:"input_steps"`
	Layers     []Layer `json:"layers"`
}

// Decode parses a serialized network and checks its shape.
func Decode(data []byte) (*Network, error) {
	var n Network
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (n *Network) validate() error {
	if n.InputSteps <= 0 {
		return fmt.Errorf("network: input_steps must be positive")
	}
	if len(n.Layers) == 0 {
		return fmt.Errorf("network: no layers")
	}
	in := n.InputSteps
	for i, l := range n.Layers {
		if len(l.Weights) == 0 {
			return fmt.Errorf("network: layer %d has no weights", i)
		}
		if len(l.Biases) != len(l.Weights) {
			return fmt.Errorf("network: layer %d bias/weight mismatch", i)
		}
		for _, row := range l.Weights {
			if len(row) != in {
				return fmt.Errorf("network: layer %d expects %d inputs, weights have %d", i, in, len(row))
			}
		}
		switch l.Activation {
		case "relu", "sigmoid", "tanh", "linear":
		default:
			return fmt.Errorf("network: layer %d has unknown activation %q", i, l.Activation)
		}
		in = len(l.Weights)
	}
	if in != 1 {
		return fmt.Errorf("network: final layer must have one unit, got %d", in)
	}
	return nil
}

// Predict runs the forward pass over a flat input of InputSteps values and
// returns the scalar output in the model's normalized space.
func (n *Network) Predict(input []float64) (float64, error) {
	if len(input) != n.InputSteps {
		return 0, fmt.Errorf("network: expected %d inputs, got %d", n.InputSteps, len(input))
	}

	v := input
	for _, l := range n.Layers {
		out := make([]float64, len(l.Weights))
		for i, row := range l.Weights {
			z := l.Biases[i]
			for j, w := range row {
				z += w * v[j]
			}
			out[i] = activate(l.Activation, z)
		}
		v = out
	}
	return v[0], nil
}

// activate applies the layer activation with clamping for numerical
// stability on the sigmoid.
func activate(name string, x float64) float64 {
	switch name {
	case "relu":
		if x < 0 {
			return 0
		}
		return x
	case "sigmoid":
		if x > 20 {
			return 1
		}
		if x < -20 {
			return 0
		}
		return 1 / (1 + math.Exp(-x))
	case "tanh":
		return math.Tanh(x)
	default: // linear
		return x
	}
}
