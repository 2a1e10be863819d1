package ml

import (
	"math"
	"testing"
)

func TestDecodeRejectsShapeMismatch(t *testing.T) {
	// second layer expects 2 inputs but first produces 3
	data := []byte(`{
		"input_steps": 2,
		"layers": [
			{"activation": "relu", "weights": [[1,0],[0,1],[1,1]], "biases": [0,0,0]},
			{"activation": "linear", "weights": [[1,1]], "biases": [0]}
		]
	}`)
	if _, err := Decode(data); err == nil {
		t.Fatalf("expected shape error")
	}
}

func TestDecodeRejectsMultiOutput(t *testing.T) {
	data := []byte(`{
		"input_steps": 1,
		"layers": [{"activation": "linear", "weights": [[1],[2]], "biases": [0,0]}]
	}`)
	if _, err := Decode(data); err == nil {
		t.Fatalf("expected final layer error")
	}
}

func TestPredictIdentity(t *testing.T) {
	n := &Network{
		InputSteps: 3,
		Layers: []Layer{
			{Activation: "linear", Weights: [][]float64{{0, 0, 1}}, Biases: []float64{0}},
		},
	}
	got, err := n.Predict([]float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestPredictSigmoidBounds(t *testing.T) {
	n := &Network{
		InputSteps: 1,
		Layers: []Layer{
			{Activation: "sigmoid", Weights: [][]float64{{100}}, Biases: []float64{0}},
		},
	}
	hi, err := n.Predict([]float64{10})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if hi != 1 {
		t.Fatalf("expected clamped sigmoid 1, got %v", hi)
	}
	lo, _ := n.Predict([]float64{-10})
	if lo != 0 {
		t.Fatalf("expected clamped sigmoid 0, got %v", lo)
	}
}

func TestPredictInputSizeChecked(t *testing.T) {
	n := &Network{
		InputSteps: 2,
		Layers:     []Layer{{Activation: "linear", Weights: [][]float64{{1, 1}}, Biases: []float64{0}}},
	}
	if _, err := n.Predict([]float64{1}); err == nil {
		t.Fatalf("expected input size error")
	}
}
