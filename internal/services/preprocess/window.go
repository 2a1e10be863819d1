package preprocess

import (
	"fmt"
)

// Tensor is a single-batch, fixed-step, single-feature model input.
type Tensor struct {
	Batch    int
	Steps    int
	Features int
	Data     []float64 // len == Steps
}

// BuildWindow fits a scaler to the full series and produces the model input
// tensor. Short series are scaled as-is and right-aligned into the window,
// zeros occupying the leading positions; long series keep only the most
// recent steps values, scaled with bounds from the whole series.
func BuildWindow(series []float64, steps int) (Tensor, MinMaxScaler, error) {
	if steps <= 0 {
		return Tensor{}, MinMaxScaler{}, fmt.Errorf("window: steps must be positive")
	}

	scaler, err := Fit(series)
	if err != nil {
		return Tensor{}, MinMaxScaler{}, err
	}

	scaled := scaler.TransformAll(series)

	data := make([]float64, steps)
	if len(scaled) < steps {
		copy(data[steps-len(scaled):], scaled)
	} else {
		copy(data, scaled[len(scaled)-steps:])
	}

	return Tensor{Batch: 1, Steps: steps, Features: 1, Data: data}, scaler, nil
}
