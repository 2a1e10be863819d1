package preprocess

import (
	"fmt"
)

// MinMaxScaler holds the fitted bounds of one observed series. The zero
// value is unusable; scalers are produced by Fit and must only invert
// predictions made from the same series.
type MinMaxScaler struct {
	Min float64
	Max float64
}

// Fit computes the bounds over exactly the provided series.
func Fit(series []float64) (MinMaxScaler, error) {
	if len(series) == 0 {
		return MinMaxScaler{}, fmt.Errorf("scaler: empty series")
	}
	s := MinMaxScaler{Min: series[0], Max: series[0]}
	for _, v := range series[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s, nil
}

// Transform scales a single value into [0,1] over the fitted bounds.
// A degenerate series (min == max) scales to 0.
func (s MinMaxScaler) Transform(v float64) float64 {
	r := s.Max - s.Min
	if r == 0 {
		return 0
	}
	return (v - s.Min) / r
}

// Inverse maps a normalized value back to price units.
func (s MinMaxScaler) Inverse(v float64) float64 {
	return v*(s.Max-s.Min) + s.Min
}

// TransformAll scales every value of the series.
func (s MinMaxScaler) TransformAll(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = s.Transform(v)
	}
	return out
}
