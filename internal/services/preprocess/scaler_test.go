package preprocess

import (
	"math"
	"testing"
)

func TestFitEmptySeries(t *testing.T) {
	if _, err := Fit(nil); err == nil {
		t.Fatalf("expected error for empty series")
	}
}

func TestInverseIsLeftInverse(t *testing.T) {
	series := []float64{42000, 43150.5, 41010.25, 45999.99}
	s, err := Fit(series)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, p := range series {
		got := s.Inverse(s.Transform(p))
		if math.Abs(got-p) > 1e-9 {
			t.Fatalf("roundtrip %v -> %v", p, got)
		}
	}
}

func TestDegenerateSeriesScalesToZero(t *testing.T) {
	s, err := Fit([]float64{7, 7, 7})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := s.Transform(7); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := s.Inverse(0.5); got != 7 {
		t.Fatalf("expected min back, got %v", got)
	}
}

func TestBuildWindowShortSeriesPadsLeft(t *testing.T) {
	series := []float64{10, 20, 30}
	tensor, scaler, err := BuildWindow(series, 120)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tensor.Batch != 1 || tensor.Steps != 120 || tensor.Features != 1 {
		t.Fatalf("unexpected shape (%d,%d,%d)", tensor.Batch, tensor.Steps, tensor.Features)
	}
	if len(tensor.Data) != 120 {
		t.Fatalf("unexpected data length %d", len(tensor.Data))
	}
	for i := 0; i < 117; i++ {
		if tensor.Data[i] != 0 {
			t.Fatalf("expected zero padding at %d, got %v", i, tensor.Data[i])
		}
	}
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if got := tensor.Data[117+i]; math.Abs(got-w) > 1e-12 {
			t.Fatalf("expected %v at tail index %d, got %v", w, i, got)
		}
	}
	if scaler.Min != 10 || scaler.Max != 30 {
		t.Fatalf("unexpected bounds [%v,%v]", scaler.Min, scaler.Max)
	}
}

func TestBuildWindowLongSeriesKeepsTailWithFullBounds(t *testing.T) {
	// 130 increasing values; bounds must come from the full series even
	// though only the last 120 enter the tensor.
	series := make([]float64, 130)
	for i := range series {
		series[i] = float64(i + 1)
	}
	tensor, scaler, err := BuildWindow(series, 120)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if scaler.Min != 1 || scaler.Max != 130 {
		t.Fatalf("bounds must cover the full series, got [%v,%v]", scaler.Min, scaler.Max)
	}
	for i := 0; i < 120; i++ {
		raw := series[len(series)-120+i]
		want := (raw - 1) / 129
		if got := tensor.Data[i]; math.Abs(got-want) > 1e-12 {
			t.Fatalf("index %d: want %v got %v", i, want, got)
		}
	}
}

func TestBuildWindowExactLength(t *testing.T) {
	series := make([]float64, 120)
	for i := range series {
		series[i] = float64(i + 1)
	}
	tensor, _, err := BuildWindow(series, 120)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 120; i++ {
		want := float64(i) / 119
		if math.Abs(tensor.Data[i]-want) > 1e-12 {
			t.Fatalf("index %d: want %v got %v", i, want, tensor.Data[i])
		}
	}
}
