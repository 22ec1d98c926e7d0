package stats

import (
	"math"
	"testing"
)

func ar1(n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}
	return values
}

func TestACF(t *testing.T) {
	acf := ACF(ar1(100, 0.8), 10)
	if acf == nil {
		t.Fatal("ACF returned nil")
	}
	if len(acf) != 11 {
		t.Fatalf("Expected 11 lags, got %d", len(acf))
	}
	if math.Abs(acf[0]-1.0) > 1e-10 {
		t.Errorf("ACF at lag 0 should be 1, got %f", acf[0])
	}
	if acf[1] < 0.5 {
		t.Errorf("ACF at lag 1 should be large for AR(1), got %f", acf[1])
	}
}

func TestACFEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		lags   int
		want   int
	}{
		{"empty", nil, 3, 0},
		{"constant", []float64{2, 2, 2, 2}, 2, 0},
		{"truncated", []float64{1, 2, 3}, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ACF(tt.values, tt.lags)); got != tt.want {
				t.Errorf("Expected %d values, got %d", tt.want, got)
			}
		})
	}
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.1, -0.3, 0.05}
	lags := SignificantLags(values, ConfidenceBound(100))

	expected := []int{1, 3}
	if len(lags) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, lags)
	}
	for i, l := range expected {
		if lags[i] != l {
			t.Errorf("Expected lag %d, got %d", l, lags[i])
		}
	}
}

func TestLjungBox(t *testing.T) {
	noise := make([]float64, 100)
	for i := range noise {
		noise[i] = math.Sin(float64(i*i) * 0.37)
	}
	result := LjungBox(noise, 10, 0)
	if result == nil {
		t.Fatal("LjungBox returned nil")
	}
	if result.DOF != 10 || result.Lags != 10 {
		t.Errorf("Unexpected degrees of freedom %d / lags %d", result.DOF, result.Lags)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("P-value out of range: %f", result.PValue)
	}

	correlated := LjungBox(ar1(100, 0.9), 10, 2)
	if correlated == nil {
		t.Fatal("LjungBox returned nil for autocorrelated data")
	}
	if correlated.DOF != 8 {
		t.Errorf("Expected 8 degrees of freedom, got %d", correlated.DOF)
	}
	if correlated.PValue > 0.01 {
		t.Errorf("Expected autocorrelation to be detected, p-value %f", correlated.PValue)
	}
	if correlated.Statistic <= result.Statistic {
		t.Errorf("Expected a larger statistic, got %f <= %f", correlated.Statistic, result.Statistic)
	}

	if LjungBox(noise[:5], 3, 0) != nil {
		t.Error("Expected nil for short series")
	}
}

func TestDurbinWatson(t *testing.T) {
	tests := []struct {
		name      string
		residuals []float64
		expected  float64
	}{
		{"alternating", []float64{1, -1, 1, -1, 1, -1, 1, -1}, 3.5},
		{"persistent", []float64{1, 1, 1, 1, -1, -1, -1, -1}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurbinWatson(tt.residuals); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}

	if !math.IsNaN(DurbinWatson([]float64{1})) {
		t.Error("Expected NaN for a single residual")
	}
}
