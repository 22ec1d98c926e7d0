package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	if s.HasTimestamps() {
		t.Error("Expected no timestamps")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"missing", []float64{1, math.NaN(), 3}, 2.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571

	if result := s.Variance(); math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, result)
	}
	if result := s.Std(); math.Abs(result-math.Sqrt(expected)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(expected), result)
	}
}

func TestHasMissing(t *testing.T) {
	if New([]float64{1, 2}).HasMissing() {
		t.Error("Expected no missing values")
	}
	if !New([]float64{1, math.NaN()}).HasMissing() {
		t.Error("Expected missing values")
	}
}

func TestSliceAndCopy(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0), base.AddDate(0, 3, 0)}
	s, err := NewWithTimestamps(ts, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}

	sub := s.Slice(1, 3)
	if sub.Len() != 2 || sub.Values[0] != 2 || !sub.Timestamps[0].Equal(ts[1]) {
		t.Errorf("Unexpected slice %v", sub.Values)
	}
	if s.Slice(3, 1).Len() != 0 {
		t.Error("Expected empty slice")
	}

	c := s.Copy()
	c.Values[0] = 100
	if s.Values[0] != 1 {
		t.Error("Copy shares its values")
	}

	if _, err := NewWithTimestamps(ts[:2], []float64{1}); err == nil {
		t.Error("Expected a length error")
	}
}

func TestLog(t *testing.T) {
	s := New([]float64{1, math.E, math.NaN()})
	l, err := s.Log()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(l.Values[1]-1) > 1e-12 || !math.IsNaN(l.Values[2]) {
		t.Errorf("Unexpected log values %v", l.Values)
	}
	if _, err := New([]float64{1, 0}).Log(); !errors.Is(err, ErrNonPositive) {
		t.Errorf("Expected ErrNonPositive, got %v", err)
	}
}

func TestExtend(t *testing.T) {
	monthly := []time.Time{
		time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	s, _ := NewWithTimestamps(monthly, []float64{1, 2})
	next := s.Extend(2)
	if len(next) != 2 || next[0].Month() != time.January || next[1].Month() != time.February {
		t.Errorf("Unexpected monthly extension %v", next)
	}

	daily := []time.Time{monthly[0], monthly[0].AddDate(0, 0, 1)}
	s, _ = NewWithTimestamps(daily, []float64{1, 2})
	if next := s.Extend(1); !next[0].Equal(monthly[0].AddDate(0, 0, 2)) {
		t.Errorf("Unexpected daily extension %v", next)
	}

	if New([]float64{1, 2}).Extend(3) != nil {
		t.Error("Expected no extension without timestamps")
	}
}
