// Package timeseries provides the series type read by the command line and
// its CSV input/output.
package timeseries

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrNonPositive is returned by Log when the series has values <= 0.
var ErrNonPositive = errors.New("timeseries: non-positive value")

// Series represents a time series with timestamps and values. Missing
// values are NaN.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values, without timestamps.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timeseries: timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasTimestamps reports whether every value has a timestamp.
func (s *Series) HasTimestamps() bool {
	return len(s.Timestamps) == len(s.Values) && len(s.Values) > 0
}

// HasMissing reports whether the series contains NaN.
func (s *Series) HasMissing() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// observed returns the non-missing values.
func (s *Series) observed() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean calculates the arithmetic mean of the observed values.
func (s *Series) Mean() float64 {
	x := s.observed()
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Variance calculates the sample variance of the observed values.
func (s *Series) Variance() float64 {
	x := s.observed()
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

// Std calculates the standard deviation of the observed values.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if s.HasTimestamps() {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	var timestamps []time.Time
	if s.Timestamps != nil {
		timestamps = make([]time.Time, len(s.Timestamps))
		copy(timestamps, s.Timestamps)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Log applies the natural logarithm. Missing values stay missing.
func (s *Series) Log() (*Series, error) {
	out := s.Copy()
	for i, v := range out.Values {
		if math.IsNaN(v) {
			continue
		}
		if v <= 0 {
			return nil, ErrNonPositive
		}
		out.Values[i] = math.Log(v)
	}
	return out, nil
}

// Extend returns the timestamps of the h periods following the series,
// assuming a constant step between the last two timestamps. It returns nil
// without timestamps.
func (s *Series) Extend(h int) []time.Time {
	n := len(s.Timestamps)
	if !s.HasTimestamps() || n < 2 || h <= 0 {
		return nil
	}
	last, prev := s.Timestamps[n-1], s.Timestamps[n-2]
	months := monthsBetween(prev, last)
	out := make([]time.Time, h)
	for i := range out {
		if months > 0 {
			out[i] = last.AddDate(0, months*(i+1), 0)
		} else {
			out[i] = last.Add(time.Duration(i+1) * last.Sub(prev))
		}
	}
	return out
}

// monthsBetween returns the number of months between two dates on the same
// day of month, or 0 when the step is not a whole number of months.
func monthsBetween(a, b time.Time) int {
	if a.Day() != b.Day() {
		return 0
	}
	return (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
}
