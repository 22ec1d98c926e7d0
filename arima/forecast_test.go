package arima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goseats/polynomial"
)

func TestForecasts(t *testing.T) {
	data := []float64{1.2, 0.7, 1.9, 2.4, 2.1, 3.0, 2.8, 3.5}
	n := len(data)

	tests := []struct {
		name  string
		model func() (*Model, error)
		want  func(h int, z []float64) float64
	}{
		{
			name:  "random walk",
			model: func() (*Model, error) { return New(polynomial.One, polynomial.D1, polynomial.One, 1) },
			want:  func(h int, z []float64) float64 { return data[n-1] },
		},
		{
			name:  "ar1",
			model: func() (*Model, error) { return New(polynomial.Of(1, -0.6), polynomial.One, polynomial.One, 1) },
			want:  func(h int, z []float64) float64 { return data[n-1] * math.Pow(0.6, float64(h+1)) },
		},
		{
			name:  "seasonal random walk",
			model: func() (*Model, error) { return New(polynomial.One, polynomial.Seasonal(4), polynomial.One, 1) },
			want:  func(h int, z []float64) float64 { return data[n-4+h%4] },
		},
		{
			name:  "ari(1,1)",
			model: func() (*Model, error) { return New(polynomial.Of(1, -0.5), polynomial.D1, polynomial.One, 1) },
			want: func(h int, z []float64) float64 {
				w := data[n-1] - data[n-2]
				prev := data[n-1]
				if h > 0 {
					prev = z[h-1]
				}
				return prev + w*math.Pow(0.5, float64(h+1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.model()
			require.NoError(t, err)
			f, err := NewForecaster(m, false).Forecasts(data, 6)
			require.NoError(t, err)
			require.Len(t, f, 6)
			for h := range f {
				assert.InDelta(t, tt.want(h, f), f[h], 1e-9, "horizon %d", h+1)
			}
		})
	}
}

func TestForecastsWithMean(t *testing.T) {
	data := []float64{10, 12, 11, 13, 12, 14, 13, 15}
	m, _ := New(polynomial.One, polynomial.D1, polynomial.One, 1)
	f := NewForecaster(m, true)
	fc, err := f.Forecasts(data, 3)
	require.NoError(t, err)
	drift := (data[7] - data[0]) / 7
	assert.InDelta(t, drift, f.Mean(), 1e-6)
	for h := range fc {
		assert.InDelta(t, data[7]+drift*float64(h+1), fc[h], 1e-6)
	}

	bc, err := f.Backcasts(data, 2)
	require.NoError(t, err)
	assert.InDelta(t, data[0]-drift, bc[0], 1e-6)
	assert.InDelta(t, data[0]-2*drift, bc[1], 1e-6)
}

func TestForecastsWithMeanAR1(t *testing.T) {
	const phi = 0.7
	data := []float64{4.1, 5.3, 4.8, 6.2, 5.9, 4.4, 5.1, 6.8, 6.1, 5.6}
	m, err := New(polynomial.Of(1, -phi), polynomial.One, polynomial.One, 1)
	require.NoError(t, err)

	// exact GLS mean of a stationary AR(1)
	num := (1 - phi*phi) * data[0]
	den := 1 - phi*phi
	for i := 1; i < len(data); i++ {
		num += (1 - phi) * (data[i] - phi*data[i-1])
		den += (1 - phi) * (1 - phi)
	}
	mu := num / den
	sample := 0.0
	for _, v := range data {
		sample += v / float64(len(data))
	}
	require.Greater(t, math.Abs(mu-sample), 1e-3)

	f := NewForecaster(m, true)
	fc, err := f.Forecasts(data, 4)
	require.NoError(t, err)
	assert.InDelta(t, mu*(1-phi), f.Mean(), 1e-5)
	last := data[len(data)-1]
	for h := range fc {
		assert.InDelta(t, mu+math.Pow(phi, float64(h+1))*(last-mu), fc[h], 1e-5)
	}
}

func TestForecastsShortSeries(t *testing.T) {
	m, _ := New(polynomial.One, polynomial.Seasonal(4), polynomial.One, 1)
	_, err := NewForecaster(m, false).Forecasts([]float64{1, 2, 3}, 2)
	require.ErrorIs(t, err, ErrInsufficientData)

	f, err := NewForecaster(m, false).Forecasts([]float64{1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)
	assert.Empty(t, f)
}
