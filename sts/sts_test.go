package sts

import (
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/burman"
	"github.com/sartorproj/goseats/polynomial"
)

const basic = `
level:
  variance: 0.5
seasonal:
  period: 4
  variance: 0.1
  fixed: true
noise:
  variance: 1
`

func seasonalSeries(n int) []float64 {
	pattern := []float64{1.5, -0.5, -2, 1}
	out := make([]float64, n)
	for t := range out {
		out[t] = 10 + 0.05*float64(t) + pattern[t%4] + 0.3*math.Sin(2.1*float64(t*t))
	}
	return out
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec([]byte(basic))
	require.NoError(t, err)
	require.NotNil(t, s.Level)
	require.NotNil(t, s.Seasonal)
	assert.Nil(t, s.Slope)
	assert.Nil(t, s.AR)
	assert.Equal(t, 4, s.Seasonal.Period)
	assert.True(t, s.Seasonal.Fixed)
	assert.InDelta(t, 0.1, s.Seasonal.Variance, 0)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, s.Save(path))
	loaded, err := LoadSpec(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"empty", Spec{}},
		{"slope without level", Spec{Slope: &Param{Variance: 1}, Noise: &Param{Variance: 1}}},
		{"period", Spec{Seasonal: &SeasonalSpec{Period: 1}}},
		{"negative variance", Spec{Level: &Param{Variance: -1}}},
		{"no coefficients", Spec{AR: &CycleSpec{}}},
		{"non stationary", Spec{AR: &CycleSpec{Coefficients: []float64{1.2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.spec.Validate(), ErrSpec)
		})
	}

	_, err := ParseSpec([]byte("level: [1, 2]"))
	require.ErrorIs(t, err, ErrSpec)
}

func TestComposite(t *testing.T) {
	s := &Spec{
		Level:      &Param{Variance: 1},
		Slope:      &Param{Variance: 0.1},
		Seasonal:   &SeasonalSpec{Param: Param{Variance: 0.2}, Period: 4},
		AR:         &CycleSpec{Param: Param{Variance: 0.5}, Coefficients: []float64{0.5, 0.2}},
		Noise:      &Param{Variance: 1},
		Regression: []string{"a", "b"},
	}
	m, err := s.Composite(nil)
	require.NoError(t, err)
	assert.Equal(t, 2+3+2, m.StateDim())
	require.Equal(t, 3, m.ComponentsCount())
	assert.Equal(t, CycleName, m.ComponentName(2))
	assert.Equal(t, 5, m.ComponentPosition(2))

	x := mat.NewDense(10, 2, nil)
	m, err = s.Composite(x)
	require.NoError(t, err)
	assert.Equal(t, 9, m.StateDim())
	assert.Equal(t, RegressionName, m.ComponentName(3))

	_, err = s.Composite(mat.NewDense(10, 3, nil))
	require.ErrorIs(t, err, ErrRegressors)
}

func TestUcarima(t *testing.T) {
	s, err := ParseSpec([]byte(basic))
	require.NoError(t, err)
	ucm, err := s.Ucarima()
	require.NoError(t, err)
	require.Equal(t, 4, ucm.ComponentsCount())
	assert.True(t, ucm.Component(0).NonStationaryAR().Equals(polynomial.D1, 1e-12))
	assert.True(t, ucm.Component(1).NonStationaryAR().Equals(polynomial.SeasonalSum(4), 1e-12))
	assert.True(t, ucm.Component(2).IsNull())
	assert.InDelta(t, 1, ucm.Component(3).InnovationVariance(), 1e-12)
	assert.Equal(t, 4, ucm.Model().NonStationaryARCount())

	llt := &Spec{Level: &Param{Variance: 0.5}, Slope: &Param{Variance: 0.2}}
	ucm, err = llt.Ucarima()
	require.NoError(t, err)
	sma := ucm.Component(0).SymmetricMA()
	assert.InDelta(t, 2*0.5+0.2, sma.At(0), 1e-8)
	assert.InDelta(t, -0.5, sma.At(1), 1e-8)

	zero := &Spec{Level: &Param{}, Noise: &Param{}}
	_, err = zero.Ucarima()
	require.ErrorIs(t, err, ErrModel)
}

func TestEstimate(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	n := 200
	y := make([]float64, n)
	level := 0.0
	for i := range y {
		level += rng.NormFloat64()
		y[i] = level + 2*rng.NormFloat64()
	}
	start := &Spec{Level: &Param{Variance: 1}, Noise: &Param{Variance: 1}}

	before, err := Evaluate(y, start, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, before.Parameters)

	f, err := Estimate(y, start, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Parameters)
	assert.Greater(t, f.Spec.Level.Variance, 0.0)
	assert.Greater(t, f.Spec.Noise.Variance, 0.0)
	assert.GreaterOrEqual(t, f.LogLikelihood, before.LogLikelihood-1e-9)
	assert.Equal(t, n-1, f.Observations)
	assert.Len(t, f.Residuals, n-1)
	require.NotNil(t, f.LjungBox)
	assert.False(t, math.IsNaN(f.DurbinWatson))
	// the input is not modified
	assert.InDelta(t, 1, start.Level.Variance, 0)

	fixed := start.Clone()
	fixed.Noise.Fixed = true
	fixed.Noise.Variance = 4
	g, err := Estimate(y, fixed, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Parameters)
	assert.InDelta(t, 4, g.Spec.Noise.Variance, 0)
}

func TestEvaluateRegression(t *testing.T) {
	n := 60
	x := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := range y {
		v := float64(i % 5)
		x.Set(i, 0, v)
		y[i] = 2 + 3*v + 0.05*math.Sin(1.3*float64(i))
	}
	spec := &Spec{
		Level:      &Param{Variance: 0, Fixed: true},
		Noise:      &Param{Variance: 0.01, Fixed: true},
		Regression: []string{"x"},
	}
	cfg := DefaultConfig()
	cfg.Regressors = x
	f, err := Evaluate(y, spec, cfg)
	require.NoError(t, err)
	require.Len(t, f.Coefficients, 1)
	assert.InDelta(t, 3, f.Coefficients[0], 0.05)

	cfg.Regressors = mat.NewDense(n-1, 1, nil)
	_, err = Evaluate(y, spec, cfg)
	require.ErrorIs(t, err, ErrRegressors)
	cfg.Regressors = nil
	_, err = Evaluate(y, spec, cfg)
	require.ErrorIs(t, err, ErrRegressors)
}

func TestDecompose(t *testing.T) {
	spec, err := ParseSpec([]byte(basic))
	require.NoError(t, err)
	y := seasonalSeries(48)
	cfg := DefaultConfig()
	cfg.Forecasts = 8

	d, err := Decompose(y, spec, cfg)
	require.NoError(t, err)
	require.Len(t, d.Forecasts, 8)
	for i := range y {
		sum := d.Trend.Estimates[i] + d.Seasonal.Estimates[i] + d.Cycle.Estimates[i] + d.Irregular.Estimates[i]
		assert.InDelta(t, y[i], sum, 1e-6)
		assert.InDelta(t, y[i]-d.Seasonal.Estimates[i], d.Adjusted.Estimates[i], 1e-9)
		assert.Equal(t, 0.0, d.Cycle.Estimates[i])
	}
	for h := range d.Forecasts {
		sum := d.Trend.Forecasts[h] + d.Seasonal.Forecasts[h] + d.Irregular.Forecasts[h]
		assert.InDelta(t, d.Forecasts[h], sum, 1e-6)
	}
	assert.Len(t, d.Adjusted.StdevForecasts, 8)
	assert.Len(t, d.Trend.Stdev, 48)
	assert.Greater(t, d.Trend.Stdev[0], 0.0)
	assert.Len(t, d.Components(), 6)

	y[3] = math.NaN()
	_, err = Decompose(y, spec, cfg)
	require.ErrorIs(t, err, burman.ErrMissingValues)
}

func TestDecomposeMultiplicative(t *testing.T) {
	spec, err := ParseSpec([]byte(basic))
	require.NoError(t, err)
	y := seasonalSeries(40)
	cfg := DefaultConfig()
	cfg.Log = true
	cfg.Forecasts = 4

	d, err := Decompose(y, spec, cfg)
	require.NoError(t, err)
	assert.True(t, d.Multiplicative)
	for i := range y {
		prod := d.Trend.Estimates[i] * d.Seasonal.Estimates[i] * d.Cycle.Estimates[i] * d.Irregular.Estimates[i]
		assert.InDelta(t, 1, prod/y[i], 1e-6)
	}
	for _, v := range d.Forecasts {
		assert.Greater(t, v, 0.0)
	}

	y[0] = -1
	_, err = Decompose(y, spec, cfg)
	require.ErrorIs(t, err, ErrSpec)
}

func TestDecomposeRegression(t *testing.T) {
	n, nf := 48, 4
	x := mat.NewDense(n+nf, 1, nil)
	y := seasonalSeries(n)
	for i := 0; i < n+nf; i++ {
		if i%7 == 0 {
			x.Set(i, 0, 1)
		}
	}
	for i := range y {
		y[i] += 5 * x.At(i, 0)
	}
	spec, err := ParseSpec([]byte(basic + "regression: [outlier]\n"))
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Forecasts = nf
	cfg.Regressors = x

	d, err := Decompose(y, spec, cfg)
	require.NoError(t, err)
	require.Len(t, d.Fit.Coefficients, 1)
	assert.InDelta(t, 5, d.Fit.Coefficients[0], 1)
	for i := range y {
		assert.InDelta(t, y[i]-d.Regression.Estimates[i], d.Linearized[i], 1e-12)
	}
	assert.InDelta(t, d.Fit.Coefficients[0], d.Regression.Forecasts[1], 1e-12) // row 49 = 7*7

	cfg.Regressors = x.Slice(0, n, 0, 1).(*mat.Dense)
	_, err = Decompose(y, spec, cfg)
	require.ErrorIs(t, err, ErrRegressors)
}
