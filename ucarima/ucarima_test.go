package ucarima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goseats/arima"
	"github.com/sartorproj/goseats/polynomial"
)

// localLevel returns the random walk plus noise model with unit variances.
func localLevel(t *testing.T) *Model {
	t.Helper()
	rw, err := arima.New(polynomial.One, polynomial.D1, polynomial.One, 1)
	require.NoError(t, err)
	ucm, err := FromComponents(rw, arima.WhiteNoise(1))
	require.NoError(t, err)
	return ucm
}

func TestFromComponents(t *testing.T) {
	ucm := localLevel(t)
	assert.Equal(t, 2, ucm.ComponentsCount())
	assert.Equal(t, 1, ucm.Model().NonStationaryARCount())

	c, err := ucm.Complement(0)
	require.NoError(t, err)
	assert.InDelta(t, 1, c.InnovationVariance(), 1e-12)
	_, err = ucm.Complement(2)
	require.ErrorIs(t, err, ErrComponent)

	_, err = FromComponents()
	require.ErrorIs(t, err, ErrComponent)
}

func TestCompact(t *testing.T) {
	rw, _ := arima.New(polynomial.One, polynomial.D1, polynomial.One, 1)
	seas, _ := arima.New(polynomial.One, polynomial.SeasonalSum(4), polynomial.One, 0.5)
	cycle, _ := arima.New(polynomial.Of(1, -0.7), polynomial.One, polynomial.One, 0.3)
	ucm, err := FromComponents(rw, seas, cycle, arima.WhiteNoise(1))
	require.NoError(t, err)

	compact, err := ucm.Compact(2, 2)
	require.NoError(t, err)
	require.Equal(t, 3, compact.ComponentsCount())
	merged := compact.Component(2)
	assert.True(t, merged.StationaryAR().Equals(polynomial.Of(1, -0.7), 1e-8))
	// spectra: 0.3 + (1-0.7B)(1-0.7F)
	want := 0.3 + 1.49
	assert.InDelta(t, want, merged.SymmetricMA().At(0), 1e-8)
	assert.InDelta(t, -0.7, merged.SymmetricMA().At(1), 1e-8)

	_, err = ucm.Compact(3, 2)
	require.ErrorIs(t, err, ErrComponent)
}

func TestFinalFilter(t *testing.T) {
	ucm := localLevel(t)
	wk := NewWienerKolmogorov(ucm)

	trend, err := wk.FinalFilter(0, true)
	require.NoError(t, err)
	irr, err := wk.FinalFilter(1, true)
	require.NoError(t, err)
	assert.InDelta(t, 1, trend.Gain(0), 1e-9)
	assert.InDelta(t, 0, irr.Gain(0), 1e-9)

	// the filters add up to the identity
	wt, err := trend.Weights(20)
	require.NoError(t, err)
	wi, err := irr.Weights(20)
	require.NoError(t, err)
	assert.InDelta(t, 1, wt[0]+wi[0], 1e-9)
	for k := 1; k < 20; k++ {
		assert.InDelta(t, 0, wt[k]+wi[k], 1e-9, "lag %d", k)
	}

	// the complement of the trend is the irregular
	noise, err := wk.FinalFilter(0, false)
	require.NoError(t, err)
	assert.InDelta(t, irr.Gain(0.7), noise.Gain(0.7), 1e-9)
}

func TestErrorVariances(t *testing.T) {
	wk := NewWienerKolmogorov(localLevel(t))

	vf, err := wk.FinalErrorVariance(0)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(5), vf, 1e-9)
	vi, err := wk.FinalErrorVariance(1)
	require.NoError(t, err)
	assert.InDelta(t, vf, vi, 1e-9)

	// steady state of the local level filter: filtered variance (sqrt(5)-1)/2,
	// one-step prediction variance (sqrt(5)+1)/2
	tv, err := wk.TotalErrorVariance(0, true, -1, 3)
	require.NoError(t, err)
	require.Len(t, tv, 3)
	assert.InDelta(t, (math.Sqrt(5)+1)/2, tv[0], 1e-8)
	assert.InDelta(t, (math.Sqrt(5)-1)/2, tv[1], 1e-8)
	assert.Less(t, tv[2], tv[1])
	assert.Greater(t, tv[2], vf)

	_, err = wk.TotalErrorVariance(5, true, 0, 1)
	require.ErrorIs(t, err, ErrComponent)
}

func TestNullComponent(t *testing.T) {
	rw, _ := arima.New(polynomial.One, polynomial.D1, polynomial.One, 1)
	ucm, err := FromComponents(rw, arima.Null())
	require.NoError(t, err)
	wk := NewWienerKolmogorov(ucm)

	f, err := wk.FinalFilter(1, true)
	require.NoError(t, err)
	assert.True(t, f.IsNull())

	tv, err := wk.TotalErrorVariance(1, true, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, tv)

	// the trend is the whole series
	vf, err := wk.FinalErrorVariance(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vf)
}
