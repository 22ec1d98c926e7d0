package polynomial

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfTrimsTrailingZeros(t *testing.T) {
	p := Of(1, 2, 0, 0)
	assert.Equal(t, 1, p.Degree())
	assert.Equal(t, []float64{1, 2}, p.Coefficients())
	assert.Equal(t, 0.0, p.At(5))
	assert.Equal(t, 0, Zero.Degree())
	assert.True(t, Zero.IsZero(0))
}

func TestArithmetic(t *testing.T) {
	p := Of(1, -0.5)
	q := Of(1, 0.3, 0.2)

	prod := p.Times(q)
	assert.True(t, prod.Equals(Of(1, -0.2, 0.05, -0.1), 1e-12))
	assert.True(t, p.Plus(q).Equals(Of(2, -0.2, 0.2), 1e-12))
	assert.True(t, q.Minus(q).IsZero(1e-15))
	assert.InDelta(t, 0.5, p.Evaluate(1), 1e-15)
	assert.InDelta(t, 2.0, p.Scale(2).Evaluate(0), 1e-15)
}

func TestDivide(t *testing.T) {
	p := Of(1, -0.5).Times(D1)

	quo, err := p.DivideExact(D1)
	require.NoError(t, err)
	assert.True(t, quo.Equals(Of(1, -0.5), 1e-12))

	_, err = p.DivideExact(Of(1, 0.9))
	require.ErrorIs(t, err, ErrNotDivisible)

	_, _, err = p.Divide(Zero)
	require.ErrorIs(t, err, ErrZeroDivisor)

	quo, rem, err := Of(1, 2, 3).Divide(Of(1, 1))
	require.NoError(t, err)
	assert.True(t, quo.Times(Of(1, 1)).Plus(rem).Equals(Of(1, 2, 3), 1e-12))
}

func TestRoots(t *testing.T) {
	tests := []struct {
		name  string
		p     Polynomial
		roots []complex128
	}{
		{"linear", Of(1, -0.5), []complex128{2}},
		{"real pair", Of(1, -0.5).Times(Of(1, 0.25)), []complex128{2, -4}},
		{"complex pair", Of(1, 0, 0.25), []complex128{complex(0, -2), complex(0, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots, err := tt.p.Roots()
			require.NoError(t, err)
			require.Len(t, roots, len(tt.roots))
			SortRoots(roots)
			for i, r := range roots {
				assert.InDelta(t, 0, cmplx.Abs(r-tt.roots[i]), 1e-9)
			}
			assert.True(t, FromRoots(roots).Equals(tt.p.Normalize(), 1e-9))
		})
	}
}

func TestSplitUnitRoots(t *testing.T) {
	p := Of(1, -0.6).Times(D1).Times(SeasonalSum(4))

	stat, nonstat, err := p.SplitUnitRoots()
	require.NoError(t, err)
	assert.True(t, stat.Equals(Of(1, -0.6), 1e-6), "stationary: %v", stat)
	assert.True(t, nonstat.Equals(Seasonal(4), 1e-6), "non stationary: %v", nonstat)

	stat, nonstat, err = Of(1, -0.6).SplitUnitRoots()
	require.NoError(t, err)
	assert.True(t, nonstat.Equals(One, 0))
	assert.True(t, stat.Equals(Of(1, -0.6), 0))
}

func TestSimplify(t *testing.T) {
	a := Of(1, -0.5)
	b := Of(1, 0.8)
	c := Of(1, 0, 0.49)

	common, l, r, ok := Simplify(a.Times(c), b.Times(c))
	require.True(t, ok)
	assert.True(t, common.Equals(c, 1e-8), "common: %v", common)
	assert.True(t, l.Equals(a, 1e-8))
	assert.True(t, r.Equals(b, 1e-8))

	common, l, r, ok = Simplify(a.Times(b), b)
	require.True(t, ok)
	assert.True(t, common.Equals(b, 1e-10))
	assert.True(t, l.Equals(a, 1e-10))
	assert.True(t, r.Equals(One, 1e-10))

	_, l, r, ok = Simplify(a, b)
	assert.False(t, ok)
	assert.True(t, l.Equals(a, 0))
	assert.True(t, r.Equals(b, 0))
}

func TestSeasonalOperators(t *testing.T) {
	s := Seasonal(12)
	assert.Equal(t, 12, s.Degree())
	prod := D1.Times(SeasonalSum(12))
	assert.True(t, prod.Equals(s, 1e-15))
	assert.InDelta(t, 12.0, SeasonalSum(12).Evaluate(1), 1e-15)
}

func TestString(t *testing.T) {
	assert.Equal(t, "1 - 0.5B + 0.25B^2", Of(1, -0.5, 0.25).String())
	assert.Equal(t, "0", Zero.String())
	assert.False(t, math.IsNaN(Of(1).Evaluate(3)))
}
