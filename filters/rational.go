package filters

import (
	"github.com/sartorproj/goseats/polynomial"
)

// Expand returns the first n coefficients of the power series num(B)/den(B).
// den must have a non-zero constant term.
func Expand(num, den polynomial.Polynomial, n int) []float64 {
	out := make([]float64, n)
	d0 := den.At(0)
	nd := den.Degree()
	for k := 0; k < n; k++ {
		s := num.At(k)
		for j := 1; j <= nd && j <= k; j++ {
			s -= den.At(j) * out[k-j]
		}
		out[k] = s / d0
	}
	return out
}

// AutoCovariances returns the autocovariances at lags 0..n-1 of the stationary
// process with autoregressive polynomial ar and moving-average spectrum sma,
// i.e. of the generating function sma(B,F) / (ar(B) ar(F)).
func AutoCovariances(ar polynomial.Polynomial, sma SymmetricFilter, n int) ([]float64, error) {
	g, err := sma.Decompose(ar)
	if err != nil {
		return nil, err
	}
	acov := Expand(g, ar, n)
	if n > 0 {
		acov[0] *= 2
	}
	return acov, nil
}
