package ucarima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/arima"
	"github.com/sartorproj/goseats/filters"
	"github.com/sartorproj/goseats/linsolve"
	"github.com/sartorproj/goseats/polynomial"
)

// Limits of the truncated infinite sums used by the revision variances.
const (
	weightsTolerance = 1e-12
	maxWeights       = 1 << 16
)

// Filter is the rational symmetric filter
//
//	Numerator(B,F) / (Denominator(B) Denominator(F))
type Filter struct {
	Numerator   filters.SymmetricFilter
	Denominator polynomial.Polynomial
}

// IsNull reports whether the filter is zero.
func (f Filter) IsNull() bool {
	return f.Numerator.IsNull(0)
}

// Weights returns the coefficients at lags 0..n-1 of the filter.
func (f Filter) Weights(n int) ([]float64, error) {
	return filters.AutoCovariances(f.Denominator, f.Numerator, n)
}

// Gain evaluates the frequency response at freq (in radians).
func (f Filter) Gain(freq float64) float64 {
	d := f.Denominator.EvaluateComplex(complex(math.Cos(freq), -math.Sin(freq)))
	return f.Numerator.Spectrum(freq) / (real(d)*real(d) + imag(d)*imag(d))
}

// WienerKolmogorov computes the Wiener-Kolmogorov estimators of the
// components of a UCARIMA model and their error variances.
type WienerKolmogorov struct {
	ucm *Model
}

// NewWienerKolmogorov creates the estimators of ucm.
func NewWienerKolmogorov(ucm *Model) *WienerKolmogorov {
	return &WienerKolmogorov{ucm: ucm}
}

// Ucarima returns the underlying model.
func (wk *WienerKolmogorov) Ucarima() *Model { return wk.ucm }

// signalNoise returns the component (signal) and its complement (noise), or
// the opposite when signal is false.
func (wk *WienerKolmogorov) signalNoise(cmp int, signal bool) (*arima.Model, *arima.Model, error) {
	if cmp < 0 || cmp >= wk.ucm.ComponentsCount() {
		return nil, nil, fmt.Errorf("%w: index %d", ErrComponent, cmp)
	}
	c := wk.ucm.Component(cmp)
	n, err := wk.ucm.Complement(cmp)
	if err != nil {
		return nil, nil, err
	}
	if signal {
		return c, n, nil
	}
	return n, c, nil
}

// reducedAR splits aggregate AR / signal AR into nar / dar with no common
// factor.
func (wk *WienerKolmogorov) reducedAR(s *arima.Model) (nar, dar polynomial.Polynomial, err error) {
	agg := wk.ucm.Model()
	nar, err = agg.NonStationaryAR().DivideExact(s.NonStationaryAR())
	if err != nil {
		return polynomial.Zero, polynomial.Zero,
			fmt.Errorf("%w: unit roots of the component are not in the aggregate: %v", ErrComponent, err)
	}
	_, sar, scar, _ := polynomial.Simplify(agg.StationaryAR(), s.StationaryAR())
	return nar.Times(sar), scar, nil
}

// FinalFilter returns the Wiener-Kolmogorov filter of the component (signal
// true) or of its complement (signal false):
//
//	S_s(B,F) nar(B) nar(F) / (var theta(B) theta(F) dar(B) dar(F))
//
// where S_s is the spectral numerator of the signal, theta and var the MA
// and innovation variance of the aggregate and nar/dar the ratio between
// the autoregressive polynomials of the aggregate and of the signal.
func (wk *WienerKolmogorov) FinalFilter(cmp int, signal bool) (Filter, error) {
	s, _, err := wk.signalNoise(cmp, signal)
	if err != nil {
		return Filter{}, err
	}
	return wk.filter(s)
}

func (wk *WienerKolmogorov) filter(s *arima.Model) (Filter, error) {
	agg := wk.ucm.Model()
	if s.IsNull() {
		return Filter{Numerator: filters.NewSymmetric(0), Denominator: agg.MA()}, nil
	}
	nar, dar, err := wk.reducedAR(s)
	if err != nil {
		return Filter{}, err
	}
	v := agg.InnovationVariance()
	if v <= 0 {
		return Filter{}, fmt.Errorf("%w: aggregate model has no innovation variance", ErrVariance)
	}
	return Filter{
		Numerator:   s.SymmetricMA().TimesPolynomial(nar).Scale(1 / v),
		Denominator: agg.MA().Times(dar),
	}, nil
}

// FinalErrorVariance returns the variance of the error of the final
// (two-sided, infinite sample) estimator of a component.
func (wk *WienerKolmogorov) FinalErrorVariance(cmp int) (float64, error) {
	s, n, err := wk.signalNoise(cmp, true)
	if err != nil {
		return 0, err
	}
	return wk.finalErrorVariance(s, n)
}

func (wk *WienerKolmogorov) finalErrorVariance(s, n *arima.Model) (float64, error) {
	if s.IsNull() || n.IsNull() {
		return 0, nil
	}
	agg := wk.ucm.Model()
	common, _, _, _ := polynomial.Simplify(s.AR(), n.AR())
	num := s.SymmetricMA().Times(n.SymmetricMA()).Scale(1 / agg.InnovationVariance())
	acov, err := filters.AutoCovariances(agg.MA().Times(common), num, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrVariance, err)
	}
	if acov[0] < 0 || math.IsNaN(acov[0]) {
		return 0, fmt.Errorf("%w: negative final error variance %g", ErrVariance, acov[0])
	}
	return acov[0], nil
}

// TotalErrorVariance returns the variance of the estimation error of the
// component (or of its complement) at lags lag0, ..., lag0+nlags-1 from the
// end of the series. Lag 0 is the concurrent estimator; a negative lag -h is
// the forecast h periods ahead. The variance is the final error variance
// plus the revision variance.
func (wk *WienerKolmogorov) TotalErrorVariance(cmp int, signal bool, lag0, nlags int) ([]float64, error) {
	s, n, err := wk.signalNoise(cmp, signal)
	if err != nil {
		return nil, err
	}
	out := make([]float64, nlags)
	if s.IsNull() {
		return out, nil
	}
	vf, err := wk.finalErrorVariance(s, n)
	if err != nil {
		return nil, err
	}
	tau, rho, err := wk.revisionWeights(s, lag0+nlags, -lag0)
	if err != nil {
		return nil, err
	}
	v := wk.ucm.Model().InnovationVariance()
	// tail[i] = sum_{j>=i} tau_j^2
	tail := make([]float64, len(tau)+1)
	for i := len(tau) - 1; i >= 0; i-- {
		tail[i] = tail[i+1] + tau[i]*tau[i]
	}
	for l := range out {
		lag := lag0 + l
		var rev float64
		if lag >= 0 {
			if lag+1 < len(tail) {
				rev = tail[lag+1]
			}
		} else {
			rev = tail[1]
			for j := 0; j < -lag; j++ {
				rev += rho[j] * rho[j]
			}
		}
		out[l] = vf + v*rev
	}
	return out, nil
}

// revisionWeights computes the coefficients of the two-sided filter
// xi(B,F) = nu(B,F) psi(B) applied to the innovations of the aggregate:
// tau[i] is the weight of F^i and rho[j] the weight of B^j. tau is long
// enough for the lags up to maxLag and for its tail to be negligible; rho
// has nrho elements.
func (wk *WienerKolmogorov) revisionWeights(s *arima.Model, maxLag, nrho int) (tau, rho []float64, err error) {
	agg := wk.ucm.Model()
	nar, dar, err := wk.reducedAR(s)
	if err != nil {
		return nil, nil, err
	}
	// xi = k A(B) C(F) / (DF(F) DB(B)) = R(B)/DB(B) + T(F)/DF(F), T(0) = 0
	k := s.InnovationVariance() / agg.InnovationVariance()
	a := s.MA()
	c := s.MA().Times(nar)
	df := agg.MA().Times(dar)
	db := s.AR()

	na, nc, nf, nb := a.Degree(), c.Degree(), df.Degree(), db.Degree()
	nr := max(na, nb-1)
	ns := max(nc, nf)
	dim := nr + 1 + ns
	m := mat.NewDense(dim, dim, nil)
	rhs := make([]float64, dim)
	for row := 0; row < dim; row++ {
		pow := row - ns
		// R(B) DF(F): R_j df_l with j - l = pow
		for j := 0; j <= nr; j++ {
			if l := j - pow; l >= 0 && l <= nf {
				m.Set(row, j, df.At(l))
			}
		}
		// T(F) DB(B): T_i db_l with l - i = pow
		for i := 1; i <= ns; i++ {
			if l := pow + i; l >= 0 && l <= nb {
				m.Set(row, nr+i, db.At(l))
			}
		}
		// k A(B) C(F): a_j c_i with j - i = pow
		sum := 0.0
		for j := 0; j <= na; j++ {
			if i := j - pow; i >= 0 && i <= nc {
				sum += a.At(j) * c.At(i)
			}
		}
		rhs[row] = k * sum
	}
	x, err := linsolve.Solve(m, rhs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrVariance, err)
	}
	r := polynomial.Of(x[:nr+1]...)
	t := polynomial.Of(append([]float64{0}, x[nr+1:]...)...)

	rho = filters.Expand(r, db, max(nrho, 0))
	size := max(maxLag+2, 64)
	for {
		tau = filters.Expand(t, df, size)
		if converged(tau) {
			break
		}
		if size >= maxWeights {
			return nil, nil, fmt.Errorf("%w: revision weights do not converge", ErrVariance)
		}
		size *= 2
	}
	return tau, rho, nil
}

// converged reports whether the last quarter of w is negligible.
func converged(w []float64) bool {
	n := len(w)
	tail := w[n-n/4:]
	return floats.Norm(tail, 2) <= weightsTolerance*math.Max(1, floats.Norm(w, 2))
}
