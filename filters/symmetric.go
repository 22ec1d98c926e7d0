package filters

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/linsolve"
	"github.com/sartorproj/goseats/polynomial"
)

var (
	// ErrNotFactorizable is returned when a symmetric filter is not the
	// spectrum of a moving average (negative somewhere on the unit circle).
	ErrNotFactorizable = errors.New("filters: symmetric filter cannot be factorized")
	// ErrDecomposition is returned when a symmetric filter cannot be split
	// into two one-sided rational parts.
	ErrDecomposition = errors.New("filters: decomposition failed")
)

// SymmetricFilter is w0 + sum_k wk (B^k + F^k).
type SymmetricFilter struct {
	w []float64
}

// NewSymmetric creates a symmetric filter from its non-negative lags.
func NewSymmetric(weights ...float64) SymmetricFilter {
	n := len(weights)
	for n > 1 && weights[n-1] == 0 {
		n--
	}
	w := make([]float64, max(n, 1))
	copy(w, weights[:n])
	return SymmetricFilter{w: w}
}

// FromPolynomial returns p(B) p(F).
func FromPolynomial(p polynomial.Polynomial) SymmetricFilter {
	c := p.Coefficients()
	w := make([]float64, len(c))
	for k := range w {
		s := 0.0
		for i := 0; i+k < len(c); i++ {
			s += c[i] * c[i+k]
		}
		w[k] = s
	}
	return NewSymmetric(w...)
}

// Degree returns the largest lag with a non-zero weight.
func (s SymmetricFilter) Degree() int {
	if len(s.w) == 0 {
		return 0
	}
	return len(s.w) - 1
}

// At returns the weight of lag k (for either B^k or F^k).
func (s SymmetricFilter) At(k int) float64 {
	if k < 0 {
		k = -k
	}
	if k >= len(s.w) {
		return 0
	}
	return s.w[k]
}

// Weights returns a copy of w0..wn.
func (s SymmetricFilter) Weights() []float64 {
	w := make([]float64, s.Degree()+1)
	copy(w, s.w)
	return w
}

// IsNull reports whether every weight is within tol of zero.
func (s SymmetricFilter) IsNull(tol float64) bool {
	for _, v := range s.w {
		if math.Abs(v) > tol {
			return false
		}
	}
	return true
}

// Plus returns s + o.
func (s SymmetricFilter) Plus(o SymmetricFilter) SymmetricFilter {
	n := max(s.Degree(), o.Degree()) + 1
	w := make([]float64, n)
	for i := range w {
		w[i] = s.At(i) + o.At(i)
	}
	return NewSymmetric(w...)
}

// Scale returns k * s.
func (s SymmetricFilter) Scale(k float64) SymmetricFilter {
	w := make([]float64, len(s.w))
	for i, v := range s.w {
		w[i] = k * v
	}
	return NewSymmetric(w...)
}

// Times returns the product of two symmetric filters.
func (s SymmetricFilter) Times(o SymmetricFilter) SymmetricFilter {
	ns, no := s.Degree(), o.Degree()
	w := make([]float64, ns+no+1)
	for i := -ns; i <= ns; i++ {
		a := s.At(i)
		if a == 0 {
			continue
		}
		for j := -no; j <= no; j++ {
			if k := i + j; k >= 0 {
				w[k] += a * o.At(j)
			}
		}
	}
	return NewSymmetric(w...)
}

// TimesPolynomial returns s(B,F) p(B) p(F).
func (s SymmetricFilter) TimesPolynomial(p polynomial.Polynomial) SymmetricFilter {
	return s.Times(FromPolynomial(p))
}

// Spectrum evaluates w0 + 2 sum wk cos(k freq).
func (s SymmetricFilter) Spectrum(freq float64) float64 {
	v := s.At(0)
	for k := 1; k <= s.Degree(); k++ {
		v += 2 * s.w[k] * math.Cos(float64(k)*freq)
	}
	return v
}

// Decompose finds g such that s(B,F) = g(B) d(F) + g(F) d(B). The returned
// polynomial has degree max(deg s, deg d).
func (s SymmetricFilter) Decompose(d polynomial.Polynomial) (polynomial.Polynomial, error) {
	nd := d.Degree()
	n := max(s.Degree(), nd) + 1
	m := mat.NewDense(n, n, nil)
	rhs := make([]float64, n)
	for k := 0; k < n; k++ {
		for j := 0; j <= nd && k+j < n; j++ {
			m.Set(k, k+j, m.At(k, k+j)+d.At(j))
		}
		for i := 0; i < n && k+i <= nd; i++ {
			m.Set(k, i, m.At(k, i)+d.At(k+i))
		}
		rhs[k] = s.At(k)
	}
	g, err := linsolve.Solve(m, rhs)
	if err != nil {
		return polynomial.Zero, fmt.Errorf("%w: %v", ErrDecomposition, err)
	}
	return polynomial.Of(g...), nil
}

// Factorize finds theta (with theta0 = 1) and v such that
// s(B,F) = v theta(B) theta(F). The roots of theta lie on or outside the
// unit circle.
func (s SymmetricFilter) Factorize() (polynomial.Polynomial, float64, error) {
	n := s.Degree()
	w0 := s.At(0)
	if s.IsNull(0) {
		return polynomial.One, 0, nil
	}
	if w0 <= 0 {
		return polynomial.Zero, 0, fmt.Errorf("%w: non-positive variance %g", ErrNotFactorizable, w0)
	}
	if n == 0 {
		return polynomial.One, w0, nil
	}
	// z^n s(z, 1/z) has degree 2n; its roots come in pairs (r, 1/r).
	c := make([]float64, 2*n+1)
	for j := range c {
		c[j] = s.At(j - n)
	}
	roots, err := polynomial.Of(c...).Roots()
	if err != nil {
		return polynomial.Zero, 0, fmt.Errorf("%w: %v", ErrNotFactorizable, err)
	}
	var outside, unit []complex128
	for _, r := range roots {
		switch m := cmplx.Abs(r); {
		case math.Abs(m-1) < polynomial.UnitRootBand:
			unit = append(unit, r)
		case m > 1:
			outside = append(outside, r)
		}
	}
	if len(unit)%2 != 0 {
		return polynomial.Zero, 0, fmt.Errorf("%w: odd number of unit roots", ErrNotFactorizable)
	}
	// unit roots are double; keep one of each pair
	sort.Slice(unit, func(i, j int) bool {
		return unitAngle(unit[i]) < unitAngle(unit[j])
	})
	selected := outside
	for i := 0; i < len(unit); i += 2 {
		if cmplx.Abs(unit[i]-unit[i+1]) > 10*polynomial.UnitRootBand {
			return polynomial.Zero, 0, fmt.Errorf("%w: simple root on the unit circle", ErrNotFactorizable)
		}
		selected = append(selected, unit[i])
	}
	if len(selected) != n {
		return polynomial.Zero, 0, fmt.Errorf("%w: found %d roots outside the unit circle, want %d",
			ErrNotFactorizable, len(selected), n)
	}
	theta := polynomial.FromRoots(selected)
	ss := 0.0
	for _, v := range theta.Coefficients() {
		ss += v * v
	}
	v := w0 / ss
	if v <= 0 || math.IsNaN(v) {
		return polynomial.Zero, 0, fmt.Errorf("%w: variance %g", ErrNotFactorizable, v)
	}
	return theta, v, nil
}

func unitAngle(r complex128) float64 {
	a := cmplx.Phase(r)
	if math.Abs(imag(r)) < polynomial.RootTolerance {
		a = math.Abs(a)
	}
	return a
}
