package polynomial

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tolerances used when comparing coefficients and roots.
const (
	Epsilon       = 1e-9
	RootTolerance = 1e-6
	UnitRootBand  = 1e-4
)

var (
	// ErrNotDivisible is returned by DivideExact when the remainder is not negligible.
	ErrNotDivisible = errors.New("polynomial: division leaves a remainder")
	// ErrZeroDivisor is returned when dividing by the zero polynomial.
	ErrZeroDivisor = errors.New("polynomial: division by zero polynomial")
	// ErrRoots is returned when the eigenvalue decomposition of the companion matrix fails.
	ErrRoots = errors.New("polynomial: root computation failed")
)

// Polynomial is an immutable real polynomial c0 + c1 z + ... + cn z^n.
// The zero value is the zero polynomial.
type Polynomial struct {
	c []float64
}

// One is the constant polynomial 1.
var One = Of(1)

// Zero is the zero polynomial.
var Zero = Polynomial{}

// D1 is the first difference operator 1 - B.
var D1 = Of(1, -1)

// Of creates a polynomial from its coefficients in increasing degree.
// Trailing zero coefficients are dropped.
func Of(coefficients ...float64) Polynomial {
	n := len(coefficients)
	for n > 0 && coefficients[n-1] == 0 {
		n--
	}
	c := make([]float64, n)
	copy(c, coefficients[:n])
	return Polynomial{c: c}
}

// Seasonal returns the seasonal difference 1 - B^period.
func Seasonal(period int) Polynomial {
	c := make([]float64, period+1)
	c[0] = 1
	c[period] = -1
	return Of(c...)
}

// SeasonalSum returns 1 + B + ... + B^(period-1).
func SeasonalSum(period int) Polynomial {
	c := make([]float64, period)
	for i := range c {
		c[i] = 1
	}
	return Of(c...)
}

// Degree returns the degree; the zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	if len(p.c) == 0 {
		return 0
	}
	return len(p.c) - 1
}

// At returns the coefficient of z^i (0 outside the support).
func (p Polynomial) At(i int) float64 {
	if i < 0 || i >= len(p.c) {
		return 0
	}
	return p.c[i]
}

// Coefficients returns a copy of the coefficients, of length Degree()+1.
func (p Polynomial) Coefficients() []float64 {
	c := make([]float64, p.Degree()+1)
	copy(c, p.c)
	return c
}

// IsZero reports whether all coefficients are within tol of zero.
func (p Polynomial) IsZero(tol float64) bool {
	for _, v := range p.c {
		if math.Abs(v) > tol {
			return false
		}
	}
	return true
}

// IsConstant reports whether the polynomial has degree 0.
func (p Polynomial) IsConstant() bool {
	return len(p.c) <= 1
}

// Equals compares two polynomials coefficient by coefficient.
func (p Polynomial) Equals(q Polynomial, tol float64) bool {
	n := max(len(p.c), len(q.c))
	for i := 0; i < n; i++ {
		if math.Abs(p.At(i)-q.At(i)) > tol {
			return false
		}
	}
	return true
}

// Evaluate computes p(x) with Horner's scheme.
func (p Polynomial) Evaluate(x float64) float64 {
	s := 0.0
	for i := len(p.c) - 1; i >= 0; i-- {
		s = s*x + p.c[i]
	}
	return s
}

// EvaluateComplex computes p(z).
func (p Polynomial) EvaluateComplex(z complex128) complex128 {
	var s complex128
	for i := len(p.c) - 1; i >= 0; i-- {
		s = s*z + complex(p.c[i], 0)
	}
	return s
}

// Plus returns p + q.
func (p Polynomial) Plus(q Polynomial) Polynomial {
	n := max(len(p.c), len(q.c))
	c := make([]float64, n)
	for i := range c {
		c[i] = p.At(i) + q.At(i)
	}
	return Of(c...)
}

// Minus returns p - q.
func (p Polynomial) Minus(q Polynomial) Polynomial {
	return p.Plus(q.Scale(-1))
}

// Scale returns k * p.
func (p Polynomial) Scale(k float64) Polynomial {
	c := make([]float64, len(p.c))
	for i, v := range p.c {
		c[i] = k * v
	}
	return Of(c...)
}

// Times returns the product p * q.
func (p Polynomial) Times(q Polynomial) Polynomial {
	if len(p.c) == 0 || len(q.c) == 0 {
		return Zero
	}
	c := make([]float64, len(p.c)+len(q.c)-1)
	for i, a := range p.c {
		if a == 0 {
			continue
		}
		for j, b := range q.c {
			c[i+j] += a * b
		}
	}
	return Of(c...)
}

// Normalize divides the coefficients by c0 so that the constant term is 1.
// It returns the polynomial unchanged when c0 is zero.
func (p Polynomial) Normalize() Polynomial {
	c0 := p.At(0)
	if c0 == 0 || c0 == 1 {
		return p
	}
	return p.Scale(1 / c0)
}

// Divide performs the long division p = q*quotient + remainder.
func (p Polynomial) Divide(q Polynomial) (quotient, remainder Polynomial, err error) {
	if q.IsZero(0) {
		return Zero, Zero, ErrZeroDivisor
	}
	nq := q.Degree()
	lead := q.c[nq]
	if p.Degree() < nq || len(p.c) == 0 {
		return Zero, p, nil
	}
	r := p.Coefficients()
	quo := make([]float64, len(r)-nq)
	for i := len(quo) - 1; i >= 0; i-- {
		k := r[i+nq] / lead
		quo[i] = k
		for j := 0; j <= nq; j++ {
			r[i+j] -= k * q.c[j]
		}
		r[i+nq] = 0
	}
	return Of(quo...), Of(r[:nq]...), nil
}

// DivideExact divides p by q and fails when the remainder is not negligible
// relative to the size of p.
func (p Polynomial) DivideExact(q Polynomial) (Polynomial, error) {
	quo, rem, err := p.Divide(q)
	if err != nil {
		return Zero, err
	}
	scale := math.Max(1, p.norm())
	if !rem.IsZero(RootTolerance * scale) {
		return Zero, fmt.Errorf("%w: (%v)/(%v)", ErrNotDivisible, p, q)
	}
	return quo, nil
}

func (p Polynomial) norm() float64 {
	s := 0.0
	for _, v := range p.c {
		s = math.Max(s, math.Abs(v))
	}
	return s
}

// Roots returns the complex roots, computed as the eigenvalues of the
// companion matrix.
func (p Polynomial) Roots() ([]complex128, error) {
	n := p.Degree()
	if n == 0 {
		return nil, nil
	}
	lead := p.c[n]
	if n == 1 {
		return []complex128{complex(-p.c[0]/lead, 0)}, nil
	}
	companion := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		companion.Set(0, j, -p.c[n-1-j]/lead)
	}
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, ErrRoots
	}
	return eig.Values(nil), nil
}

// FromRoots returns prod(1 - z/r) over the given roots. The roots must be
// closed under conjugation; the imaginary residue is discarded.
func FromRoots(roots []complex128) Polynomial {
	c := []complex128{1}
	for _, r := range roots {
		inv := 1 / r
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * inv
		}
		c = next
	}
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return Of(out...)
}

// SplitUnitRoots factorizes p = c0 * stationary * nonStationary where the
// roots of nonStationary lie on the unit circle. Both factors have a unit
// constant term; c0 is carried by the stationary factor.
func (p Polynomial) SplitUnitRoots() (stationary, nonStationary Polynomial, err error) {
	roots, err := p.Roots()
	if err != nil {
		return Zero, Zero, err
	}
	var unit []complex128
	for _, r := range roots {
		if math.Abs(cmplx.Abs(r)-1) < UnitRootBand {
			unit = append(unit, r)
		}
	}
	if len(unit) == 0 {
		return p, One, nil
	}
	nonStationary = FromRoots(unit)
	quo, _, err := p.Divide(nonStationary)
	if err != nil {
		return Zero, Zero, err
	}
	return quo, nonStationary, nil
}

// Simplify removes the common factor of left and right. It returns the
// common factor and the reduced polynomials, and reports whether anything
// was removed. The reduced polynomials keep their constant terms.
func Simplify(left, right Polynomial) (common, l, r Polynomial, ok bool) {
	if left.IsConstant() || right.IsConstant() {
		return One, left, right, false
	}
	if quo, err := left.DivideExact(right.Normalize()); err == nil {
		return right.Normalize(), quo, Of(right.At(0)), true
	}
	if quo, err := right.DivideExact(left.Normalize()); err == nil {
		return left.Normalize(), Of(left.At(0)), quo, true
	}
	lroots, err := left.Roots()
	if err != nil {
		return One, left, right, false
	}
	rroots, err := right.Roots()
	if err != nil {
		return One, left, right, false
	}
	used := make([]bool, len(lroots))
	var shared []complex128
	for _, rr := range rroots {
		best, dist := -1, RootTolerance
		for i, lr := range lroots {
			if used[i] {
				continue
			}
			if d := cmplx.Abs(lr - rr); d < dist*math.Max(1, cmplx.Abs(rr)) {
				best, dist = i, d
			}
		}
		if best >= 0 {
			used[best] = true
			shared = append(shared, rr)
		}
	}
	if len(shared) == 0 {
		return One, left, right, false
	}
	common = FromRoots(shared)
	l, _, _ = left.Divide(common)
	r, _, _ = right.Divide(common)
	return common, l, r, true
}

// String formats the polynomial in the lag operator B.
func (p Polynomial) String() string {
	if len(p.c) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, v := range p.c {
		if v == 0 && i > 0 {
			continue
		}
		if sb.Len() > 0 {
			if v < 0 {
				sb.WriteString(" - ")
				v = -v
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		switch i {
		case 0:
		case 1:
			sb.WriteString("B")
		default:
			sb.WriteString("B^" + strconv.Itoa(i))
		}
	}
	return sb.String()
}

// SortRoots orders roots by modulus then argument; used for stable output.
func SortRoots(roots []complex128) {
	sort.Slice(roots, func(i, j int) bool {
		mi, mj := cmplx.Abs(roots[i]), cmplx.Abs(roots[j])
		if math.Abs(mi-mj) > RootTolerance {
			return mi < mj
		}
		return cmplx.Phase(roots[i]) < cmplx.Phase(roots[j])
	})
}
