package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/goseats/filters"
	"github.com/sartorproj/goseats/polynomial"
)

var (
	// ErrInvalidModel is returned for polynomials without a constant term or
	// negative variances.
	ErrInvalidModel = errors.New("arima: invalid model")
	// ErrNonStationary is returned when a stationary model is required.
	ErrNonStationary = errors.New("arima: non stationary model")
)

// nullTolerance is the threshold under which a spectrum is considered null.
const nullTolerance = 1e-12

// Order represents the orders (p, d, q) of the model; d is the degree of
// the non-stationary autoregressive polynomial.
type Order struct {
	P int // stationary AR degree
	D int // non-stationary AR degree
	Q int // MA degree
}

// Model represents the ARIMA model
//
//	stationaryAR(B) nonStationaryAR(B) y(t) = ma(B) e(t), Var(e) = variance
//
// Every polynomial has a unit constant term.
type Model struct {
	stationaryAR    polynomial.Polynomial
	nonStationaryAR polynomial.Polynomial
	ma              polynomial.Polynomial
	variance        float64
}

// New creates a model. The polynomials are normalized so that their constant
// term is 1; the normalization of the MA polynomial is moved to the variance.
func New(stationaryAR, nonStationaryAR, ma polynomial.Polynomial, variance float64) (*Model, error) {
	if stationaryAR.At(0) == 0 || nonStationaryAR.At(0) == 0 || ma.At(0) == 0 {
		return nil, fmt.Errorf("%w: polynomials need a constant term", ErrInvalidModel)
	}
	if variance < 0 || math.IsNaN(variance) {
		return nil, fmt.Errorf("%w: variance %g", ErrInvalidModel, variance)
	}
	m0 := ma.At(0)
	return &Model{
		stationaryAR:    stationaryAR.Normalize(),
		nonStationaryAR: nonStationaryAR.Normalize(),
		ma:              ma.Normalize(),
		variance:        variance * m0 * m0,
	}, nil
}

// NewFromAR creates a model, splitting the unit roots of ar into the
// non-stationary part.
func NewFromAR(ar, ma polynomial.Polynomial, variance float64) (*Model, error) {
	if ar.At(0) == 0 {
		return nil, fmt.Errorf("%w: autoregressive polynomial needs a constant term", ErrInvalidModel)
	}
	stat, nonstat, err := ar.Normalize().SplitUnitRoots()
	if err != nil {
		return nil, err
	}
	return New(stat, nonstat, ma, variance)
}

// FromSymmetric creates the model whose moving average has the spectrum sma.
// A null spectrum gives a null model.
func FromSymmetric(stationaryAR, nonStationaryAR polynomial.Polynomial, sma filters.SymmetricFilter) (*Model, error) {
	if sma.IsNull(nullTolerance) {
		return New(stationaryAR, nonStationaryAR, polynomial.One, 0)
	}
	theta, v, err := sma.Factorize()
	if err != nil {
		return nil, err
	}
	return New(stationaryAR, nonStationaryAR, theta, v)
}

// Null returns the degenerate model with zero variance.
func Null() *Model {
	return &Model{
		stationaryAR:    polynomial.One,
		nonStationaryAR: polynomial.One,
		ma:              polynomial.One,
	}
}

// WhiteNoise returns the white noise with the given variance.
func WhiteNoise(variance float64) *Model {
	m := Null()
	m.variance = variance
	return m
}

// StationaryAR returns the stationary autoregressive polynomial.
func (m *Model) StationaryAR() polynomial.Polynomial { return m.stationaryAR }

// NonStationaryAR returns the product of the unit-root factors.
func (m *Model) NonStationaryAR() polynomial.Polynomial { return m.nonStationaryAR }

// MA returns the moving average polynomial.
func (m *Model) MA() polynomial.Polynomial { return m.ma }

// InnovationVariance returns the variance of the innovations.
func (m *Model) InnovationVariance() float64 { return m.variance }

// AR returns the full autoregressive polynomial.
func (m *Model) AR() polynomial.Polynomial {
	return m.stationaryAR.Times(m.nonStationaryAR)
}

// NonStationaryARCount returns the degree of the non-stationary AR polynomial.
func (m *Model) NonStationaryARCount() int {
	return m.nonStationaryAR.Degree()
}

// Order returns the orders of the model.
func (m *Model) Order() Order {
	return Order{P: m.stationaryAR.Degree(), D: m.nonStationaryAR.Degree(), Q: m.ma.Degree()}
}

// SymmetricMA returns the spectral numerator variance ma(B) ma(F).
func (m *Model) SymmetricMA() filters.SymmetricFilter {
	return filters.FromPolynomial(m.ma).Scale(m.variance)
}

// IsNull reports whether the model is degenerate (null spectrum).
func (m *Model) IsNull() bool {
	return m.variance == 0 || m.SymmetricMA().IsNull(nullTolerance)
}

// IsStationary reports whether the model has no unit root.
func (m *Model) IsStationary() bool {
	return m.nonStationaryAR.Degree() == 0
}

// Plus returns the model of the sum of two independent processes. Common
// autoregressive factors are kept once.
func (m *Model) Plus(other *Model) (*Model, error) {
	if other.IsNull() {
		return m.clone(), nil
	}
	if m.IsNull() {
		return other.clone(), nil
	}
	cns, ns1, ns2, _ := polynomial.Simplify(m.nonStationaryAR, other.nonStationaryAR)
	cs, s1, s2, _ := polynomial.Simplify(m.stationaryAR, other.stationaryAR)
	ar1 := ns1.Times(s1)
	ar2 := ns2.Times(s2)
	sma := m.SymmetricMA().TimesPolynomial(ar2).Plus(other.SymmetricMA().TimesPolynomial(ar1))
	return FromSymmetric(cs.Times(s1).Times(s2), cns.Times(ns1).Times(ns2), sma)
}

func (m *Model) clone() *Model {
	c := *m
	return &c
}

// PsiWeights returns the first n coefficients of ma(B)/ar(B).
func (m *Model) PsiWeights(n int) []float64 {
	return filters.Expand(m.ma, m.AR(), n)
}

// AutoCovariances returns the autocovariances at lags 0..n-1 of a stationary
// model.
func (m *Model) AutoCovariances(n int) ([]float64, error) {
	if !m.IsStationary() {
		return nil, ErrNonStationary
	}
	return filters.AutoCovariances(m.stationaryAR, m.SymmetricMA(), n)
}

// String formats the model.
func (m *Model) String() string {
	return fmt.Sprintf("AR: %v, D: %v, MA: %v, var: %.6g",
		m.stationaryAR, m.nonStationaryAR, m.ma, m.variance)
}
