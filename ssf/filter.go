package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DiffuseScale is the variance given to diffuse elements of the initial
// state (big-kappa approximation of the diffuse initialization).
const DiffuseScale = 1e7

// FilterResult holds the output of the Kalman filter.
type FilterResult struct {
	// Errors and Variances hold the one-step-ahead prediction errors and their
	// variances, in observation order (time major, then equation). Missing
	// observations are NaN.
	Errors    []float64
	Variances []float64
	// State and Covariance are the prediction a(n|n-1) and P(n|n-1) for the
	// first period after the sample.
	State      *mat.VecDense
	Covariance *mat.Dense
	// Diffuse is the number of leading observations absorbed by the
	// diffuse initialization.
	Diffuse int
}

// Filter runs the Kalman filter on the observations y (one row per period,
// one column per equation). NaN observations are treated as missing.
// Correlated measurement errors are not supported.
func Filter(m *MultivariateModel, y *mat.Dense) (*FilterResult, error) {
	n, neq := y.Dims()
	if neq != m.MeasurementsCount() {
		return nil, fmt.Errorf("%w: %d columns for %d equations", ErrDimension, neq, m.MeasurementsCount())
	}
	errs := m.Errors()
	if !errs.AreIndependent() {
		return nil, fmt.Errorf("%w: correlated measurement errors", ErrUnsupported)
	}
	dim := m.StateDim()
	init := m.Initialization()
	dyn := m.Dynamics()

	a := mat.NewVecDense(dim, nil)
	init.A0(a)
	p := mat.NewDense(dim, dim, nil)
	init.Pf0(p)
	if init.IsDiffuse() {
		pi0 := mat.NewDense(dim, dim, nil)
		init.Pi0(pi0)
		pi0.Scale(DiffuseScale, pi0)
		p.Add(p, pi0)
	}

	rslt := &FilterResult{
		Errors:    make([]float64, 0, n*neq),
		Variances: make([]float64, 0, n*neq),
	}
	h := mat.NewDense(neq, neq, nil)
	pz := mat.NewVecDense(dim, nil)
	diffuse := init.DiffuseDim()
	for t := 0; t < n; t++ {
		errs.H(t, h)
		for eq := 0; eq < neq; eq++ {
			obs := y.At(t, eq)
			if math.IsNaN(obs) {
				rslt.Errors = append(rslt.Errors, math.NaN())
				rslt.Variances = append(rslt.Variances, math.NaN())
				continue
			}
			l := m.Loading(eq)
			f := l.ZVZ(t, p) + h.At(eq, eq)
			e := obs - l.ZX(t, a)
			rslt.Errors = append(rslt.Errors, e)
			rslt.Variances = append(rslt.Variances, f)
			if f <= 0 {
				continue
			}
			if diffuse > 0 {
				rslt.Diffuse++
				diffuse--
			}
			// a += P Z' e / f ; P -= P Z' Z P / f
			l.VZ(t, p, pz)
			a.AddScaledVec(a, e/f, pz)
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					p.Set(i, j, p.At(i, j)-pz.AtVec(i)*pz.AtVec(j)/f)
				}
			}
		}
		dyn.TX(t, a)
		dyn.TVT(t, p)
		dyn.AddV(t, p)
	}
	rslt.State = a
	rslt.Covariance = p
	return rslt, nil
}

// FilterSeries runs the Kalman filter on a univariate model.
func FilterSeries(m *MultivariateModel, y []float64) (*FilterResult, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrDimension)
	}
	return Filter(m, mat.NewDense(len(y), 1, append([]float64(nil), y...)))
}

// Likelihood summarizes the Gaussian log-likelihood of the prediction errors,
// excluding the diffuse part.
type Likelihood struct {
	LogLikelihood float64
	// Ssq is the sum of the squared standardized errors.
	Ssq    float64
	LogDet float64
	N      int
	// Scale is the maximum likelihood estimate of a common variance factor;
	// it is 1 when the likelihood is not concentrated.
	Scale float64
}

// Likelihood computes the log-likelihood. When concentrated is true, a common
// scale factor of all the variances is estimated and concentrated out.
func (r *FilterResult) Likelihood(concentrated bool) Likelihood {
	var ll Likelihood
	skip := r.Diffuse
	for i, e := range r.Errors {
		f := r.Variances[i]
		if math.IsNaN(e) || f <= 0 {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		ll.Ssq += e * e / f
		ll.LogDet += math.Log(f)
		ll.N++
	}
	if ll.N == 0 {
		return ll
	}
	nn := float64(ll.N)
	ll.Scale = 1
	if concentrated {
		ll.Scale = ll.Ssq / nn
		ll.LogLikelihood = -0.5 * (nn*math.Log(2*math.Pi) + nn*math.Log(ll.Scale) + nn + ll.LogDet)
		return ll
	}
	ll.LogLikelihood = -0.5 * (nn*math.Log(2*math.Pi) + ll.Ssq + ll.LogDet)
	return ll
}

// Forecast projects the filtered state h periods ahead and returns the
// forecasts of every equation (one row per period).
func (r *FilterResult) Forecast(m *MultivariateModel, start, h int) *mat.Dense {
	if h <= 0 {
		return nil
	}
	neq := m.MeasurementsCount()
	out := mat.NewDense(h, neq, nil)
	a := mat.VecDenseCopyOf(r.State)
	for k := 0; k < h; k++ {
		for eq := 0; eq < neq; eq++ {
			out.Set(k, eq, m.Loading(eq).ZX(start+k, a))
		}
		m.Dynamics().TX(start+k, a)
	}
	return out
}
