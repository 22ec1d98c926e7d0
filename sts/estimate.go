package sts

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/goseats/ssf"
	"github.com/sartorproj/goseats/stats"
)

// Fit is the result of the evaluation (and possibly the estimation) of a
// model on a series.
type Fit struct {
	// Spec holds the estimated variances.
	Spec *Spec

	LogLikelihood float64
	AIC           float64
	BIC           float64
	// Parameters is the number of estimated variances (the concentrated
	// scale included).
	Parameters int
	// Observations is the number of non-missing, non-diffuse observations.
	Observations int
	Iterations   int

	// Coefficients are the regression coefficients.
	Coefficients []float64
	// Residuals are the standardized one-step-ahead prediction errors.
	Residuals    []float64
	LjungBox     *stats.LjungBoxResult
	DurbinWatson float64
}

// Estimate maximizes the diffuse likelihood of the model over the free
// variances. When no variance is fixed, the likelihood is concentrated
// with respect to a scale factor and the largest variance is used as
// reference. The variances are optimized on a log scale with the
// Nelder-Mead method.
func Estimate(series []float64, spec *Spec, cfg *Config) (*Fit, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return fit(series, spec, cfg, true)
}

// Evaluate computes the likelihood and the diagnostics of a model without
// estimating it.
func Evaluate(series []float64, spec *Spec, cfg *Config) (*Fit, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return fit(series, spec, cfg, false)
}

// problem is the likelihood as a function of the log variances.
type problem struct {
	y            *mat.Dense
	x            *mat.Dense
	spec         *Spec
	free         []*Param
	ref          int
	concentrated bool
}

// apply sets the variances of p.spec from the parameters.
func (p *problem) apply(theta []float64) {
	k := 0
	for i, f := range p.free {
		if p.concentrated && i == p.ref {
			f.Variance = 1
			continue
		}
		f.Variance = math.Exp(theta[k])
		k++
	}
}

func (p *problem) filter() (*ssf.MultivariateModel, *ssf.FilterResult, error) {
	m, err := p.spec.Composite(p.x)
	if err != nil {
		return nil, nil, err
	}
	r, err := ssf.Filter(m, p.y)
	if err != nil {
		return nil, nil, err
	}
	return m, r, nil
}

func (p *problem) objective(theta []float64) float64 {
	p.apply(theta)
	_, r, err := p.filter()
	if err != nil {
		return math.Inf(1)
	}
	ll := r.Likelihood(p.concentrated)
	if ll.N == 0 || math.IsNaN(ll.LogLikelihood) {
		return math.Inf(1)
	}
	return -ll.LogLikelihood
}

func fit(series []float64, spec *Spec, cfg *Config, estimate bool) (*Fit, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrSpec)
	}
	x, err := regressors(spec, cfg.Regressors, n)
	if err != nil {
		return nil, err
	}
	p := &problem{
		y:    mat.NewDense(n, 1, append([]float64(nil), series...)),
		x:    x,
		spec: spec.Clone(),
	}

	var theta []float64
	if estimate {
		p.free = freeParams(p.spec)
		p.concentrated = len(p.free) > 0 && len(p.free) == len(p.spec.params())
		if p.concentrated {
			p.ref = 0
			for i, f := range p.free {
				if f.Variance > p.free[p.ref].Variance {
					p.ref = i
				}
			}
		}
		theta = p.start()
	}

	iterations := 0
	if len(theta) > 0 {
		settings := &optimize.Settings{
			MajorIterations: cfg.MaxIterations,
			Converger: &optimize.FunctionConverge{
				Absolute:   cfg.Tolerance,
				Iterations: 2 * (len(theta) + 1),
			},
		}
		res, err := optimize.Minimize(optimize.Problem{Func: p.objective}, theta, settings, &optimize.NelderMead{})
		if res == nil {
			return nil, fmt.Errorf("sts: likelihood optimization: %w", err)
		}
		if err != nil {
			log.WithFields(log.Fields{"status": res.Status.String(), "err": err}).
				Warn("sts: likelihood optimization did not converge")
		}
		theta = res.X
		iterations = res.Stats.MajorIterations
	}
	if estimate {
		p.apply(theta)
	}

	m, r, err := p.filter()
	if err != nil {
		return nil, err
	}
	ll := r.Likelihood(p.concentrated)
	if ll.N == 0 {
		return nil, fmt.Errorf("%w: no observation after the diffuse part", ErrSpec)
	}
	if p.concentrated {
		for _, f := range p.free {
			f.Variance *= ll.Scale
		}
	}

	nparams := len(p.free)
	out := &Fit{
		Spec:          p.spec,
		LogLikelihood: ll.LogLikelihood,
		Parameters:    nparams,
		Observations:  ll.N,
		Iterations:    iterations,
		Residuals:     residuals(r, ll.Scale),
	}
	k := float64(nparams + r.Diffuse)
	out.AIC = -2*ll.LogLikelihood + 2*k
	out.BIC = -2*ll.LogLikelihood + k*math.Log(float64(ll.N))
	out.LjungBox = stats.LjungBox(out.Residuals, cfg.LjungBoxLags, nparams)
	out.DurbinWatson = stats.DurbinWatson(out.Residuals)
	if x != nil {
		out.Coefficients = coefficients(m, r)
	}

	log.WithFields(log.Fields{
		"loglikelihood": out.LogLikelihood,
		"iterations":    iterations,
		"parameters":    nparams,
		"concentrated":  p.concentrated,
	}).Debug("sts: model fitted")
	return out, nil
}

// start returns the initial log variances, relative to the reference in
// the concentrated case.
func (p *problem) start() []float64 {
	scale := 1.0
	if p.concentrated {
		scale = p.free[p.ref].Variance
		if scale <= 0 {
			scale = 1
		}
	}
	var theta []float64
	for i, f := range p.free {
		if p.concentrated && i == p.ref {
			continue
		}
		v := f.Variance / scale
		if v <= 0 {
			v = 0.1
		}
		theta = append(theta, math.Log(v))
	}
	return theta
}

func freeParams(s *Spec) []*Param {
	var out []*Param
	for _, p := range s.params() {
		if !p.Fixed {
			out = append(out, p)
		}
	}
	return out
}

// residuals returns the standardized prediction errors after the diffuse
// part.
func residuals(r *ssf.FilterResult, scale float64) []float64 {
	out := make([]float64, 0, len(r.Errors))
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
		out = append(out, e/math.Sqrt(f*scale))
	}
	return out
}

// coefficients reads the regression coefficients in the final state.
func coefficients(m *ssf.MultivariateModel, r *ssf.FilterResult) []float64 {
	for i := 0; i < m.ComponentsCount(); i++ {
		if m.ComponentName(i) != RegressionName {
			continue
		}
		pos, dim := m.ComponentPosition(i), m.ComponentDim(i)
		out := make([]float64, dim)
		for j := range out {
			out[j] = r.State.AtVec(pos + j)
		}
		return out
	}
	return nil
}

// regressors checks the regression variables against the series.
func regressors(spec *Spec, x *mat.Dense, n int) (*mat.Dense, error) {
	if x == nil {
		if len(spec.Regression) > 0 {
			return nil, fmt.Errorf("%w: no values for %v", ErrRegressors, spec.Regression)
		}
		return nil, nil
	}
	rows, cols := x.Dims()
	if rows < n {
		return nil, fmt.Errorf("%w: %d rows for %d observations", ErrRegressors, rows, n)
	}
	if len(spec.Regression) > 0 && cols != len(spec.Regression) {
		return nil, fmt.Errorf("%w: %d variables for %d names", ErrRegressors, cols, len(spec.Regression))
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: missing value at row %d", ErrRegressors, i+1)
			}
		}
	}
	return x, nil
}
