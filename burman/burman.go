package burman

import (
	"fmt"
	"math"
	"slices"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/arima"
	"github.com/sartorproj/goseats/linsolve"
	"github.com/sartorproj/goseats/polynomial"
	"github.com/sartorproj/goseats/ucarima"
)

type state int

const (
	uncomputed state = iota
	computed
)

// component holds the filter of one component and its cached results.
type component struct {
	null   bool
	g      polynomial.Polynomial
	denom  polynomial.Polynomial
	qstar  int
	solver *linsolve.Solver
	err    error

	state     state
	estimates []float64
	forecasts []float64
}

// Engine computes the Wiener-Kolmogorov estimates of the components of a
// UCARIMA model on a finite series with the Burman-Wilson algorithm. Results
// are computed lazily and cached until the next mutation. An Engine is not
// safe for concurrent use.
type Engine struct {
	data           []float64
	nf             int
	extraMargin    int
	ser            float64
	meanCorrection bool

	ucm        *ucarima.Model
	wk         *ucarima.WienerKolmogorov
	ar         polynomial.Polynomial
	components []component

	xf, xb []float64
	mean   float64
}

// New returns an engine without data nor model.
func New() *Engine {
	return &Engine{ser: 1}
}

// SetData sets the series. The values are copied.
func (e *Engine) SetData(values []float64) {
	e.data = slices.Clone(values)
	e.clear()
}

// SetUcarimaModel sets the model, without mean correction.
func (e *Engine) SetUcarimaModel(ucm *ucarima.Model) error {
	return e.setModel(ucm, false)
}

// SetUcarimaModelWithMean sets the model and requests the estimation of a
// constant in the (differenced) series.
func (e *Engine) SetUcarimaModelWithMean(ucm *ucarima.Model) error {
	return e.setModel(ucm, true)
}

// SetForecastsCount sets the number of forecasts computed for every
// component.
func (e *Engine) SetForecastsCount(nf int) {
	e.nf = max(nf, 0)
	e.clear()
}

// SetSer sets the standard error of the residuals, used to scale the
// standard deviations.
func (e *Engine) SetSer(ser float64) {
	e.ser = ser
	e.clear()
}

// SetExtraMargin adds k periods to the forecasts and backcasts used to
// extend the series.
func (e *Engine) SetExtraMargin(k int) {
	e.extraMargin = max(k, 0)
	e.clear()
}

// ForecastsCount returns the forecast horizon.
func (e *Engine) ForecastsCount() int { return e.nf }

// IsMeanCorrection reports whether the mean of the differenced series is
// estimated.
func (e *Engine) IsMeanCorrection() bool { return e.meanCorrection }

// Ser returns the scale of the standard errors.
func (e *Engine) Ser() float64 { return e.ser }

// Ucarima returns the current model.
func (e *Engine) Ucarima() *ucarima.Model { return e.ucm }

// ComponentsCount returns the number of components of the model.
func (e *Engine) ComponentsCount() int {
	return len(e.components)
}

// clear resets every component to uncomputed and drops the extension.
func (e *Engine) clear() {
	for i := range e.components {
		c := &e.components[i]
		c.state = uncomputed
		c.estimates = nil
		c.forecasts = nil
	}
	e.xf, e.xb = nil, nil
	e.mean = 0
}

func (e *Engine) useD1() bool {
	return e.meanCorrection && e.ucm.Model().NonStationaryARCount() > 0
}

func (e *Engine) useMean() bool {
	return e.meanCorrection && e.ucm.Model().NonStationaryARCount() == 0
}

func (e *Engine) setModel(ucm *ucarima.Model, mean bool) error {
	if ucm == nil {
		return ErrNoModel
	}
	e.ucm = ucm
	e.wk = ucarima.NewWienerKolmogorov(ucm)
	e.meanCorrection = mean
	e.ar = ucm.Model().AR()
	if e.useD1() {
		e.ar = e.ar.Times(polynomial.D1)
	}
	e.components = make([]component, ucm.ComponentsCount())
	for i := range e.components {
		e.components[i] = e.initComponent(i)
	}
	e.clear()
	return nil
}

func (e *Engine) initComponent(i int) component {
	cmp := e.ucm.Component(i)
	if cmp.IsNull() {
		return component{null: true}
	}
	f, err := e.wk.FinalFilter(i, true)
	if err != nil {
		return component{err: err}
	}
	c := component{denom: f.Denominator}
	c.g, err = f.Numerator.Decompose(f.Denominator)
	if err != nil {
		c.err = fmt.Errorf("component %d: %w", i, err)
		return c
	}
	c.qstar = f.Denominator.Degree()
	if e.useD1() {
		c.qstar++
	}
	c.solver, c.err = e.boundarySolver(f.Denominator, c.qstar)
	if c.err != nil {
		c.err = fmt.Errorf("component %d: %w", i, c.err)
	}
	log.WithFields(log.Fields{
		"component": i,
		"g":         c.g.String(),
		"denom":     c.denom.String(),
	}).Debug("burman: component filter")
	return c
}

// boundarySolver factorizes the system giving the auxiliary sequences at
// the end of the extended series.
func (e *Engine) boundarySolver(ma polynomial.Polynomial, qstar int) (*linsolve.Solver, error) {
	pstar := e.ar.Degree()
	n := pstar + qstar
	if n == 0 {
		return nil, nil
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < pstar; i++ {
		for j := 0; j <= ma.Degree(); j++ {
			m.Set(i, i+j, ma.At(j))
		}
	}
	for i := 0; i < qstar; i++ {
		for j := 0; j <= pstar; j++ {
			m.Set(i+pstar, i+j, e.ar.At(pstar-j))
		}
	}
	return linsolve.Decompose(m)
}

func (e *Engine) check(i int) error {
	if e.ucm == nil {
		return ErrNoModel
	}
	if len(e.data) == 0 {
		return ErrNoData
	}
	if i < 0 || i >= len(e.components) {
		return fmt.Errorf("%w: %d", ErrComponentIndex, i)
	}
	return nil
}

// extendSeries computes the forecasts and backcasts of the series.
func (e *Engine) extendSeries() error {
	if e.xf != nil {
		return nil
	}
	for _, v := range e.data {
		if math.IsNaN(v) {
			return ErrMissingValues
		}
	}
	nf := 0
	for _, c := range e.components {
		if c.null || c.err != nil {
			continue
		}
		nr := max(c.g.Degree(), c.denom.Degree()) + c.denom.Degree()
		if e.meanCorrection {
			nr += 2
		}
		nf = max(nf, nr)
	}
	nf = max(nf, e.nf)
	if e.meanCorrection && nf <= e.ar.Degree() {
		nf = e.ar.Degree() + 1
	}
	nf += e.extraMargin

	f := arima.NewForecaster(e.ucm.Model(), e.meanCorrection)
	xf, err := f.Forecasts(e.data, nf)
	if err != nil {
		return fmt.Errorf("burman: series forecasts: %w", err)
	}
	mean := f.Mean()
	xb, err := f.Backcasts(e.data, nf)
	if err != nil {
		return fmt.Errorf("burman: series backcasts: %w", err)
	}
	e.xf, e.xb = xf, xb
	if e.meanCorrection {
		e.mean = mean
	}
	log.WithFields(log.Fields{
		"n":      len(e.data),
		"extend": nf,
		"mean":   e.mean,
	}).Debug("burman: series extended")
	return nil
}

// correctedMean is the mean divided by the stationary AR at 1.
func (e *Engine) correctedMean() float64 {
	return e.mean / e.ucm.Model().StationaryAR().Evaluate(1)
}

func (e *Engine) calc(i int) error {
	if err := e.check(i); err != nil {
		return err
	}
	c := &e.components[i]
	if c.state == computed {
		return nil
	}
	if err := e.extendSeries(); err != nil {
		return err
	}
	n := len(e.data)
	if i == 0 && c.null {
		m := e.correctedMean()
		c.estimates = fill(n, m)
		c.forecasts = fill(e.nf, m)
		c.state = computed
		return nil
	}
	if c.null {
		c.estimates = make([]float64, n)
		c.forecasts = make([]float64, e.nf)
		c.state = computed
		return nil
	}
	if c.err != nil {
		return c.err
	}

	nf := len(e.xf)
	ma := c.denom.Coefficients()
	ar := e.ar.Coefficients()
	q := c.qstar
	p := len(ar) - 1
	ntmp := n + q - p
	if ntmp < 0 {
		return fmt.Errorf("%w: %d observations for an autoregressive polynomial of degree %d", ErrNoData, n, p)
	}

	// extended series: backcasts, data, forecasts
	z := make([]float64, n+2*nf)
	copy(z[nf:], e.data)
	copy(z[nf+n:], e.xf)
	for j, v := range e.xb {
		z[nf-1-j] = v
	}
	if e.useMean() {
		m := e.correctedMean()
		for j := range z {
			z[j] -= m
		}
	}

	g := c.g.Coefficients()
	// w1(t) = g(F) z(t), t = 0..n+q-1
	w1 := make([]float64, n+q)
	for t := range w1 {
		s := 0.0
		for j, gj := range g {
			s += gj * z[nf+t+j]
		}
		w1[t] = s
	}
	// w2(t) = g(B) z(t), t = -q..n+nf-1
	w2 := make([]float64, n+nf+q)
	for t := range w2 {
		s := 0.0
		for j, gj := range g {
			s += gj * z[nf-q+t-j]
		}
		w2[t] = s
	}

	ww := make([]float64, p+q)
	for j := 0; j < p; j++ {
		ww[j] = w1[ntmp+j]
	}
	mx, err := c.solve(ww)
	if err != nil {
		return err
	}
	nx1 := n + max(2*q, nf)
	x1 := make([]float64, nx1)
	copy(x1[ntmp:], mx)
	for t := ntmp - 1; t >= 0; t-- {
		s := w1[t]
		for j := 1; j < len(ma); j++ {
			s -= x1[t+j] * ma[j]
		}
		x1[t] = s
	}
	for t := ntmp + p + q; t < nx1; t++ {
		s := 0.0
		for j := 1; j <= p; j++ {
			s -= ar[j] * x1[t-j]
		}
		x1[t] = s
	}

	for j := 0; j < p; j++ {
		ww[j] = w2[p-j-1]
	}
	for j := p; j < p+q; j++ {
		ww[j] = 0
	}
	mx, err = c.solve(ww)
	if err != nil {
		return err
	}
	nx2 := n + 2*q + max(nf, 2*q)
	x2 := make([]float64, nx2)
	for j := 0; j < p+q; j++ {
		x2[p+q-1-j] = mx[j]
	}
	for t := p + q; t < nx2; t++ {
		s := w2[t-q]
		for j := 1; j < len(ma); j++ {
			s -= x2[t-j] * ma[j]
		}
		x2[t] = s
	}

	m := 0.0
	if i == 0 && e.useMean() {
		m = e.correctedMean()
	}
	c.estimates = make([]float64, n)
	for t := range c.estimates {
		c.estimates[t] = x1[t] + x2[t+2*q] + m
	}
	c.forecasts = make([]float64, e.nf)
	for t := range c.forecasts {
		c.forecasts[t] = x1[n+t] + x2[n+t+2*q] + m
	}
	c.state = computed
	return nil
}

func (c *component) solve(b []float64) ([]float64, error) {
	if c.solver == nil {
		return nil, nil
	}
	return c.solver.Solve(b)
}

// Estimates returns the estimates of the i-th component (signal true) or of
// the series minus the component (signal false).
func (e *Engine) Estimates(i int, signal bool) ([]float64, error) {
	if err := e.calc(i); err != nil {
		return nil, err
	}
	est := e.components[i].estimates
	if signal {
		return slices.Clone(est), nil
	}
	out := make([]float64, len(est))
	for t := range out {
		out[t] = e.data[t] - est[t]
	}
	return out, nil
}

// Forecasts returns the forecasts of the i-th component (signal true) or of
// the series minus the component (signal false).
func (e *Engine) Forecasts(i int, signal bool) ([]float64, error) {
	if err := e.calc(i); err != nil {
		return nil, err
	}
	f := e.components[i].forecasts
	if signal {
		return slices.Clone(f), nil
	}
	out := make([]float64, len(f))
	for t := range out {
		out[t] = e.xf[t] - f[t]
	}
	return out, nil
}

// StdevEstimates returns the standard deviations of the estimation errors of
// the i-th component. The revision variances are symmetric in time, so the
// central part of the series is computed once. When they cannot be computed,
// a zero-filled array is returned with an error wrapping
// ErrStdevUnavailable.
func (e *Engine) StdevEstimates(i int) ([]float64, error) {
	if err := e.calc(i); err != nil {
		return nil, err
	}
	n := len(e.data)
	out := make([]float64, n)
	if e.components[i].null {
		return out, nil
	}
	nh := (n + 1) / 2
	v, err := e.wk.TotalErrorVariance(i, true, 0, nh)
	if err != nil {
		return out, fmt.Errorf("%w: component %d: %v", ErrStdevUnavailable, i, err)
	}
	for j := 0; j < nh; j++ {
		if v[j] < 0 || math.IsNaN(v[j]) {
			return make([]float64, n), fmt.Errorf("%w: component %d: negative variance", ErrStdevUnavailable, i)
		}
		s := e.ser * math.Sqrt(v[j])
		out[j] = s
		out[n-1-j] = s
	}
	return out, nil
}

// StdevForecasts returns the standard deviations of the forecast errors of
// the i-th component (signal true) or of its complement (signal false). For
// a null component, the complement is not defined and nil is returned.
func (e *Engine) StdevForecasts(i int, signal bool) ([]float64, error) {
	if err := e.calc(i); err != nil {
		return nil, err
	}
	nf := e.nf
	if e.components[i].null {
		if signal {
			return make([]float64, nf), nil
		}
		return nil, nil
	}
	out := make([]float64, nf)
	if nf == 0 {
		return out, nil
	}
	v, err := e.wk.TotalErrorVariance(i, signal, -nf, nf)
	if err != nil {
		return out, fmt.Errorf("%w: component %d: %v", ErrStdevUnavailable, i, err)
	}
	for j := range out {
		vj := v[nf-1-j]
		if vj < 0 || math.IsNaN(vj) {
			return make([]float64, nf), fmt.Errorf("%w: component %d: negative variance", ErrStdevUnavailable, i)
		}
		out[j] = e.ser * math.Sqrt(vj)
	}
	return out, nil
}

// SeriesForecasts returns the forecasts of the series for the requested
// horizon.
func (e *Engine) SeriesForecasts() ([]float64, error) {
	if err := e.extension(); err != nil {
		return nil, err
	}
	return slices.Clone(e.xf[:e.nf]), nil
}

// SeriesBackcasts returns the backcasts of the series for the requested
// horizon, the first element being the value just before the sample.
func (e *Engine) SeriesBackcasts() ([]float64, error) {
	if err := e.extension(); err != nil {
		return nil, err
	}
	return slices.Clone(e.xb[:e.nf]), nil
}

func (e *Engine) extension() error {
	if e.ucm == nil {
		return ErrNoModel
	}
	if len(e.data) == 0 {
		return ErrNoData
	}
	return e.extendSeries()
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
