package sts

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/burman"
	"github.com/sartorproj/goseats/ucarima"
)

// Component holds the estimates of one component and their standard
// errors. In a multiplicative decomposition, the estimates are factors and
// the standard errors refer to the logged series.
type Component struct {
	Name           string
	Estimates      []float64
	Forecasts      []float64
	Stdev          []float64
	StdevForecasts []float64
}

// Decomposition is the result of Decompose.
type Decomposition struct {
	Series    []float64
	Forecasts []float64
	// Linearized is the (logged) series corrected for the regression effects.
	Linearized []float64

	Trend      Component
	Seasonal   Component
	Cycle      Component
	Irregular  Component
	Adjusted   Component
	Regression Component

	Multiplicative bool
	Model          *ucarima.Model
	Fit            *Fit
}

// Components returns the components in output order.
func (d *Decomposition) Components() []Component {
	return []Component{d.Trend, d.Seasonal, d.Cycle, d.Irregular, d.Adjusted, d.Regression}
}

// Decompose estimates the components of series with the Wiener-Kolmogorov
// filters of the reduced form of spec. The regression effects are removed
// before the extraction. Missing values are not supported.
func Decompose(series []float64, spec *Spec, cfg *Config) (*Decomposition, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n := len(series)
	for _, v := range series {
		if math.IsNaN(v) {
			return nil, burman.ErrMissingValues
		}
	}
	y := append([]float64(nil), series...)
	if cfg.Log {
		for i, v := range y {
			if v <= 0 {
				return nil, fmt.Errorf("%w: log transformation of %g", ErrSpec, v)
			}
			y[i] = math.Log(v)
		}
	}

	var (
		f   *Fit
		err error
	)
	if cfg.Estimate {
		f, err = Estimate(y, spec, cfg)
	} else {
		f, err = Evaluate(y, spec, cfg)
	}
	if err != nil {
		return nil, err
	}
	nf := cfg.Forecasts
	reg, err := regressionEffect(cfg.Regressors, f.Coefficients, n, nf)
	if err != nil {
		return nil, err
	}
	lin := make([]float64, n)
	floats.SubTo(lin, y, reg.Estimates)

	ucm, err := f.Spec.Ucarima()
	if err != nil {
		return nil, err
	}
	e := burman.New()
	e.SetData(lin)
	if cfg.MeanCorrection {
		err = e.SetUcarimaModelWithMean(ucm)
	} else {
		err = e.SetUcarimaModel(ucm)
	}
	if err != nil {
		return nil, err
	}
	e.SetForecastsCount(nf)
	e.SetExtraMargin(cfg.ExtraMargin)

	d := &Decomposition{
		Series:         append([]float64(nil), series...),
		Linearized:     lin,
		Regression:     reg,
		Multiplicative: cfg.Log,
		Model:          ucm,
		Fit:            f,
	}
	names := []string{TrendName, SeasonalName, CycleName, IrregularName}
	cmps := []*Component{&d.Trend, &d.Seasonal, &d.Cycle, &d.Irregular}
	for i, c := range cmps {
		if *c, err = extract(e, i, names[i]); err != nil {
			return nil, err
		}
	}

	xf, err := e.SeriesForecasts()
	if err != nil {
		return nil, err
	}
	floats.Add(xf, reg.Forecasts)
	d.Forecasts = xf

	// adjusted = series - seasonal
	d.Adjusted = Component{
		Name:      "sa",
		Estimates: make([]float64, n),
		Forecasts: make([]float64, nf),
		Stdev:     d.Seasonal.Stdev,
	}
	floats.SubTo(d.Adjusted.Estimates, y, d.Seasonal.Estimates)
	floats.SubTo(d.Adjusted.Forecasts, xf, d.Seasonal.Forecasts)
	if !ucm.Component(1).IsNull() {
		sd, err := e.StdevForecasts(1, false)
		if err != nil && !errors.Is(err, burman.ErrStdevUnavailable) {
			return nil, err
		}
		d.Adjusted.StdevForecasts = sd
	}

	if cfg.Log {
		d.Forecasts = exp(d.Forecasts)
		for _, c := range []*Component{&d.Trend, &d.Seasonal, &d.Cycle, &d.Irregular, &d.Adjusted, &d.Regression} {
			c.Estimates = exp(c.Estimates)
			c.Forecasts = exp(c.Forecasts)
		}
	}
	log.WithFields(log.Fields{
		"n":              n,
		"forecasts":      nf,
		"multiplicative": cfg.Log,
	}).Debug("sts: series decomposed")
	return d, nil
}

// extract computes the estimates of component i. Unavailable standard
// errors are left at zero.
func extract(e *burman.Engine, i int, name string) (Component, error) {
	c := Component{Name: name}
	var err error
	if c.Estimates, err = e.Estimates(i, true); err != nil {
		return c, fmt.Errorf("%s: %w", name, err)
	}
	if c.Forecasts, err = e.Forecasts(i, true); err != nil {
		return c, fmt.Errorf("%s: %w", name, err)
	}
	c.Stdev, err = e.StdevEstimates(i)
	if err != nil {
		if !errors.Is(err, burman.ErrStdevUnavailable) {
			return c, err
		}
		log.WithFields(log.Fields{"component": name, "err": err}).Warn("sts: standard errors unavailable")
	}
	c.StdevForecasts, err = e.StdevForecasts(i, true)
	if err != nil && !errors.Is(err, burman.ErrStdevUnavailable) {
		return c, err
	}
	return c, nil
}

// regressionEffect returns x b over the sample and the forecast horizon.
func regressionEffect(x *mat.Dense, b []float64, n, nf int) (Component, error) {
	c := Component{
		Name:      RegressionName,
		Estimates: make([]float64, n),
		Forecasts: make([]float64, nf),
	}
	if x == nil || len(b) == 0 {
		return c, nil
	}
	rows, _ := x.Dims()
	if nf > 0 && rows < n+nf {
		return c, fmt.Errorf("%w: %d rows for %d observations and %d forecasts", ErrRegressors, rows, n, nf)
	}
	beta := mat.NewVecDense(len(b), b)
	for t := 0; t < n+nf; t++ {
		v := mat.Dot(x.RowView(t), beta)
		if t < n {
			c.Estimates[t] = v
		} else {
			c.Forecasts[t-n] = v
		}
	}
	return c, nil
}

func exp(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v)
	}
	return out
}
