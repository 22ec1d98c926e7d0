package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/ssf"
)

// ErrInsufficientData is returned when the series is too short for the model.
var ErrInsufficientData = errors.New("arima: insufficient data")

// Forecaster computes exact forecasts of an ARIMA model with the Kalman
// filter applied to the differenced series.
type Forecaster struct {
	model          *Model
	meanCorrection bool
	mean           float64
}

// NewForecaster creates a forecaster. When meanCorrection is true, the mean
// of the differenced series is estimated jointly with the ARMA model by
// generalized least squares.
func NewForecaster(model *Model, meanCorrection bool) *Forecaster {
	return &Forecaster{model: model, meanCorrection: meanCorrection}
}

// Mean returns the constant mu of stationaryAR(B) w(t) = mu + ma(B) e(t),
// estimated by the last call to Forecasts. It is 0 without mean correction.
func (f *Forecaster) Mean() float64 {
	return f.mean
}

// Forecasts returns the nf forecasts following data.
func (f *Forecaster) Forecasts(data []float64, nf int) ([]float64, error) {
	if nf <= 0 {
		return []float64{}, nil
	}
	delta := f.model.NonStationaryAR().Coefficients()
	d := len(delta) - 1
	n := len(data)
	if n <= d {
		return nil, fmt.Errorf("%w: %d observations for %d differences", ErrInsufficientData, n, d)
	}

	// w(t) = delta(B) z(t)
	w := make([]float64, n-d)
	for t := range w {
		s := 0.0
		for j, c := range delta {
			s += c * data[t+d-j]
		}
		w[t] = s
	}
	ssm, err := f.stateSpace(len(w), nf)
	if err != nil {
		return nil, err
	}
	rslt, err := ssf.FilterSeries(ssm, w)
	if err != nil {
		return nil, err
	}
	f.mean = 0
	if f.meanCorrection {
		// the mean is a constant regression coefficient, its filtered value
		// at the end of the sample is the GLS estimate
		f.mean = rslt.State.AtVec(ssm.ComponentPosition(1)) * f.model.StationaryAR().Evaluate(1)
	}
	fw := rslt.Forecast(ssm, len(w), nf)

	// integrate: z(t) = w(t) - sum_{j>0} delta_j z(t-j)
	z := make([]float64, n+nf)
	copy(z, data)
	for h := 0; h < nf; h++ {
		t := n + h
		s := fw.At(h, 0)
		for j := 1; j <= d; j++ {
			s -= delta[j] * z[t-j]
		}
		z[t] = s
	}
	out := z[n:]
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("arima: forecasts are not finite")
		}
	}
	return out, nil
}

// stateSpace returns the ARMA model of the differenced series, with a
// constant mean when the mean is corrected. The regression variable covers
// the n observations and the nf forecasts.
func (f *Forecaster) stateSpace(n, nf int) (*ssf.MultivariateModel, error) {
	arma, err := ssf.Arma(f.model.StationaryAR(), f.model.MA(), 1)
	if err != nil {
		return nil, err
	}
	if !f.meanCorrection {
		return ssf.NewUnivariateModel(arma.Initialization(), arma.Dynamics(), arma.Loading(), 0), nil
	}
	ones := mat.NewDense(n+nf, 1, nil)
	for i := 0; i < n+nf; i++ {
		ones.Set(i, 0, 1)
	}
	mean, err := ssf.Regression(ones, nil)
	if err != nil {
		return nil, err
	}
	return ssf.NewCompositeBuilder().
		Add("arma", arma).
		Add("mean", mean).
		AddEquation(ssf.Equation{Items: []ssf.Item{
			{Component: "arma", Coefficient: 1},
			{Component: "mean", Coefficient: 1},
		}}).
		Build()
}

// Backcasts returns the nb values preceding data, in reverse chronological
// order (the first element is the value just before the sample).
func (f *Forecaster) Backcasts(data []float64, nb int) ([]float64, error) {
	rev := make([]float64, len(data))
	for i, v := range data {
		rev[len(data)-1-i] = v
	}
	return f.Forecasts(rev, nb)
}
