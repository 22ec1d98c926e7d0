package sts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/arima"
	"github.com/sartorproj/goseats/filters"
	"github.com/sartorproj/goseats/polynomial"
	"github.com/sartorproj/goseats/ssf"
	"github.com/sartorproj/goseats/ucarima"
)

// Composite builds the state space form of the model. The irregular is the
// measurement error of the single equation. x holds the regression
// variables (one column per variable) and may be nil.
func (s *Spec) Composite(x *mat.Dense) (*ssf.MultivariateModel, error) {
	b := ssf.NewCompositeBuilder()
	var items []ssf.Item
	add := func(name string, c ssf.Component, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		b.Add(name, c)
		items = append(items, ssf.Item{Component: name, Coefficient: 1})
		return nil
	}

	if s.Level != nil {
		var err error
		if s.Slope != nil {
			c, e := ssf.LocalLinearTrend(s.Level.Variance, s.Slope.Variance)
			err = add(TrendName, c, e)
		} else {
			c, e := ssf.LocalLevel(s.Level.Variance, math.NaN())
			err = add(TrendName, c, e)
		}
		if err != nil {
			return nil, err
		}
	}
	if s.Seasonal != nil {
		c, err := ssf.SeasonalDummy(s.Seasonal.Period, s.Seasonal.Variance)
		if err := add(SeasonalName, c, err); err != nil {
			return nil, err
		}
	}
	if s.AR != nil {
		c, err := ssf.AR(s.AR.Coefficients, s.AR.Variance, 0)
		if err := add(CycleName, c, err); err != nil {
			return nil, err
		}
	}
	if x != nil {
		if _, nx := x.Dims(); nx != len(s.Regression) && len(s.Regression) > 0 {
			return nil, fmt.Errorf("%w: %d variables for %d names", ErrRegressors, nx, len(s.Regression))
		}
		c, err := ssf.Regression(x, nil)
		if err := add(RegressionName, c, err); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		// pure noise: a zero level carries the equation
		c, err := ssf.LocalLevel(0, 0)
		if err := add(TrendName, c, err); err != nil {
			return nil, err
		}
	}
	var h float64
	if s.Noise != nil {
		h = s.Noise.Variance
	}
	return b.AddEquation(ssf.Equation{Items: items, MeasurementError: h}).Build()
}

// Ucarima returns the reduced form of the stochastic components: trend,
// seasonal, cycle and irregular, in that order. Absent components are null
// models. The regression effects are not part of it.
func (s *Spec) Ucarima() (*ucarima.Model, error) {
	trend, seas, cycle, noise := arima.Null(), arima.Null(), arima.Null(), arima.Null()
	var err error
	switch {
	case s.Level != nil && s.Slope != nil:
		// (1-B)^2 t(t) = (1-B) u(t-1) + w(t-2)
		sma := filters.FromPolynomial(polynomial.D1).Scale(s.Level.Variance).
			Plus(filters.NewSymmetric(s.Slope.Variance))
		trend, err = arima.FromSymmetric(polynomial.One, polynomial.D1.Times(polynomial.D1), sma)
	case s.Level != nil:
		trend, err = arima.New(polynomial.One, polynomial.D1, polynomial.One, s.Level.Variance)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TrendName, err)
	}
	if s.Seasonal != nil {
		seas, err = arima.New(polynomial.One, polynomial.SeasonalSum(s.Seasonal.Period), polynomial.One, s.Seasonal.Variance)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SeasonalName, err)
		}
	}
	if s.AR != nil {
		cycle, err = arima.New(s.AR.polynomial(), polynomial.One, polynomial.One, s.AR.Variance)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", CycleName, err)
		}
	}
	if s.Noise != nil {
		noise = arima.WhiteNoise(s.Noise.Variance)
	}
	ucm, err := ucarima.FromComponents(trend, seas, cycle, noise)
	if err != nil {
		return nil, err
	}
	if ucm.Model().IsNull() {
		return nil, fmt.Errorf("%w: every variance is zero", ErrModel)
	}
	return ucm, nil
}
