// Package arima implements ARIMA models written in lag-operator form.
//
// A Model is
//
//	phi(B) delta(B) y(t) = theta(B) e(t), Var(e) = variance
//
// where phi is the stationary autoregressive polynomial, delta holds the unit
// roots and theta is the moving average. The models are the building blocks
// of unobserved components models: Plus returns the model of the sum of two
// independent processes, and FromSymmetric rebuilds a model from the
// spectrum of its moving average.
//
// # Basic Usage
//
//	// airline-like model (1-B)(1-B^12) y = (1-0.6B)(1-0.5B^12) e
//	ma := polynomial.Of(1, -0.6).Times(polynomial.Of(append([]float64{1}, make([]float64, 11)...)...))
//	model, err := arima.NewFromAR(polynomial.D1.Times(polynomial.Seasonal(12)), ma, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(model.Order())
//
// # Forecasting
//
// Forecaster differences the series with the non-stationary polynomial,
// optionally removes the mean, runs an exact Kalman filter on the stationary
// ARMA state space and integrates the forecasts back:
//
//	f := arima.NewForecaster(model, false)
//	forecasts, err := f.Forecasts(series, 24)
//	backcasts, err := f.Backcasts(series, 24)
package arima
