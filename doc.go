// Package goseats extracts unobserved components from time series with
// Wiener-Kolmogorov filters.
//
// A structural model (trend, seasonal, autoregressive cycle, irregular and
// regression effects) is written in state-space form for likelihood
// evaluation and estimation, and in its UCARIMA reduced form for signal
// extraction. The Burman-Wilson algorithm applies the symmetric filters of
// the components to the series extended with forecasts and backcasts, so
// that the estimates add up to the series.
//
// # Quick Start
//
//	spec, _ := sts.LoadSpec("model.yaml")
//	cfg := sts.DefaultConfig()
//	cfg.Estimate = true
//	cfg.Forecasts = 12
//	d, _ := sts.Decompose(values, spec, cfg)
//	fmt.Println(d.Trend.Estimates, d.Adjusted.Estimates)
//
// The engine can also be used directly on any UCARIMA model:
//
//	e := burman.New()
//	e.SetData(values)
//	_ = e.SetUcarimaModel(ucm)
//	trend, _ := e.Estimates(0, true)
//	sd, _ := e.StdevEstimates(0)
//
// # Packages
//
//   - polynomial: polynomials in the backshift operator
//   - linsolve: dense LU solver
//   - filters: symmetric filters and spectral factorization
//   - arima: ARIMA models and their forecasts
//   - ucarima: UCARIMA models and Wiener-Kolmogorov filters
//   - burman: the Burman-Wilson signal extraction engine
//   - ssf: state-space components and the diffuse Kalman filter
//   - sts: basic structural models
//   - stats: residual diagnostics
//   - timeseries: series containers and CSV input/output
//
// # References
//
//   - Burman, J.P. (1980). Seasonal adjustment by signal extraction.
//     Journal of the Royal Statistical Society A, 143, 321-337.
//   - Harvey, A.C. (1989). Forecasting, Structural Time Series Models and
//     the Kalman Filter.
package goseats
