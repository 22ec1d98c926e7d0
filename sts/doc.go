// Package sts provides basic structural time series models: their
// specification, their estimation by maximum likelihood with the Kalman
// filter, and the decomposition of a series into trend, seasonal, cycle
// and irregular components with the Wiener-Kolmogorov filters of their
// reduced form.
//
// # Specification
//
// Models are described in YAML:
//
//	level:
//	  variance: 0.1
//	slope:
//	  variance: 0.001
//	  fixed: true
//	seasonal:
//	  period: 12
//	  variance: 0.01
//	noise:
//	  variance: 1
//	regression: [easter]
//
// # Decomposition
//
//	spec, err := sts.LoadSpec("model.yaml")
//	cfg := sts.DefaultConfig()
//	cfg.Estimate = true
//	cfg.Forecasts = 12
//	d, err := sts.Decompose(series.Values, spec, cfg)
//	fmt.Println(d.Trend.Estimates, d.Adjusted.Forecasts)
//
// The state space form (Spec.Composite) is used for the estimation and the
// regression effects; the reduced form (Spec.Ucarima) drives the
// extraction.
package sts
