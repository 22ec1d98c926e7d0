package sts

import "gonum.org/v1/gonum/mat"

// Config holds the options of Estimate and Decompose.
type Config struct {
	Forecasts      int     // Number of forecasts (default: 0)
	MeanCorrection bool    // Estimate a constant in the differenced series
	Log            bool    // Multiplicative decomposition of the logged series
	Estimate       bool    // Estimate the free variances before decomposing
	ExtraMargin    int     // Extra periods added to the series extension
	MaxIterations  int     // Maximum optimizer iterations (default: 1000)
	Tolerance      float64 // Convergence tolerance on the likelihood (default: 1e-9)
	LjungBoxLags   int     // Lags of the Ljung-Box test (default: 24)
	// Regressors holds the regression variables, one column per name in
	// Spec.Regression and one row per period. Forecasting with regression
	// effects needs Forecasts rows after the sample.
	Regressors *mat.Dense
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxIterations: 1000,
		Tolerance:     1e-9,
		LjungBoxLags:  24,
	}
}
