// Package stats provides the diagnostics of the standardized one-step-ahead
// prediction errors of a fitted model: autocorrelations, the Ljung-Box
// portmanteau test and the Durbin-Watson statistic.
//
//	acf := stats.ACF(residuals, 24)
//	lags := stats.SignificantLags(acf, stats.ConfidenceBound(len(residuals)))
//	lb := stats.LjungBox(residuals, 24, nparams)
//	if lb != nil && lb.PValue < 0.05 {
//		// residual autocorrelation
//	}
package stats
