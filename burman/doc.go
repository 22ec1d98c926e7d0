// Package burman extracts the components of a series with the
// Wiener-Kolmogorov filters of a UCARIMA model, using the algorithm of
// Burman (1980) and Wilson.
//
// The series is extended with exact ARIMA forecasts and backcasts, and each
// symmetric filter nu(B,F) = c(B,F) / (D(B) D(F)) is split into
//
//	g(B)/D(B) + g(F)/D(F)
//
// The two one-sided parts are computed by recursions whose starting values
// come from a small linear system at the end of the sample, so that the
// infinite filters are applied exactly to the extended series.
//
// Basic usage:
//
//	e := burman.New()
//	e.SetData(values)
//	if err := e.SetUcarimaModel(ucm); err != nil {
//		return err
//	}
//	e.SetForecastsCount(12)
//	trend, err := e.Estimates(0, true)
//	sd, err := e.StdevEstimates(0)
package burman
