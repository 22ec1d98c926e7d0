// Package ucarima implements unobserved components ARIMA models and their
// Wiener-Kolmogorov estimators.
//
// A UCARIMA model writes an ARIMA model as the sum of independent ARIMA
// components (trend, seasonal, irregular...). For each component, the
// Wiener-Kolmogorov filter gives the minimum mean squared error estimator in
// a doubly infinite sample; WienerKolmogorov also provides the variance of
// its final error and the revision variances of the preliminary estimators
// near the end of the series.
package ucarima
