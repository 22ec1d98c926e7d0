// Package filters implements the symmetric (two-sided) linear filters used
// to describe moving-average spectra and Wiener-Kolmogorov estimators.
//
// A SymmetricFilter s(B,F) = w0 + sum wk (B^k + F^k) is typically the
// spectrum v theta(B) theta(F) of a moving average. Factorize recovers
// theta and v from it, and Decompose splits a rational symmetric filter
// into two one-sided parts:
//
//	s(B,F) / (d(B) d(F)) = g(B)/d(B) + g(F)/d(F)
package filters
