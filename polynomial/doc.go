// Package polynomial implements real polynomials in the lag operator B.
//
// Polynomials are immutable values. Coefficients are stored in increasing
// degree, so Of(1, -0.5) is 1 - 0.5B.
//
// # Roots
//
// Roots are the eigenvalues of the companion matrix, computed with gonum.
// They are used to split a polynomial into its stationary and unit-root
// factors and to remove common factors between two polynomials:
//
//	stat, nonstat, _ := polynomial.Of(1, -1.5, 0.5).SplitUnitRoots()
//	// stat = 1 - 0.5B, nonstat = 1 - B
//
//	common, l, r, ok := polynomial.Simplify(left, right)
package polynomial
