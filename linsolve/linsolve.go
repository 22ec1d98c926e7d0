// Package linsolve wraps the LU decomposition of gonum for the small square
// systems solved repeatedly by the extraction engine.
package linsolve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxCondition is the largest condition number accepted by Decompose.
const MaxCondition = 1e14

var (
	// ErrSingular is returned when the matrix is singular or too ill-conditioned.
	ErrSingular = errors.New("linsolve: singular system")
	// ErrDimension is returned on shape mismatches.
	ErrDimension = errors.New("linsolve: dimension mismatch")
)

// Solver holds an LU factorization that can be reused for several
// right-hand sides.
type Solver struct {
	lu mat.LU
	n  int
}

// Decompose factorizes the square matrix a.
func Decompose(a mat.Matrix) (*Solver, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d matrix is not square", ErrDimension, r, c)
	}
	s := &Solver{n: r}
	if r == 0 {
		return s, nil
	}
	s.lu.Factorize(a)
	if cond := s.lu.Cond(); math.IsNaN(cond) || cond > MaxCondition {
		return nil, fmt.Errorf("%w: condition number %g", ErrSingular, cond)
	}
	return s, nil
}

// Size returns the dimension of the system.
func (s *Solver) Size() int {
	return s.n
}

// Solve returns x such that A x = b. b is not modified.
func (s *Solver) Solve(b []float64) ([]float64, error) {
	if len(b) != s.n {
		return nil, fmt.Errorf("%w: rhs has length %d, want %d", ErrDimension, len(b), s.n)
	}
	x := make([]float64, s.n)
	if s.n == 0 {
		return x, nil
	}
	rhs := mat.NewVecDense(s.n, append([]float64(nil), b...))
	var sol mat.VecDense
	if err := s.lu.SolveVecTo(&sol, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i := range x {
		x[i] = sol.AtVec(i)
	}
	return x, nil
}

// Solve factorizes a and solves a single system.
func Solve(a mat.Matrix, b []float64) ([]float64, error) {
	s, err := Decompose(a)
	if err != nil {
		return nil, err
	}
	return s.Solve(b)
}
