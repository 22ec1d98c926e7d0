package ssf

import "gonum.org/v1/gonum/mat"

// Measurements gathers the loadings of each equation and the covariance of
// the measurement errors.
type Measurements struct {
	loadings []Loading
	errors   Errors
}

// NewMeasurements creates a measurement block. A nil errors means no
// measurement error.
func NewMeasurements(loadings []Loading, errors Errors) *Measurements {
	if errors == nil {
		errors = DiagonalErrors(make([]float64, len(loadings)))
	}
	return &Measurements{loadings: append([]Loading(nil), loadings...), errors: errors}
}

// Count returns the number of equations.
func (m *Measurements) Count() int { return len(m.loadings) }

// Loading returns the loading of equation i.
func (m *Measurements) Loading(i int) Loading { return m.loadings[i] }

// Errors returns the measurement errors.
func (m *Measurements) Errors() Errors { return m.errors }

// IsTimeInvariant reports whether every loading and the errors are time invariant.
func (m *Measurements) IsTimeInvariant() bool {
	if !m.errors.IsTimeInvariant() {
		return false
	}
	for _, l := range m.loadings {
		if !l.IsTimeInvariant() {
			return false
		}
	}
	return true
}

// DiagonalErrors returns independent measurement errors with the given variances.
func DiagonalErrors(vars []float64) Errors {
	return diagonalErrors(append([]float64(nil), vars...))
}

type diagonalErrors []float64

func (e diagonalErrors) IsTimeInvariant() bool { return true }
func (e diagonalErrors) AreIndependent() bool  { return true }

func (e diagonalErrors) H(_ int, h *mat.Dense) {
	h.Zero()
	for i, v := range e {
		h.Set(i, i, v)
	}
}

// FullErrors returns correlated measurement errors with covariance h.
func FullErrors(h mat.Symmetric) Errors {
	n := h.SymmetricDim()
	c := mat.NewDense(n, n, nil)
	c.Copy(h)
	return fullErrors{h: c}
}

type fullErrors struct {
	h *mat.Dense
}

func (e fullErrors) IsTimeInvariant() bool { return true }

func (e fullErrors) AreIndependent() bool {
	n, _ := e.h.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && e.h.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

func (e fullErrors) H(_ int, h *mat.Dense) {
	h.Copy(e.h)
}
