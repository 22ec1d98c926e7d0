package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/filters"
	"github.com/sartorproj/goseats/polynomial"
)

// Arma returns the stationary ARMA component ar(B) y(t) = ma(B) e(t) with
// Var(e) = v, in forecast form: the state holds the forecasts of
// y(t), ..., y(t+r-1) with r = max(p, q+1). Both polynomials must have a
// unit constant term.
func Arma(ar, ma polynomial.Polynomial, v float64) (Component, error) {
	if ar.At(0) != 1 || ma.At(0) != 1 {
		return Component{}, fmt.Errorf("%w: polynomials must start with 1", ErrInvalidParameter)
	}
	if v < 0 {
		return Component{}, fmt.Errorf("%w: negative variance %g", ErrInvalidParameter, v)
	}
	p, q := ar.Degree(), ma.Degree()
	r := max(p, q+1)
	acov, err := filters.AutoCovariances(ar, filters.FromPolynomial(ma).Scale(v), r)
	if err != nil {
		return Component{}, fmt.Errorf("%w: non stationary autoregressive polynomial: %v", ErrInvalidParameter, err)
	}
	psi := filters.Expand(ma, ar, r)
	pf0 := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			c := acov[j-i]
			for k := 0; k < i; k++ {
				c -= v * psi[k] * psi[k+j-i]
			}
			pf0.Set(i, j, c)
			pf0.Set(j, i, c)
		}
	}
	s := make([]float64, r)
	for i := range s {
		s[i] = math.Sqrt(v) * psi[i]
	}
	dyn := armaDynamics{ar: ar.Coefficients(), psi: psi, s: s, v: v, dim: r}
	return NewComponent(armaInitialization{pf0: pf0}, dyn, FromPosition(0)), nil
}

type armaInitialization struct {
	pf0 *mat.Dense
}

func (a armaInitialization) StateDim() int {
	r, _ := a.pf0.Dims()
	return r
}

func (a armaInitialization) IsDiffuse() bool               { return false }
func (a armaInitialization) DiffuseDim() int               { return 0 }
func (a armaInitialization) DiffuseConstraints(*mat.Dense) {}
func (a armaInitialization) A0(a0 *mat.VecDense)           { a0.Zero() }
func (a armaInitialization) Pi0(pi0 *mat.Dense)            { pi0.Zero() }
func (a armaInitialization) Pf0(pf0 *mat.Dense)            { pf0.Copy(a.pf0) }

type armaDynamics struct {
	ar  []float64
	psi []float64
	s   []float64
	v   float64
	dim int
}

func (d armaDynamics) IsTimeInvariant() bool             { return true }
func (d armaDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d armaDynamics) InnovationsDim() int               { return 1 }
func (d armaDynamics) HasInnovations(int) bool           { return d.v != 0 }

func (d armaDynamics) V(_ int, q *mat.Dense) {
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			q.Set(i, j, d.v*d.psi[i]*d.psi[j])
		}
	}
}

func (d armaDynamics) S(_ int, s *mat.Dense) {
	for i := 0; i < d.dim; i++ {
		s.Set(i, 0, d.s[i])
	}
}

func (d armaDynamics) T(_ int, tr *mat.Dense) {
	tr.Zero()
	for i := 0; i < d.dim-1; i++ {
		tr.Set(i, i+1, 1)
	}
	for k := 1; k < len(d.ar); k++ {
		tr.Set(d.dim-1, d.dim-k, -d.ar[k])
	}
}

func (d armaDynamics) TX(_ int, x *mat.VecDense) {
	z := 0.0
	for k := 1; k < len(d.ar); k++ {
		z -= d.ar[k] * x.AtVec(d.dim-k)
	}
	shiftUp(x)
	x.SetVec(d.dim-1, z)
}

func (d armaDynamics) XT(_ int, x *mat.VecDense) {
	last := x.AtVec(d.dim - 1)
	shiftDown(x)
	x.SetVec(0, 0)
	for k := 1; k < len(d.ar); k++ {
		x.SetVec(d.dim-k, x.AtVec(d.dim-k)-d.ar[k]*last)
	}
}

func (d armaDynamics) TVT(pos int, v *mat.Dense) {
	tvt(d, pos, v)
}

func (d armaDynamics) AddV(_ int, p *mat.Dense) {
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			p.Set(i, j, p.At(i, j)+d.v*d.psi[i]*d.psi[j])
		}
	}
}

func (d armaDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	x.AddScaledVec(x, u.AtVec(0), mat.NewVecDense(d.dim, append([]float64(nil), d.s...)))
	return nil
}

func (d armaDynamics) XS(_ int, x, xs *mat.VecDense) error {
	xs.SetVec(0, mat.Dot(x, mat.NewVecDense(d.dim, append([]float64(nil), d.s...))))
	return nil
}
