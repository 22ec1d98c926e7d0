package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Regression returns a component holding the coefficients of the regression
// variables x (one column per variable). The coefficients are diffuse and
// constant when vars is nil; otherwise they follow random walks with the
// given variances.
func Regression(x *mat.Dense, vars []float64) (Component, error) {
	_, nx := x.Dims()
	if nx == 0 {
		return Component{}, fmt.Errorf("%w: no regression variable", ErrInvalidParameter)
	}
	if vars != nil && len(vars) != nx {
		return Component{}, fmt.Errorf("%w: %d variances for %d regression variables",
			ErrInvalidParameter, len(vars), nx)
	}
	d := regressionDynamics{dim: nx}
	if vars != nil {
		d.vars = append([]float64(nil), vars...)
	}
	return NewComponent(diffuseInitialization(nx), d, regressionLoading{x: x}), nil
}

type regressionDynamics struct {
	dim  int
	vars []float64
}

func (d regressionDynamics) IsTimeInvariant() bool             { return true }
func (d regressionDynamics) AreInnovationsTimeInvariant() bool { return true }

func (d regressionDynamics) InnovationsDim() int {
	if d.vars == nil {
		return 0
	}
	return d.dim
}

func (d regressionDynamics) HasInnovations(int) bool { return d.vars != nil }

func (d regressionDynamics) V(_ int, q *mat.Dense) {
	q.Zero()
	for i, v := range d.vars {
		q.Set(i, i, v)
	}
}

func (d regressionDynamics) S(_ int, s *mat.Dense) {
	s.Zero()
	for i, v := range d.vars {
		s.Set(i, i, math.Sqrt(v))
	}
}

func (d regressionDynamics) T(_ int, tr *mat.Dense) {
	tr.Zero()
	for i := 0; i < d.dim; i++ {
		tr.Set(i, i, 1)
	}
}

func (d regressionDynamics) TX(int, *mat.VecDense) {}
func (d regressionDynamics) XT(int, *mat.VecDense) {}
func (d regressionDynamics) TVT(int, *mat.Dense)   {}

func (d regressionDynamics) AddV(_ int, p *mat.Dense) {
	for i, v := range d.vars {
		p.Set(i, i, p.At(i, i)+v)
	}
}

func (d regressionDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	for i, v := range d.vars {
		x.SetVec(i, x.AtVec(i)+math.Sqrt(v)*u.AtVec(i))
	}
	return nil
}

func (d regressionDynamics) XS(_ int, x, xs *mat.VecDense) error {
	for i, v := range d.vars {
		xs.SetVec(i, math.Sqrt(v)*x.AtVec(i))
	}
	return nil
}

// regressionLoading is Z(t) = x[t, :].
type regressionLoading struct {
	x *mat.Dense
}

func (l regressionLoading) IsTimeInvariant() bool { return false }

func (l regressionLoading) row(pos int) *mat.VecDense {
	return l.x.RowView(pos).(*mat.VecDense)
}

func (l regressionLoading) Z(pos int, z *mat.VecDense) {
	z.CopyVec(l.row(pos))
}

func (l regressionLoading) ZX(pos int, x *mat.VecDense) float64 {
	return mat.Dot(l.row(pos), x)
}

func (l regressionLoading) ZVZ(pos int, v *mat.Dense) float64 {
	r := l.row(pos)
	return mat.Inner(r, v, r)
}

func (l regressionLoading) VZ(pos int, v *mat.Dense, out *mat.VecDense) {
	out.MulVec(v, l.row(pos))
}

func (l regressionLoading) XpZd(pos int, x *mat.VecDense, d float64) {
	x.AddScaledVec(x, d, l.row(pos))
}
