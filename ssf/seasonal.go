package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SeasonalDummy returns the dummy seasonal component
// s(t+1) = -s(t) - ... - s(t-period+2) + w(t), with Var(w) = v.
func SeasonalDummy(period int, v float64) (Component, error) {
	if period < 2 {
		return Component{}, fmt.Errorf("%w: seasonal period %d", ErrInvalidParameter, period)
	}
	if v < 0 {
		return Component{}, fmt.Errorf("%w: negative variance %g", ErrInvalidParameter, v)
	}
	d := seasonalDynamics{dim: period - 1, v: v, s: math.Sqrt(v)}
	return NewComponent(diffuseInitialization(period-1), d, FromPosition(0)), nil
}

type seasonalDynamics struct {
	dim  int
	v, s float64
}

func (d seasonalDynamics) IsTimeInvariant() bool             { return true }
func (d seasonalDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d seasonalDynamics) InnovationsDim() int               { return 1 }
func (d seasonalDynamics) HasInnovations(int) bool           { return d.v != 0 }

func (d seasonalDynamics) V(_ int, q *mat.Dense) {
	q.Zero()
	q.Set(0, 0, d.v)
}

func (d seasonalDynamics) S(_ int, s *mat.Dense) {
	s.Zero()
	s.Set(0, 0, d.s)
}

func (d seasonalDynamics) T(_ int, tr *mat.Dense) {
	tr.Zero()
	for j := 0; j < d.dim; j++ {
		tr.Set(0, j, -1)
	}
	for i := 1; i < d.dim; i++ {
		tr.Set(i, i-1, 1)
	}
}

func (d seasonalDynamics) TX(_ int, x *mat.VecDense) {
	z := 0.0
	for i := 0; i < d.dim; i++ {
		z -= x.AtVec(i)
	}
	shiftDown(x)
	x.SetVec(0, z)
}

func (d seasonalDynamics) XT(_ int, x *mat.VecDense) {
	first := x.AtVec(0)
	shiftUp(x)
	x.SetVec(d.dim-1, 0)
	for i := 0; i < d.dim; i++ {
		x.SetVec(i, x.AtVec(i)-first)
	}
}

func (d seasonalDynamics) TVT(pos int, v *mat.Dense) {
	tvt(d, pos, v)
}

func (d seasonalDynamics) AddV(_ int, p *mat.Dense) {
	p.Set(0, 0, p.At(0, 0)+d.v)
}

func (d seasonalDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	x.SetVec(0, x.AtVec(0)+d.s*u.AtVec(0))
	return nil
}

func (d seasonalDynamics) XS(_ int, x, xs *mat.VecDense) error {
	xs.SetVec(0, d.s*x.AtVec(0))
	return nil
}
