package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LocalLevel returns the random walk l(t+1) = l(t) + u(t) with Var(u) = v.
// The initial level is diffuse when initial is NaN.
func LocalLevel(v, initial float64) (Component, error) {
	if v < 0 {
		return Component{}, fmt.Errorf("%w: negative variance %g", ErrInvalidParameter, v)
	}
	return NewComponent(levelInitialization{initial: initial},
		levelDynamics{v: v, s: math.Sqrt(v)}, FromPosition(0)), nil
}

type levelInitialization struct {
	initial float64
}

func (l levelInitialization) StateDim() int { return 1 }

func (l levelInitialization) IsDiffuse() bool { return math.IsNaN(l.initial) }

func (l levelInitialization) DiffuseDim() int {
	if l.IsDiffuse() {
		return 1
	}
	return 0
}

func (l levelInitialization) DiffuseConstraints(b *mat.Dense) {
	if l.IsDiffuse() {
		b.Set(0, 0, 1)
	}
}

func (l levelInitialization) A0(a0 *mat.VecDense) {
	if l.IsDiffuse() {
		a0.SetVec(0, 0)
		return
	}
	a0.SetVec(0, l.initial)
}

func (l levelInitialization) Pi0(pi0 *mat.Dense) {
	if l.IsDiffuse() {
		pi0.Set(0, 0, 1)
	}
}

func (l levelInitialization) Pf0(pf0 *mat.Dense) {
	pf0.Set(0, 0, 0)
}

type levelDynamics struct {
	v, s float64
}

func (d levelDynamics) IsTimeInvariant() bool             { return true }
func (d levelDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d levelDynamics) InnovationsDim() int               { return 1 }
func (d levelDynamics) HasInnovations(int) bool           { return d.v != 0 }
func (d levelDynamics) V(_ int, q *mat.Dense)             { q.Set(0, 0, d.v) }
func (d levelDynamics) S(_ int, s *mat.Dense)             { s.Set(0, 0, d.s) }
func (d levelDynamics) T(_ int, tr *mat.Dense)            { tr.Set(0, 0, 1) }
func (d levelDynamics) TX(int, *mat.VecDense)             {}
func (d levelDynamics) XT(int, *mat.VecDense)             {}
func (d levelDynamics) TVT(int, *mat.Dense)               {}
func (d levelDynamics) AddV(_ int, p *mat.Dense)          { p.Set(0, 0, p.At(0, 0)+d.v) }

func (d levelDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	x.SetVec(0, x.AtVec(0)+d.s*u.AtVec(0))
	return nil
}

func (d levelDynamics) XS(_ int, x, xs *mat.VecDense) error {
	xs.SetVec(0, d.s*x.AtVec(0))
	return nil
}

// LocalLinearTrend returns the trend
//
//	l(t+1) = l(t) + n(t) + u(t), n(t+1) = n(t) + w(t)
//
// with Var(u) = lv and Var(w) = sv. Both states are diffuse.
func LocalLinearTrend(lv, sv float64) (Component, error) {
	if lv < 0 || sv < 0 {
		return Component{}, fmt.Errorf("%w: negative variance", ErrInvalidParameter)
	}
	d := lltDynamics{lv: lv, sv: sv, ls: math.Sqrt(lv), ss: math.Sqrt(sv)}
	return NewComponent(diffuseInitialization(2), d, FromPosition(0)), nil
}

type lltDynamics struct {
	lv, sv, ls, ss float64
}

func (d lltDynamics) IsTimeInvariant() bool             { return true }
func (d lltDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d lltDynamics) InnovationsDim() int               { return 2 }
func (d lltDynamics) HasInnovations(int) bool           { return d.lv != 0 || d.sv != 0 }

func (d lltDynamics) V(_ int, q *mat.Dense) {
	q.Zero()
	q.Set(0, 0, d.lv)
	q.Set(1, 1, d.sv)
}

func (d lltDynamics) S(_ int, s *mat.Dense) {
	s.Zero()
	s.Set(0, 0, d.ls)
	s.Set(1, 1, d.ss)
}

func (d lltDynamics) T(_ int, tr *mat.Dense) {
	tr.Set(0, 0, 1)
	tr.Set(0, 1, 1)
	tr.Set(1, 0, 0)
	tr.Set(1, 1, 1)
}

func (d lltDynamics) TX(_ int, x *mat.VecDense) {
	x.SetVec(0, x.AtVec(0)+x.AtVec(1))
}

func (d lltDynamics) XT(_ int, x *mat.VecDense) {
	x.SetVec(1, x.AtVec(0)+x.AtVec(1))
}

func (d lltDynamics) TVT(_ int, v *mat.Dense) {
	v00, v01, v11 := v.At(0, 0), v.At(0, 1), v.At(1, 1)
	v.Set(0, 0, v00+2*v01+v11)
	v.Set(0, 1, v01+v11)
	v.Set(1, 0, v01+v11)
}

func (d lltDynamics) AddV(_ int, p *mat.Dense) {
	p.Set(0, 0, p.At(0, 0)+d.lv)
	p.Set(1, 1, p.At(1, 1)+d.sv)
}

func (d lltDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	x.SetVec(0, x.AtVec(0)+d.ls*u.AtVec(0))
	x.SetVec(1, x.AtVec(1)+d.ss*u.AtVec(1))
	return nil
}

func (d lltDynamics) XS(_ int, x, xs *mat.VecDense) error {
	xs.SetVec(0, d.ls*x.AtVec(0))
	xs.SetVec(1, d.ss*x.AtVec(1))
	return nil
}

// diffuseInitialization is a fully diffuse state of the given dimension.
type diffuseInitialization int

func (n diffuseInitialization) StateDim() int       { return int(n) }
func (n diffuseInitialization) IsDiffuse() bool     { return n > 0 }
func (n diffuseInitialization) DiffuseDim() int     { return int(n) }
func (n diffuseInitialization) A0(a0 *mat.VecDense) { a0.Zero() }
func (n diffuseInitialization) Pf0(pf0 *mat.Dense)  { pf0.Zero() }

func (n diffuseInitialization) DiffuseConstraints(b *mat.Dense) {
	b.Zero()
	for i := 0; i < int(n); i++ {
		b.Set(i, i, 1)
	}
}

func (n diffuseInitialization) Pi0(pi0 *mat.Dense) {
	n.DiffuseConstraints(pi0)
}
