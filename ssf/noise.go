package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Noise returns a white noise component of variance v held in the state.
func Noise(v float64) (Component, error) {
	if v < 0 {
		return Component{}, fmt.Errorf("%w: negative variance %g", ErrInvalidParameter, v)
	}
	return NewComponent(noiseInitialization(v), noiseDynamics{v: v, s: math.Sqrt(v)}, FromPosition(0)), nil
}

type noiseInitialization float64

func (n noiseInitialization) StateDim() int                 { return 1 }
func (n noiseInitialization) IsDiffuse() bool               { return false }
func (n noiseInitialization) DiffuseDim() int               { return 0 }
func (n noiseInitialization) DiffuseConstraints(*mat.Dense) {}
func (n noiseInitialization) A0(a0 *mat.VecDense)           { a0.SetVec(0, 0) }
func (n noiseInitialization) Pi0(pi0 *mat.Dense)            { pi0.Set(0, 0, 0) }
func (n noiseInitialization) Pf0(pf0 *mat.Dense)            { pf0.Set(0, 0, float64(n)) }

type noiseDynamics struct {
	v, s float64
}

func (d noiseDynamics) IsTimeInvariant() bool             { return true }
func (d noiseDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d noiseDynamics) InnovationsDim() int               { return 1 }
func (d noiseDynamics) HasInnovations(int) bool           { return d.v != 0 }
func (d noiseDynamics) V(_ int, q *mat.Dense)             { q.Set(0, 0, d.v) }
func (d noiseDynamics) S(_ int, s *mat.Dense)             { s.Set(0, 0, d.s) }
func (d noiseDynamics) T(_ int, tr *mat.Dense)            { tr.Set(0, 0, 0) }
func (d noiseDynamics) TX(_ int, x *mat.VecDense)         { x.SetVec(0, 0) }
func (d noiseDynamics) XT(_ int, x *mat.VecDense)         { x.SetVec(0, 0) }
func (d noiseDynamics) TVT(_ int, v *mat.Dense)           { v.Set(0, 0, 0) }
func (d noiseDynamics) AddV(_ int, p *mat.Dense)          { p.Set(0, 0, p.At(0, 0)+d.v) }

func (d noiseDynamics) AddSU(_ int, x, u *mat.VecDense) error {
	x.SetVec(0, x.AtVec(0)+d.s*u.AtVec(0))
	return nil
}

func (d noiseDynamics) XS(_ int, x, xs *mat.VecDense) error {
	xs.SetVec(0, d.s*x.AtVec(0))
	return nil
}
