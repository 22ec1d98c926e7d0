package ssf

import "gonum.org/v1/gonum/mat"

// Initialization describes the distribution of the initial state:
// a0 + B delta + N(0, Pf0), with delta diffuse and B the diffuse constraints.
type Initialization interface {
	StateDim() int
	IsDiffuse() bool
	DiffuseDim() int
	// DiffuseConstraints fills b (StateDim x DiffuseDim).
	DiffuseConstraints(b *mat.Dense)
	A0(a0 *mat.VecDense)
	// Pi0 fills the diffuse part of the covariance, B B'.
	Pi0(pi0 *mat.Dense)
	Pf0(pf0 *mat.Dense)
}

// Dynamics describes the transition a(t+1) = T(t) a(t) + S(t) u(t), with
// u(t) standard normal innovations and V(t) = S(t) S(t)'.
// All the in-place operations work on views of a larger state.
type Dynamics interface {
	IsTimeInvariant() bool
	AreInnovationsTimeInvariant() bool
	InnovationsDim() int
	HasInnovations(pos int) bool
	V(pos int, q *mat.Dense)
	S(pos int, s *mat.Dense)
	T(pos int, tr *mat.Dense)
	// TX computes x <- T x.
	TX(pos int, x *mat.VecDense)
	// XT computes x <- x T.
	XT(pos int, x *mat.VecDense)
	// TVT computes v <- T v T'.
	TVT(pos int, v *mat.Dense)
	// AddV computes p <- p + V.
	AddV(pos int, p *mat.Dense)
	// AddSU computes x <- x + S u.
	AddSU(pos int, x, u *mat.VecDense) error
	// XS computes xs <- x S.
	XS(pos int, x, xs *mat.VecDense) error
}

// Loading maps the state to one observation: y(t) = Z(t) a(t) + e(t).
type Loading interface {
	IsTimeInvariant() bool
	Z(pos int, z *mat.VecDense)
	ZX(pos int, x *mat.VecDense) float64
	ZVZ(pos int, v *mat.Dense) float64
	// VZ computes out <- v Z'.
	VZ(pos int, v *mat.Dense, out *mat.VecDense)
	// XpZd computes x <- x + d Z.
	XpZd(pos int, x *mat.VecDense, d float64)
}

// Errors describes the covariance of the measurement errors.
type Errors interface {
	IsTimeInvariant() bool
	AreIndependent() bool
	H(pos int, h *mat.Dense)
}

// tvt applies the transition on both sides of v using TX on its columns and
// then on its rows.
func tvt(d Dynamics, pos int, v *mat.Dense) {
	r, c := v.Dims()
	for j := 0; j < c; j++ {
		d.TX(pos, v.ColView(j).(*mat.VecDense))
	}
	for i := 0; i < r; i++ {
		d.TX(pos, v.RowView(i).(*mat.VecDense))
	}
}

func shiftDown(x *mat.VecDense) {
	for i := x.Len() - 1; i > 0; i-- {
		x.SetVec(i, x.AtVec(i-1))
	}
}

func shiftUp(x *mat.VecDense) {
	n := x.Len()
	for i := 0; i < n-1; i++ {
		x.SetVec(i, x.AtVec(i+1))
	}
}
