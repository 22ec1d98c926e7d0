package ssf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseats/filters"
	"github.com/sartorproj/goseats/polynomial"
)

// AR returns the autoregressive component y(t) = phi_1 y(t-1) + ... + e(t)
// with Var(e) = v. The state holds y(t), ..., y(t-dim+1) with
// dim = max(len(phi), nlags).
func AR(phi []float64, v float64, nlags int) (Component, error) {
	if len(phi) == 0 {
		return Component{}, fmt.Errorf("%w: autoregressive component without coefficients", ErrInvalidParameter)
	}
	if v < 0 {
		return Component{}, fmt.Errorf("%w: negative variance %g", ErrInvalidParameter, v)
	}
	dim := max(len(phi), nlags)
	ar := make([]float64, len(phi)+1)
	ar[0] = 1
	for i, c := range phi {
		ar[i+1] = -c
	}
	acov, err := filters.AutoCovariances(polynomial.Of(ar...), filters.NewSymmetric(v), dim)
	if err != nil {
		return Component{}, fmt.Errorf("%w: non stationary autoregressive polynomial: %v", ErrInvalidParameter, err)
	}
	init := arInitialization{acov: acov}
	dyn := arDynamics{phi: append([]float64(nil), phi...), v: v, s: math.Sqrt(v), dim: dim}
	return NewComponent(init, dyn, FromPosition(0)), nil
}

type arInitialization struct {
	acov []float64
}

func (a arInitialization) StateDim() int                 { return len(a.acov) }
func (a arInitialization) IsDiffuse() bool               { return false }
func (a arInitialization) DiffuseDim() int               { return 0 }
func (a arInitialization) DiffuseConstraints(*mat.Dense) {}
func (a arInitialization) A0(a0 *mat.VecDense)           { a0.Zero() }
func (a arInitialization) Pi0(pi0 *mat.Dense)            { pi0.Zero() }

func (a arInitialization) Pf0(pf0 *mat.Dense) {
	n := len(a.acov)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i - j
			if k < 0 {
				k = -k
			}
			pf0.Set(i, j, a.acov[k])
		}
	}
}

type arDynamics struct {
	phi  []float64
	v, s float64
	dim  int
}

func (d arDynamics) IsTimeInvariant() bool             { return true }
func (d arDynamics) AreInnovationsTimeInvariant() bool { return true }
func (d arDynamics) InnovationsDim() int               { return 1 }
func (d arDynamics) HasInnovations(int) bool           { return true }

func (d arDynamics) V(_ int, q *mat.Dense) {
	q.Zero()
	q.Set(0, 0, d.v)
}

func (d arDynamics) S(_ int, s *mat.Dense) {
	s.Zero()
	s.Set(0, 0, d.s)
}

func (d arDynamics) T(_ int, tr *mat.Dense) {
	tr.Zero()
	for j, c := range d.phi {
		tr.Set(0, j, c)
	}
	for i := 1; i < d.dim; i++ {
		tr.Set(i, i-1, 1)
	}
}

func (d arDynamics) TX(_ int, x *mat.VecDense) {
	z := 0.0
	for i, c := range d.phi {
		z += c * x.AtVec(i)
	}
	shiftDown(x)
	x.SetVec(0, z)
}

func (d arDynamics) XT(_ int, x *mat.VecDense) {
	first := x.AtVec(0)
	shiftUp(x)
	x.SetVec(d.dim-1, 0)
	for i, c := range d.phi {
		x.SetVec(i, x.AtVec(i)+first*c)
	}
}

func (d arDynamics) TVT(_ int, v *mat.Dense) {
	n := d.dim
	vphi := make([]float64, n)
	for j := 0; j < n; j++ {
		s := 0.0
		for k, c := range d.phi {
			s += c * v.At(k, j)
		}
		vphi[j] = s
	}
	top := 0.0
	for k, c := range d.phi {
		top += c * vphi[k]
	}
	for i := n - 1; i > 0; i-- {
		for j := n - 1; j > 0; j-- {
			v.Set(i, j, v.At(i-1, j-1))
		}
	}
	v.Set(0, 0, top)
	for j := 1; j < n; j++ {
		v.Set(0, j, vphi[j-1])
		v.Set(j, 0, vphi[j-1])
	}
}

func (d arDynamics) AddV(_ int, p *mat.Dense) {
	p.Set(0, 0, p.At(0, 0)+d.v)
}

func (d arDynamics) AddSU(int, *mat.VecDense, *mat.VecDense) error {
	return fmt.Errorf("%w: AddSU on autoregressive dynamics", ErrUnsupported)
}

func (d arDynamics) XS(int, *mat.VecDense, *mat.VecDense) error {
	return fmt.Errorf("%w: XS on autoregressive dynamics", ErrUnsupported)
}
