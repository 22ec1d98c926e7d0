package ssf

import (
	"gonum.org/v1/gonum/mat"
)

// FromPosition returns the loading selecting a single state element.
func FromPosition(p int) Loading {
	return positionLoading{pos: p}
}

type positionLoading struct {
	pos int
}

func (l positionLoading) IsTimeInvariant() bool { return true }

func (l positionLoading) Z(_ int, z *mat.VecDense) {
	z.Zero()
	z.SetVec(l.pos, 1)
}

func (l positionLoading) ZX(_ int, x *mat.VecDense) float64 {
	return x.AtVec(l.pos)
}

func (l positionLoading) ZVZ(_ int, v *mat.Dense) float64 {
	return v.At(l.pos, l.pos)
}

func (l positionLoading) VZ(_ int, v *mat.Dense, out *mat.VecDense) {
	out.CopyVec(v.ColView(l.pos))
}

func (l positionLoading) XpZd(_ int, x *mat.VecDense, d float64) {
	x.SetVec(l.pos, x.AtVec(l.pos)+d)
}

// FromPositions returns the loading summing several state elements.
func FromPositions(pos ...int) Loading {
	z := make(map[int]float64)
	for _, p := range pos {
		z[p]++
	}
	var idx []int
	var coef []float64
	for _, p := range pos {
		if c, ok := z[p]; ok {
			idx = append(idx, p)
			coef = append(coef, c)
			delete(z, p)
		}
	}
	return sparseLoading{idx: idx, coef: coef}
}

// TimeInvariant returns the loading with the fixed vector z.
func TimeInvariant(z []float64) Loading {
	var l sparseLoading
	for i, v := range z {
		if v != 0 {
			l.idx = append(l.idx, i)
			l.coef = append(l.coef, v)
		}
	}
	return l
}

type sparseLoading struct {
	idx  []int
	coef []float64
}

func (l sparseLoading) IsTimeInvariant() bool { return true }

func (l sparseLoading) Z(_ int, z *mat.VecDense) {
	z.Zero()
	for i, p := range l.idx {
		z.SetVec(p, l.coef[i])
	}
}

func (l sparseLoading) ZX(_ int, x *mat.VecDense) float64 {
	s := 0.0
	for i, p := range l.idx {
		s += l.coef[i] * x.AtVec(p)
	}
	return s
}

func (l sparseLoading) ZVZ(_ int, v *mat.Dense) float64 {
	s := 0.0
	for i, p := range l.idx {
		for j, q := range l.idx {
			s += l.coef[i] * l.coef[j] * v.At(p, q)
		}
	}
	return s
}

func (l sparseLoading) VZ(_ int, v *mat.Dense, out *mat.VecDense) {
	out.Zero()
	for i, p := range l.idx {
		out.AddScaledVec(out, l.coef[i], v.ColView(p))
	}
}

func (l sparseLoading) XpZd(_ int, x *mat.VecDense, d float64) {
	for i, p := range l.idx {
		x.SetVec(p, x.AtVec(p)+d*l.coef[i])
	}
}

// Rescale multiplies a loading by c.
func Rescale(l Loading, c float64) Loading {
	if c == 1 {
		return l
	}
	return rescaledLoading{l: l, c: c}
}

type rescaledLoading struct {
	l Loading
	c float64
}

func (r rescaledLoading) IsTimeInvariant() bool { return r.l.IsTimeInvariant() }

func (r rescaledLoading) Z(pos int, z *mat.VecDense) {
	r.l.Z(pos, z)
	z.ScaleVec(r.c, z)
}

func (r rescaledLoading) ZX(pos int, x *mat.VecDense) float64 {
	return r.c * r.l.ZX(pos, x)
}

func (r rescaledLoading) ZVZ(pos int, v *mat.Dense) float64 {
	return r.c * r.c * r.l.ZVZ(pos, v)
}

func (r rescaledLoading) VZ(pos int, v *mat.Dense, out *mat.VecDense) {
	r.l.VZ(pos, v, out)
	out.ScaleVec(r.c, out)
}

func (r rescaledLoading) XpZd(pos int, x *mat.VecDense, d float64) {
	r.l.XpZd(pos, x, d*r.c)
}

// Composite combines loadings defined on contiguous blocks of a larger
// state: block i starts at pos[i] and has dim[i] elements.
func Composite(pos, dim []int, loadings []Loading) Loading {
	return compositeLoading{
		pos:      append([]int(nil), pos...),
		dim:      append([]int(nil), dim...),
		loadings: append([]Loading(nil), loadings...),
	}
}

type compositeLoading struct {
	pos, dim []int
	loadings []Loading
}

func (l compositeLoading) IsTimeInvariant() bool {
	for _, c := range l.loadings {
		if !c.IsTimeInvariant() {
			return false
		}
	}
	return true
}

func (l compositeLoading) block(x *mat.VecDense, i int) *mat.VecDense {
	return x.SliceVec(l.pos[i], l.pos[i]+l.dim[i]).(*mat.VecDense)
}

// Z adds up the coefficients of a component named more than once.
func (l compositeLoading) Z(pos int, z *mat.VecDense) {
	z.Zero()
	for i, c := range l.blocks(pos) {
		b := l.block(z, i)
		b.AddVec(b, c)
	}
}

func (l compositeLoading) ZX(pos int, x *mat.VecDense) float64 {
	s := 0.0
	for i, c := range l.loadings {
		s += c.ZX(pos, l.block(x, i))
	}
	return s
}

func (l compositeLoading) blocks(pos int) []*mat.VecDense {
	z := make([]*mat.VecDense, len(l.loadings))
	for i, c := range l.loadings {
		z[i] = mat.NewVecDense(l.dim[i], nil)
		c.Z(pos, z[i])
	}
	return z
}

func (l compositeLoading) ZVZ(pos int, v *mat.Dense) float64 {
	z := l.blocks(pos)
	s := 0.0
	for i := range z {
		for j := range z {
			vij := v.Slice(l.pos[i], l.pos[i]+l.dim[i], l.pos[j], l.pos[j]+l.dim[j])
			s += mat.Inner(z[i], vij, z[j])
		}
	}
	return s
}

func (l compositeLoading) VZ(pos int, v *mat.Dense, out *mat.VecDense) {
	z := l.blocks(pos)
	r, _ := v.Dims()
	out.Zero()
	tmp := mat.NewVecDense(r, nil)
	for j := range z {
		tmp.MulVec(v.Slice(0, r, l.pos[j], l.pos[j]+l.dim[j]), z[j])
		out.AddVec(out, tmp)
	}
}

func (l compositeLoading) XpZd(pos int, x *mat.VecDense, d float64) {
	for i, c := range l.loadings {
		c.XpZd(pos, l.block(x, i), d)
	}
}
