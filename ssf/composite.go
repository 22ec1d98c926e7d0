package ssf

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// blocks describes contiguous sub-vectors of a state.
type blocks struct {
	pos, dim []int
}

func newBlocks(dims []int) blocks {
	b := blocks{pos: make([]int, len(dims)), dim: append([]int(nil), dims...)}
	for i := 1; i < len(dims); i++ {
		b.pos[i] = b.pos[i-1] + dims[i-1]
	}
	return b
}

func (b blocks) total() int {
	n := len(b.dim)
	if n == 0 {
		return 0
	}
	return b.pos[n-1] + b.dim[n-1]
}

func (b blocks) vec(x *mat.VecDense, i int) *mat.VecDense {
	return x.SliceVec(b.pos[i], b.pos[i]+b.dim[i]).(*mat.VecDense)
}

func (b blocks) diag(m *mat.Dense, i int) *mat.Dense {
	return m.Slice(b.pos[i], b.pos[i]+b.dim[i], b.pos[i], b.pos[i]+b.dim[i]).(*mat.Dense)
}

func (b blocks) block(m *mat.Dense, i, j int) *mat.Dense {
	return m.Slice(b.pos[i], b.pos[i]+b.dim[i], b.pos[j], b.pos[j]+b.dim[j]).(*mat.Dense)
}

// CompositeInitialization stacks the initializations of several components.
type CompositeInitialization struct {
	items   []Initialization
	state   blocks
	diffuse blocks
}

// NewCompositeInitialization creates the block-diagonal initialization.
func NewCompositeInitialization(items ...Initialization) *CompositeInitialization {
	dims := make([]int, len(items))
	ddims := make([]int, len(items))
	for i, it := range items {
		dims[i] = it.StateDim()
		ddims[i] = it.DiffuseDim()
	}
	return &CompositeInitialization{
		items:   append([]Initialization(nil), items...),
		state:   newBlocks(dims),
		diffuse: newBlocks(ddims),
	}
}

// StateDim returns the total dimension of the blocks.
func (c *CompositeInitialization) StateDim() int { return c.state.total() }

// IsDiffuse reports whether any block is diffuse.
func (c *CompositeInitialization) IsDiffuse() bool {
	for _, it := range c.items {
		if it.IsDiffuse() {
			return true
		}
	}
	return false
}

// DiffuseDim returns the total number of diffuse constraints.
func (c *CompositeInitialization) DiffuseDim() int { return c.diffuse.total() }

// DiffuseConstraints stacks the constraints of the blocks block-diagonally.
func (c *CompositeInitialization) DiffuseConstraints(b *mat.Dense) {
	b.Zero()
	for i, it := range c.items {
		if c.diffuse.dim[i] == 0 {
			continue
		}
		sub := b.Slice(c.state.pos[i], c.state.pos[i]+c.state.dim[i],
			c.diffuse.pos[i], c.diffuse.pos[i]+c.diffuse.dim[i]).(*mat.Dense)
		it.DiffuseConstraints(sub)
	}
}

// A0 fills the initial state of each block at its offset.
func (c *CompositeInitialization) A0(a0 *mat.VecDense) {
	for i, it := range c.items {
		it.A0(c.state.vec(a0, i))
	}
}

// Pi0 fills the diffuse covariance block by block.
func (c *CompositeInitialization) Pi0(pi0 *mat.Dense) {
	pi0.Zero()
	for i, it := range c.items {
		if c.diffuse.dim[i] > 0 {
			it.Pi0(c.state.diag(pi0, i))
		}
	}
}

// Pf0 fills the stationary covariance block by block.
func (c *CompositeInitialization) Pf0(pf0 *mat.Dense) {
	pf0.Zero()
	for i, it := range c.items {
		it.Pf0(c.state.diag(pf0, i))
	}
}

// CompositeDynamics is the block-diagonal combination of several dynamics.
type CompositeDynamics struct {
	items       []Dynamics
	state       blocks
	innovations blocks
}

// NewCompositeDynamics creates block-diagonal dynamics; dims are the state
// dimensions of the items.
func NewCompositeDynamics(dims []int, items ...Dynamics) *CompositeDynamics {
	idims := make([]int, len(items))
	for i, it := range items {
		idims[i] = it.InnovationsDim()
	}
	return &CompositeDynamics{
		items:       append([]Dynamics(nil), items...),
		state:       newBlocks(dims),
		innovations: newBlocks(idims),
	}
}

// IsTimeInvariant reports whether every block is time invariant.
func (c *CompositeDynamics) IsTimeInvariant() bool {
	for _, it := range c.items {
		if !it.IsTimeInvariant() {
			return false
		}
	}
	return true
}

// AreInnovationsTimeInvariant reports whether no block has time varying
// innovations.
func (c *CompositeDynamics) AreInnovationsTimeInvariant() bool {
	for _, it := range c.items {
		if !it.AreInnovationsTimeInvariant() {
			return false
		}
	}
	return true
}

// InnovationsDim returns the number of stacked innovations.
func (c *CompositeDynamics) InnovationsDim() int { return c.innovations.total() }

// HasInnovations reports whether any block has innovations at pos.
func (c *CompositeDynamics) HasInnovations(pos int) bool {
	for _, it := range c.items {
		if it.HasInnovations(pos) {
			return true
		}
	}
	return false
}

// V is the block-diagonal innovation covariance.
func (c *CompositeDynamics) V(pos int, q *mat.Dense) {
	q.Zero()
	for i, it := range c.items {
		it.V(pos, c.state.diag(q, i))
	}
}

// S places each block factor at its state and innovation offsets.
func (c *CompositeDynamics) S(pos int, s *mat.Dense) {
	s.Zero()
	for i, it := range c.items {
		if c.innovations.dim[i] == 0 {
			continue
		}
		sub := s.Slice(c.state.pos[i], c.state.pos[i]+c.state.dim[i],
			c.innovations.pos[i], c.innovations.pos[i]+c.innovations.dim[i]).(*mat.Dense)
		it.S(pos, sub)
	}
}

// T is the block-diagonal transition matrix.
func (c *CompositeDynamics) T(pos int, tr *mat.Dense) {
	tr.Zero()
	for i, it := range c.items {
		it.T(pos, c.state.diag(tr, i))
	}
}

// TX applies the transition of each block to its slice of x.
func (c *CompositeDynamics) TX(pos int, x *mat.VecDense) {
	for i, it := range c.items {
		it.TX(pos, c.state.vec(x, i))
	}
}

// XT applies x T block by block.
func (c *CompositeDynamics) XT(pos int, x *mat.VecDense) {
	for i, it := range c.items {
		it.XT(pos, c.state.vec(x, i))
	}
}

// TVT computes T V T' with the cross blocks.
func (c *CompositeDynamics) TVT(pos int, v *mat.Dense) {
	for i, it := range c.items {
		it.TVT(pos, c.state.diag(v, i))
	}
	// off-diagonal blocks: T_i V_ij T_j'
	for i := range c.items {
		for j := i + 1; j < len(c.items); j++ {
			vij := c.state.block(v, i, j)
			r, k := vij.Dims()
			for col := 0; col < k; col++ {
				c.items[i].TX(pos, vij.ColView(col).(*mat.VecDense))
			}
			for row := 0; row < r; row++ {
				c.items[j].TX(pos, vij.RowView(row).(*mat.VecDense))
			}
			vji := c.state.block(v, j, i)
			for a := 0; a < r; a++ {
				for b := 0; b < k; b++ {
					vji.Set(b, a, vij.At(a, b))
				}
			}
		}
	}
}

// AddV adds V to the diagonal blocks of p.
func (c *CompositeDynamics) AddV(pos int, p *mat.Dense) {
	for i, it := range c.items {
		it.AddV(pos, c.state.diag(p, i))
	}
}

// AddSU adds S u block by block.
func (c *CompositeDynamics) AddSU(pos int, x, u *mat.VecDense) error {
	var errs []error
	for i, it := range c.items {
		if c.innovations.dim[i] == 0 {
			continue
		}
		errs = append(errs, it.AddSU(pos, c.state.vec(x, i), c.innovations.vec(u, i)))
	}
	return errors.Join(errs...)
}

// XS computes x S block by block.
func (c *CompositeDynamics) XS(pos int, x, xs *mat.VecDense) error {
	var errs []error
	for i, it := range c.items {
		if c.innovations.dim[i] == 0 {
			continue
		}
		errs = append(errs, it.XS(pos, c.state.vec(x, i), c.innovations.vec(xs, i)))
	}
	return errors.Join(errs...)
}
