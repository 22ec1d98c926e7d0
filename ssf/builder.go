package ssf

import (
	"fmt"
)

// Item is a weighted reference to a named component in an equation.
type Item struct {
	Component   string
	Coefficient float64
}

// Equation describes one observed variable as a weighted sum of components
// plus a measurement error with the given variance.
type Equation struct {
	Items            []Item
	MeasurementError float64
}

// CompositeBuilder assembles named components into a multivariate model.
type CompositeBuilder struct {
	names      []string
	components []Component
	equations  []Equation
	errors     Errors
	err        error
}

// NewCompositeBuilder returns an empty builder.
func NewCompositeBuilder() *CompositeBuilder {
	return &CompositeBuilder{}
}

// Add registers a component; the registration order defines the layout of
// the state vector.
func (b *CompositeBuilder) Add(name string, c Component) *CompositeBuilder {
	for _, n := range b.names {
		if n == name {
			b.fail(fmt.Errorf("%w: duplicate component %q", ErrModelDefinition, name))
			return b
		}
	}
	b.names = append(b.names, name)
	b.components = append(b.components, c)
	return b
}

// AddEquation appends an observation equation.
func (b *CompositeBuilder) AddEquation(eq Equation) *CompositeBuilder {
	eq.Items = append([]Item(nil), eq.Items...)
	b.equations = append(b.equations, eq)
	return b
}

// MeasurementErrors overrides the default diagonal measurement errors.
func (b *CompositeBuilder) MeasurementErrors(errors Errors) *CompositeBuilder {
	b.errors = errors
	return b
}

func (b *CompositeBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build creates the model. It fails with ErrModelDefinition when an equation
// references an unknown component, or when no component or no equation was
// given.
func (b *CompositeBuilder) Build() (*MultivariateModel, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.components) == 0 {
		return nil, fmt.Errorf("%w: no component", ErrModelDefinition)
	}
	if len(b.equations) == 0 {
		return nil, fmt.Errorf("%w: no equation", ErrModelDefinition)
	}
	dims := make([]int, len(b.components))
	inits := make([]Initialization, len(b.components))
	dyns := make([]Dynamics, len(b.components))
	for i, c := range b.components {
		dims[i] = c.Dim()
		inits[i] = c.Initialization()
		dyns[i] = c.Dynamics()
	}
	layout := newBlocks(dims)

	loadings := make([]Loading, len(b.equations))
	vars := make([]float64, len(b.equations))
	for k, eq := range b.equations {
		pos := make([]int, len(eq.Items))
		dim := make([]int, len(eq.Items))
		ls := make([]Loading, len(eq.Items))
		for j, it := range eq.Items {
			idx := b.find(it.Component)
			if idx < 0 {
				return nil, fmt.Errorf("%w: equation %d references unknown component %q",
					ErrModelDefinition, k, it.Component)
			}
			pos[j] = layout.pos[idx]
			dim[j] = layout.dim[idx]
			ls[j] = Rescale(b.components[idx].Loading(), it.Coefficient)
		}
		loadings[k] = Composite(pos, dim, ls)
		vars[k] = eq.MeasurementError
	}
	errs := b.errors
	if errs == nil {
		errs = DiagonalErrors(vars)
	}
	return &MultivariateModel{
		initialization: NewCompositeInitialization(inits...),
		dynamics:       NewCompositeDynamics(dims, dyns...),
		measurements:   NewMeasurements(loadings, errs),
		names:          append([]string(nil), b.names...),
		layout:         layout,
	}, nil
}

func (b *CompositeBuilder) find(name string) int {
	for i, n := range b.names {
		if n == name {
			return i
		}
	}
	return -1
}
