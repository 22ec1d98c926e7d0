package ssf

// MultivariateModel is a state-space model with one or several observation
// equations.
type MultivariateModel struct {
	initialization Initialization
	dynamics       Dynamics
	measurements   *Measurements
	names          []string
	layout         blocks
}

// NewUnivariateModel creates a single-equation model with measurement error
// variance h.
func NewUnivariateModel(init Initialization, dyn Dynamics, loading Loading, h float64) *MultivariateModel {
	return &MultivariateModel{
		initialization: init,
		dynamics:       dyn,
		measurements:   NewMeasurements([]Loading{loading}, DiagonalErrors([]float64{h})),
		names:          []string{""},
		layout:         newBlocks([]int{init.StateDim()}),
	}
}

// NewModel creates a model from its parts.
func NewModel(init Initialization, dyn Dynamics, m *Measurements) *MultivariateModel {
	return &MultivariateModel{
		initialization: init,
		dynamics:       dyn,
		measurements:   m,
		names:          []string{""},
		layout:         newBlocks([]int{init.StateDim()}),
	}
}

// Initialization returns the initial state distribution.
func (m *MultivariateModel) Initialization() Initialization { return m.initialization }

// Dynamics returns the state dynamics.
func (m *MultivariateModel) Dynamics() Dynamics { return m.dynamics }

// Measurements returns the measurement equations.
func (m *MultivariateModel) Measurements() *Measurements { return m.measurements }

// MeasurementsCount returns the number of equations.
func (m *MultivariateModel) MeasurementsCount() int { return m.measurements.Count() }

// Loading returns the loading of equation eq.
func (m *MultivariateModel) Loading(eq int) Loading { return m.measurements.Loading(eq) }

// Errors returns the measurement errors.
func (m *MultivariateModel) Errors() Errors { return m.measurements.Errors() }

// StateDim returns the dimension of the state vector.
func (m *MultivariateModel) StateDim() int { return m.initialization.StateDim() }

// ComponentsCount returns the number of registered components.
func (m *MultivariateModel) ComponentsCount() int { return len(m.names) }

// ComponentName returns the name of the i-th component.
func (m *MultivariateModel) ComponentName(i int) string { return m.names[i] }

// ComponentPosition returns the offset of the i-th component in the state.
func (m *MultivariateModel) ComponentPosition(i int) int { return m.layout.pos[i] }

// ComponentDim returns the state dimension of the i-th component.
func (m *MultivariateModel) ComponentDim(i int) int { return m.layout.dim[i] }
