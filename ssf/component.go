package ssf

// StateComponent pairs an initialization with its dynamics.
type StateComponent struct {
	initialization Initialization
	dynamics       Dynamics
}

// NewStateComponent panics when either part is nil.
func NewStateComponent(init Initialization, dyn Dynamics) StateComponent {
	if init == nil || dyn == nil {
		panic("ssf: state component needs an initialization and dynamics")
	}
	return StateComponent{initialization: init, dynamics: dyn}
}

// Initialization returns the initial state distribution.
func (c StateComponent) Initialization() Initialization { return c.initialization }

// Dynamics returns the state dynamics.
func (c StateComponent) Dynamics() Dynamics { return c.dynamics }

// Dim returns the state dimension.
func (c StateComponent) Dim() int {
	return c.initialization.StateDim()
}

// Component is a state component with its default loading.
type Component struct {
	StateComponent
	loading Loading
}

// NewComponent panics when the loading is nil.
func NewComponent(init Initialization, dyn Dynamics, loading Loading) Component {
	if loading == nil {
		panic("ssf: component needs a loading")
	}
	return Component{StateComponent: NewStateComponent(init, dyn), loading: loading}
}

// Loading returns the default loading of the component.
func (c Component) Loading() Loading { return c.loading }
