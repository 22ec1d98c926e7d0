package ucarima

import (
	"errors"
	"fmt"

	"github.com/sartorproj/goseats/arima"
)

var (
	// ErrComponent is returned for invalid component indexes or empty models.
	ErrComponent = errors.New("ucarima: invalid component")
	// ErrVariance is returned when an error variance cannot be computed.
	ErrVariance = errors.New("ucarima: error variance unavailable")
)

// Model is an aggregate ARIMA model with its decomposition into independent
// ARIMA components.
type Model struct {
	model      *arima.Model
	components []*arima.Model
}

// New creates a model from an aggregate and its components. The sum of the
// components is not checked against the aggregate.
func New(aggregate *arima.Model, components ...*arima.Model) (*Model, error) {
	if aggregate == nil || len(components) == 0 {
		return nil, fmt.Errorf("%w: model without components", ErrComponent)
	}
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("%w: component %d is nil", ErrComponent, i)
		}
	}
	return &Model{model: aggregate, components: append([]*arima.Model(nil), components...)}, nil
}

// FromComponents creates a model whose aggregate is the sum of the components.
func FromComponents(components ...*arima.Model) (*Model, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: model without components", ErrComponent)
	}
	sum, err := sum(components)
	if err != nil {
		return nil, err
	}
	return New(sum, components...)
}

func sum(models []*arima.Model) (*arima.Model, error) {
	s := arima.Null()
	for _, m := range models {
		if m == nil || m.IsNull() {
			continue
		}
		var err error
		if s, err = s.Plus(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Model returns the aggregate model.
func (u *Model) Model() *arima.Model { return u.model }

// ComponentsCount returns the number of components.
func (u *Model) ComponentsCount() int { return len(u.components) }

// Component returns the i-th component.
func (u *Model) Component(i int) *arima.Model { return u.components[i] }

// Components returns a copy of the component list.
func (u *Model) Components() []*arima.Model {
	return append([]*arima.Model(nil), u.components...)
}

// Compact returns a model where the count components starting at start are
// replaced by their sum.
func (u *Model) Compact(start, count int) (*Model, error) {
	if start < 0 || count < 1 || start+count > len(u.components) {
		return nil, fmt.Errorf("%w: cannot compact %d components from %d", ErrComponent, count, start)
	}
	if count == 1 {
		return New(u.model, u.components...)
	}
	merged, err := sum(u.components[start : start+count])
	if err != nil {
		return nil, err
	}
	cmps := make([]*arima.Model, 0, len(u.components)-count+1)
	cmps = append(cmps, u.components[:start]...)
	cmps = append(cmps, merged)
	cmps = append(cmps, u.components[start+count:]...)
	return New(u.model, cmps...)
}

// Complement returns the sum of all the components except the i-th.
func (u *Model) Complement(i int) (*arima.Model, error) {
	if i < 0 || i >= len(u.components) {
		return nil, fmt.Errorf("%w: index %d", ErrComponent, i)
	}
	others := make([]*arima.Model, 0, len(u.components)-1)
	others = append(others, u.components[:i]...)
	others = append(others, u.components[i+1:]...)
	return sum(others)
}
