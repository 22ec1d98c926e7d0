package sts

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sartorproj/goseats/polynomial"
)

var (
	// ErrSpec is returned for invalid model specifications.
	ErrSpec = errors.New("sts: invalid model specification")
	// ErrRegressors is returned when the regression variables do not match
	// the series or the specification.
	ErrRegressors = errors.New("sts: invalid regression variables")
	// ErrModel is returned when the model has no stochastic component.
	ErrModel = errors.New("sts: degenerate model")
)

// Names of the components, in the order of the decomposition.
const (
	TrendName      = "trend"
	SeasonalName   = "seasonal"
	CycleName      = "cycle"
	IrregularName  = "irregular"
	RegressionName = "regression"
)

// Param is the variance of the disturbance of a component. Fixed variances
// are not estimated.
type Param struct {
	Variance float64 `yaml:"variance"`
	Fixed    bool    `yaml:"fixed,omitempty"`
}

// SeasonalSpec is a dummy seasonal component.
type SeasonalSpec struct {
	Param  `yaml:",inline"`
	Period int `yaml:"period"`
}

// CycleSpec is a stationary autoregressive component. The coefficients are
// phi_1, ..., phi_p in y(t) = phi_1 y(t-1) + ... + e(t); they are never
// estimated.
type CycleSpec struct {
	Param        `yaml:",inline"`
	Coefficients []float64 `yaml:"coefficients"`
}

// Spec describes a basic structural model
//
//	y(t) = trend(t) + seasonal(t) + cycle(t) + x(t)'b + irregular(t)
//
// where the trend is a local level (or a local linear trend when Slope is
// set). Absent components are nil.
type Spec struct {
	Level      *Param        `yaml:"level,omitempty"`
	Slope      *Param        `yaml:"slope,omitempty"`
	Seasonal   *SeasonalSpec `yaml:"seasonal,omitempty"`
	AR         *CycleSpec    `yaml:"ar,omitempty"`
	Noise      *Param        `yaml:"noise,omitempty"`
	Regression []string      `yaml:"regression,omitempty"`
}

// LoadSpec reads a YAML specification.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSpec(data)
}

// ParseSpec decodes and validates a YAML specification.
func ParseSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpec, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the specification as YAML.
func (s *Spec) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the specification.
func (s *Spec) Validate() error {
	if s.Level == nil && s.Seasonal == nil && s.AR == nil && s.Noise == nil {
		return fmt.Errorf("%w: no component", ErrSpec)
	}
	if s.Slope != nil && s.Level == nil {
		return fmt.Errorf("%w: slope without level", ErrSpec)
	}
	if s.Seasonal != nil && s.Seasonal.Period < 2 {
		return fmt.Errorf("%w: seasonal period %d", ErrSpec, s.Seasonal.Period)
	}
	for _, p := range s.params() {
		if p.Variance < 0 || math.IsNaN(p.Variance) || math.IsInf(p.Variance, 0) {
			return fmt.Errorf("%w: variance %g", ErrSpec, p.Variance)
		}
	}
	if s.AR != nil {
		if len(s.AR.Coefficients) == 0 {
			return fmt.Errorf("%w: autoregressive component without coefficients", ErrSpec)
		}
		roots, err := s.AR.polynomial().Roots()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSpec, err)
		}
		for _, r := range roots {
			if cmplx.Abs(r) <= 1+polynomial.UnitRootBand {
				return fmt.Errorf("%w: non stationary autoregressive coefficients %v", ErrSpec, s.AR.Coefficients)
			}
		}
	}
	return nil
}

// polynomial returns 1 - phi_1 B - ... - phi_p B^p.
func (c *CycleSpec) polynomial() polynomial.Polynomial {
	ar := make([]float64, len(c.Coefficients)+1)
	ar[0] = 1
	for i, v := range c.Coefficients {
		ar[i+1] = -v
	}
	return polynomial.Of(ar...)
}

// params returns the variances of the present components.
func (s *Spec) params() []*Param {
	var out []*Param
	if s.Level != nil {
		out = append(out, s.Level)
	}
	if s.Slope != nil {
		out = append(out, s.Slope)
	}
	if s.Seasonal != nil {
		out = append(out, &s.Seasonal.Param)
	}
	if s.AR != nil {
		out = append(out, &s.AR.Param)
	}
	if s.Noise != nil {
		out = append(out, s.Noise)
	}
	return out
}

// Clone returns a deep copy.
func (s *Spec) Clone() *Spec {
	c := &Spec{Regression: slices.Clone(s.Regression)}
	if s.Level != nil {
		p := *s.Level
		c.Level = &p
	}
	if s.Slope != nil {
		p := *s.Slope
		c.Slope = &p
	}
	if s.Seasonal != nil {
		p := *s.Seasonal
		c.Seasonal = &p
	}
	if s.AR != nil {
		p := *s.AR
		p.Coefficients = slices.Clone(s.AR.Coefficients)
		c.AR = &p
	}
	if s.Noise != nil {
		p := *s.Noise
		c.Noise = &p
	}
	return c
}
