package ssf

import "errors"

var (
	// ErrModelDefinition is returned when a composite model is inconsistent
	// (duplicate or unknown component names, missing components or equations).
	ErrModelDefinition = errors.New("ssf: invalid model definition")
	// ErrUnsupported is returned by operations a component does not provide.
	ErrUnsupported = errors.New("ssf: unsupported operation")
	// ErrInvalidParameter is returned by component factories.
	ErrInvalidParameter = errors.New("ssf: invalid parameter")
	// ErrDimension is returned when observations do not match the model.
	ErrDimension = errors.New("ssf: dimension mismatch")
)
