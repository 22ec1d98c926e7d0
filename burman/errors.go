package burman

import "errors"

var (
	// ErrNoData is returned when no (or too short a) series was set.
	ErrNoData = errors.New("burman: no data")
	// ErrNoModel is returned when no UCARIMA model was set.
	ErrNoModel = errors.New("burman: no ucarima model")
	// ErrComponentIndex is returned for out of range components.
	ErrComponentIndex = errors.New("burman: component index out of range")
	// ErrMissingValues is returned when the series contains NaN.
	ErrMissingValues = errors.New("burman: series contains missing values")
	// ErrStdevUnavailable is returned, with zero-filled results, when the
	// error variances of a component cannot be computed.
	ErrStdevUnavailable = errors.New("burman: standard errors unavailable")
)
