// Package ssf implements linear Gaussian state-space forms.
//
// A model is made of three parts:
//   - Initialization: the distribution of the initial state, possibly diffuse
//   - Dynamics: the transition a(t+1) = T a(t) + S u(t)
//   - Loading: the observation y(t) = Z a(t) + e(t)
//
// Components (AR, Arma, LocalLevel, LocalLinearTrend, SeasonalDummy, Noise,
// Regression) implement these parts in place, without building the system
// matrices, and are combined with a CompositeBuilder:
//
//	level, _ := ssf.LocalLevel(0.1, math.NaN())
//	seas, _ := ssf.SeasonalDummy(12, 0.01)
//	model, err := ssf.NewCompositeBuilder().
//		Add("level", level).
//		Add("seasonal", seas).
//		AddEquation(ssf.Equation{
//			Items:            []ssf.Item{{"level", 1}, {"seasonal", 1}},
//			MeasurementError: 1,
//		}).
//		Build()
//
// The composite state vector is the concatenation of the component states in
// registration order.
//
// # Kalman filter
//
// Filter runs the Kalman filter on a (multivariate) model and returns the
// prediction errors, from which the diffuse log-likelihood is computed.
// Multivariate observations are processed one equation at a time, so the
// measurement errors must be independent.
package ssf
