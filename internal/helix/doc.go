// Package helix describes the trajectory of a charged particle in a uniform
// magnetic field by five parameters measured at the point of closest
// approach to the reference (z) axis:
//
//   - d0: signed transverse impact parameter
//   - phi0: azimuth of the momentum at closest approach, in (-π, π]
//   - omega: signed curvature; its sign is the charge, 1/|omega| the pt
//   - dz: longitudinal impact parameter
//   - tanDip: pz/pt
//
// [Parameters] and [Covariance] are windows over five and fifteen doubles.
// They either own their storage (NewParameters, NewCovariance) or borrow a
// caller buffer (ParametersOver, CovarianceOver).
//
// # Degenerate values
//
// Nothing here panics on bad numbers. omega == 0 gives an infinite Pt and
// non-finite Momentum; a covariance with a negative diagonal gives NaN
// uncertainties. Use Validate to turn those into errors.
package helix
