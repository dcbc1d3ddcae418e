// Package transform converts tracks between the Cartesian phase-space
// description and helix parameters, and propagates their covariance to
// first order.
//
// The forward map takes (q, position, momentum) to
//
//	omega  = q·k/pt
//	phi0   = atan2(-px, py)
//	d0     = (x·py - y·px)/pt
//	dz     = z - (x·px + y·py)·pz/pt²
//	tanDip = pz/pt
//
// where k is the curvature scale of the [Field]. The position is moved along
// the transverse momentum direction to the point of closest approach, so
// for a position already at closest approach the map is the exact inverse
// of [helix.Parameters.Momentum] and [helix.Parameters.Vertex].
//
// Covariance goes through Cov' = J·Cov·Jᵗ with the closed-form Jacobian J
// of the map. The result is symmetric by construction. It is not forced to
// be positive semi-definite; near pt → 0 the linearisation can break that
// and callers should check with IsPositiveSemiDefinite.
//
// # Example
//
//	tr := transform.New(transform.Uniform{Tesla: 3.8})
//	par, cov := tr.FromCartesian(state, posMomErr)
//	back := tr.PosMomError(par, cov)
package transform
