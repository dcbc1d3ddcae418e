package transform

import (
	"math"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"gonum.org/v1/gonum/spatial/r3"
)

// pt is |k/omega|; with k = 1 it equals par.Pt().
func (t Transform) pt(par helix.Parameters) float64 {
	return math.Abs(t.scale() / par.Omega())
}

// Charge is the sign of omega/k; omega == 0 gives -1 as in helix.Parameters.
func (t Transform) Charge(par helix.Parameters) int {
	if par.Omega()/t.scale() > 0 {
		return +1
	}
	return -1
}

// Momentum is par.Momentum() scaled by the field.
func (t Transform) Momentum(par helix.Parameters) r3.Vec {
	pt := t.pt(par)
	sin, cos := math.Sincos(par.Phi0())
	return r3.Vec{X: -pt * sin, Y: pt * cos, Z: pt * par.TanDip()}
}

// ToCartesian places the track at its point of closest approach.
func (t Transform) ToCartesian(par helix.Parameters) cartesian.State {
	return cartesian.State{
		Charge:   t.Charge(par),
		Position: par.Vertex(),
		Momentum: t.Momentum(par),
	}
}

// InverseJacobian writes ∂(x, y, z, px, py, pz)/∂(d0, phi0, omega, dz, tanDip) into j.
func (t Transform) InverseJacobian(par helix.Parameters, j InverseJacobian) {
	clear(j.Raw())

	pt := t.pt(par)
	d0, omega, tanDip := par.D0(), par.Omega(), par.TanDip()
	sin, cos := math.Sincos(par.Phi0())

	j.Set(cartesian.X, helix.D0, cos)
	j.Set(cartesian.X, helix.Phi0, -d0*sin)
	j.Set(cartesian.Y, helix.D0, sin)
	j.Set(cartesian.Y, helix.Phi0, d0*cos)
	j.Set(cartesian.Z, helix.Dz, 1)

	j.Set(cartesian.Px, helix.Phi0, -pt*cos)
	j.Set(cartesian.Px, helix.Omega, pt*sin/omega)
	j.Set(cartesian.Py, helix.Phi0, -pt*sin)
	j.Set(cartesian.Py, helix.Omega, -pt*cos/omega)
	j.Set(cartesian.Pz, helix.Omega, -pt*tanDip/omega)
	j.Set(cartesian.Pz, helix.TanDip, pt)
}

// PosMomError propagates the helix covariance back to a new 6×6
// position-momentum error matrix at the point of closest approach.
func (t Transform) PosMomError(par helix.Parameters, cov helix.Covariance) cartesian.Error {
	j := NewInverseJacobian()
	t.InverseJacobian(par, j)
	out := cartesian.NewError()
	PropagateInverse(out, j, cov)
	return out
}
