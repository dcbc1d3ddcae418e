package transform

import (
	"math"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

// ForwardJacobian is ∂(helix parameters)/∂(x, y, z, px, py, pz).
type ForwardJacobian = linalg.Matrix[helix.Param, cartesian.Coord]

// InverseJacobian is ∂(x, y, z, px, py, pz)/∂(helix parameters).
type InverseJacobian = linalg.Matrix[cartesian.Coord, helix.Param]

func NewForwardJacobian() ForwardJacobian {
	return linalg.NewMatrix[helix.Param, cartesian.Coord]()
}

func NewInverseJacobian() InverseJacobian {
	return linalg.NewMatrix[cartesian.Coord, helix.Param]()
}

// Transform maps between the two representations in a given field. It
// holds no state besides the field and is safe for concurrent use.
type Transform struct {
	field Field
}

func New(f Field) Transform {
	if f == nil {
		f = UnitField{}
	}
	return Transform{field: f}
}

func (t Transform) Field() Field {
	if t.field == nil {
		return UnitField{}
	}
	return t.field
}

func (t Transform) scale() float64 { return t.Field().CurvatureScale() }

// kinematics caches the quantities shared by the map and its Jacobian.
type kinematics struct {
	x, y, z    float64
	px, py, pz float64
	pt2, pt    float64
	omega      float64
}

func newKinematics(k float64, q int, pos, mom r3.Vec) kinematics {
	pt2 := mom.X*mom.X + mom.Y*mom.Y
	pt := math.Sqrt(pt2)
	return kinematics{
		x: pos.X, y: pos.Y, z: pos.Z,
		px: mom.X, py: mom.Y, pz: mom.Z,
		pt2: pt2, pt: pt,
		omega: float64(q) * k / pt,
	}
}

func (k kinematics) forward(out helix.Parameters) {
	s := k.x*k.px + k.y*k.py
	out.SetD0((k.x*k.py - k.y*k.px) / k.pt)
	out.SetPhi0(helix.WrapPhi(math.Atan2(-k.px, k.py)))
	out.SetOmega(k.omega)
	out.SetDz(k.z - s*k.pz/k.pt2)
	out.SetTanDip(k.pz / k.pt)
}

func (k kinematics) jacobian(j ForwardJacobian) {
	clear(j.Raw())

	d0 := (k.x*k.py - k.y*k.px) / k.pt
	s := k.x*k.px + k.y*k.py
	tanDip := k.pz / k.pt
	pt4 := k.pt2 * k.pt2

	j.Set(helix.D0, cartesian.X, k.py/k.pt)
	j.Set(helix.D0, cartesian.Y, -k.px/k.pt)
	j.Set(helix.D0, cartesian.Px, -k.y/k.pt-d0*k.px/k.pt2)
	j.Set(helix.D0, cartesian.Py, k.x/k.pt-d0*k.py/k.pt2)

	j.Set(helix.Phi0, cartesian.Px, -k.py/k.pt2)
	j.Set(helix.Phi0, cartesian.Py, k.px/k.pt2)

	j.Set(helix.Omega, cartesian.Px, -k.omega*k.px/k.pt2)
	j.Set(helix.Omega, cartesian.Py, -k.omega*k.py/k.pt2)

	j.Set(helix.Dz, cartesian.X, -k.px*k.pz/k.pt2)
	j.Set(helix.Dz, cartesian.Y, -k.py*k.pz/k.pt2)
	j.Set(helix.Dz, cartesian.Z, 1)
	j.Set(helix.Dz, cartesian.Px, -k.pz*(k.x/k.pt2-2*s*k.px/pt4))
	j.Set(helix.Dz, cartesian.Py, -k.pz*(k.y/k.pt2-2*s*k.py/pt4))
	j.Set(helix.Dz, cartesian.Pz, -s/k.pt2)

	j.Set(helix.TanDip, cartesian.Px, -tanDip*k.px/k.pt2)
	j.Set(helix.TanDip, cartesian.Py, -tanDip*k.py/k.pt2)
	j.Set(helix.TanDip, cartesian.Pz, 1/k.pt)
}

// Forward writes the helix parameters of (q, pos, mom) into out.
func (t Transform) Forward(q int, pos, mom r3.Vec, out helix.Parameters) {
	newKinematics(t.scale(), q, pos, mom).forward(out)
}

// Jacobian writes the 5×6 Jacobian of the forward map at (q, pos, mom) into j.
func (t Transform) Jacobian(q int, pos, mom r3.Vec, j ForwardJacobian) {
	newKinematics(t.scale(), q, pos, mom).jacobian(j)
}

// SetFromCartesian converts a Cartesian state and its error matrix, writing
// into the caller's parameter and covariance storage. pt must be non-zero;
// a zero pt leaves Inf/NaN in the outputs.
func (t Transform) SetFromCartesian(q int, pos, mom r3.Vec, e cartesian.Error, par helix.Parameters, cov helix.Covariance) {
	var buf [helix.NumParams * cartesian.NumCoords]float64
	j := linalg.MatrixOver[helix.Param, cartesian.Coord](buf[:])

	k := newKinematics(t.scale(), q, pos, mom)
	k.forward(par)
	k.jacobian(j)
	Propagate(cov, j, e)
}

// FromCartesian is SetFromCartesian into freshly allocated storage.
func (t Transform) FromCartesian(s cartesian.State, e cartesian.Error) (helix.Parameters, helix.Covariance) {
	par, cov := helix.NewParameters(), helix.NewCovariance()
	t.SetFromCartesian(s.Charge, s.Position, s.Momentum, e, par, cov)
	return par, cov
}

// Propagate writes J·E·Jᵗ into dst.
func Propagate(dst helix.Covariance, j ForwardJacobian, e cartesian.Error) {
	linalg.Congruence(dst.Matrix(), j, e.Matrix())
}

// PropagateInverse writes J·C·Jᵗ into dst.
func PropagateInverse(dst cartesian.Error, j InverseJacobian, c helix.Covariance) {
	linalg.Congruence(dst.Matrix(), j, c.Matrix())
}
