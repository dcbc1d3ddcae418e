package helix

import (
	"fmt"
	"math"

	"github.com/san-kum/helixtrack/internal/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Parameters is the helix parameter vector (d0, phi0, omega, dz, tanDip).
// The zero value has no storage; obtain one from NewParameters,
// ParametersOver or ParametersOf.
type Parameters struct {
	v linalg.Vector[Param]
}

// NewParameters returns zeroed parameters with their own storage.
func NewParameters() Parameters {
	return Parameters{v: linalg.NewVector[Param]()}
}

// ParametersOver borrows the first five values of buf. Writes go straight
// to buf; the caller keeps ownership.
func ParametersOver(buf []float64) Parameters {
	return Parameters{v: linalg.VectorOver[Param](buf)}
}

func ParametersOf(d0, phi0, omega, dz, tanDip float64) Parameters {
	p := NewParameters()
	p.SetD0(d0)
	p.SetPhi0(phi0)
	p.SetOmega(omega)
	p.SetDz(dz)
	p.SetTanDip(tanDip)
	return p
}

func (p Parameters) At(i Param) float64           { return p.v.At(i) }
func (p Parameters) Set(i Param, x float64)       { p.v.Set(i, x) }
func (p Parameters) Ptr(i Param) *float64         { return p.v.Ptr(i) }
func (p Parameters) Vector() linalg.Vector[Param] { return p.v }
func (p Parameters) Raw() []float64               { return p.v.Raw() }

func (p Parameters) Clone() Parameters { return Parameters{v: p.v.Clone()} }

// CopyFrom overwrites p with the values of src.
func (p Parameters) CopyFrom(src Parameters) { p.v.CopyFrom(src.v) }

func (p Parameters) D0() float64     { return p.v.At(D0) }
func (p Parameters) Phi0() float64   { return p.v.At(Phi0) }
func (p Parameters) Omega() float64  { return p.v.At(Omega) }
func (p Parameters) Dz() float64     { return p.v.At(Dz) }
func (p Parameters) TanDip() float64 { return p.v.At(TanDip) }

func (p Parameters) SetD0(x float64)     { p.v.Set(D0, x) }
func (p Parameters) SetPhi0(x float64)   { p.v.Set(Phi0, x) }
func (p Parameters) SetOmega(x float64)  { p.v.Set(Omega, x) }
func (p Parameters) SetDz(x float64)     { p.v.Set(Dz, x) }
func (p Parameters) SetTanDip(x float64) { p.v.Set(TanDip, x) }

// Charge returns +1 for positive omega and -1 otherwise. omega == 0 maps to
// -1; that is a fixed convention, the track has no physical charge sign.
// The sign of omega is the charge only for a positive field scale k; in a
// reversed field use transform.Transform.Charge.
func (p Parameters) Charge() int {
	if p.Omega() > 0 {
		return +1
	}
	return -1
}

// Pt returns 1/|omega|, +Inf for omega == 0.
func (p Parameters) Pt() float64 {
	return 1 / math.Abs(p.Omega())
}

// Momentum is the tangent to the helix at closest approach.
func (p Parameters) Momentum() r3.Vec {
	pt := p.Pt()
	sin, cos := math.Sincos(p.Phi0())
	return r3.Vec{X: -pt * sin, Y: pt * cos, Z: pt * p.TanDip()}
}

// Vertex is the point of closest approach to the z axis.
func (p Parameters) Vertex() r3.Vec {
	d0 := p.D0()
	sin, cos := math.Sincos(p.Phi0())
	return r3.Vec{X: d0 * cos, Y: d0 * sin, Z: p.Dz()}
}

// Validate reports non-finite values and the omega == 0 degeneracy.
func (p Parameters) Validate() error {
	for _, i := range Params {
		if x := p.At(i); math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s = %v", ErrNonFinite, i, x)
		}
	}
	if p.Omega() == 0 {
		return ErrDegenerate
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf("d0=%.6g phi0=%.6g omega=%.6g dz=%.6g tanDip=%.6g",
		p.D0(), p.Phi0(), p.Omega(), p.Dz(), p.TanDip())
}
