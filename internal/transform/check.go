package transform

import (
	"math"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JacobianCheck compares the closed-form Jacobian with central finite
// differences of the forward map.
type JacobianCheck struct {
	Analytic *mat.Dense
	Numeric  *mat.Dense
	// MaxDeviation is the largest |a-n|/max(|a|, |n|, floor) over all
	// entries, where floor is 1e-3 of the analytic infinity norm.
	MaxDeviation float64
	Row          helix.Param
	Col          cartesian.Coord
}

// CheckJacobian differentiates the forward map numerically around s. A
// non-positive step picks 1e-6 of the momentum scale.
func (t Transform) CheckJacobian(s cartesian.State, step float64) JacobianCheck {
	if step <= 0 {
		step = 1e-6 * math.Max(1, r3.Norm(s.Momentum))
	}

	nominal := helix.NewParameters()
	t.Forward(s.Charge, s.Position, s.Momentum, nominal)

	f := func(y, x []float64) {
		st := cartesian.StateFromSlice(s.Charge, x)
		out := helix.ParametersOver(y)
		t.Forward(st.Charge, st.Position, st.Momentum, out)
		// keep phi0 continuous across the ±π cut
		out.SetPhi0(nominal.Phi0() + helix.DeltaPhi(out.Phi0(), nominal.Phi0()))
	}

	num := mat.NewDense(helix.NumParams, cartesian.NumCoords, nil)
	fd.Jacobian(num, f, s.Vector().Raw(), &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    step,
	})

	j := NewForwardJacobian()
	t.Jacobian(s.Charge, s.Position, s.Momentum, j)

	res := JacobianCheck{Analytic: j.Dense(), Numeric: num}
	floor := 1e-3 * mat.Norm(res.Analytic, math.Inf(1))
	for _, p := range helix.Params {
		for _, c := range cartesian.Coords {
			a, n := j.At(p, c), num.At(int(p), int(c))
			den := math.Max(math.Max(math.Abs(a), math.Abs(n)), floor)
			if den == 0 {
				continue
			}
			if dev := math.Abs(a-n) / den; dev > res.MaxDeviation || math.IsNaN(dev) {
				res.MaxDeviation, res.Row, res.Col = dev, p, c
			}
		}
	}
	return res
}

// RoundTripDeviation maps par to Cartesian and back and returns the largest
// difference over the five parameters, relative to max(1, |value|). phi0
// differences are taken modulo 2π.
func (t Transform) RoundTripDeviation(par helix.Parameters) float64 {
	s := t.ToCartesian(par)
	back := helix.NewParameters()
	t.Forward(s.Charge, s.Position, s.Momentum, back)

	worst := 0.0
	for _, p := range helix.Params {
		a, b := par.At(p), back.At(p)
		d := b - a
		if p == helix.Phi0 {
			d = helix.DeltaPhi(b, a)
		}
		dev := math.Abs(d) / math.Max(1, math.Abs(a))
		if dev > worst || math.IsNaN(dev) {
			worst = dev
		}
	}
	return worst
}
