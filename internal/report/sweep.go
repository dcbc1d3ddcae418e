package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/transform"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

type Axis string

const (
	// AxisPhi rotates the track about z; the error matrix stays fixed in the lab frame.
	AxisPhi Axis = "phi"
	// AxisPt rescales the transverse momentum at fixed tanDip, log-spaced.
	AxisPt Axis = "pt"
)

var ErrSweep = errors.New("report: invalid sweep")

type SweepSpec struct {
	Axis   Axis
	Param  helix.Param
	Points int
	// Min and Max bound the pt axis; the phi axis always covers (-π, π].
	Min, Max float64
}

type SweepResult struct {
	Spec  SweepSpec
	X     []float64
	Sigma []float64
}

// Sweep propagates e for a family of tracks derived from s and records the
// uncertainty of spec.Param for each.
func Sweep(tr transform.Transform, s cartesian.State, e cartesian.Error, spec SweepSpec) (SweepResult, error) {
	if spec.Points < 2 {
		return SweepResult{}, fmt.Errorf("%w: %d points", ErrSweep, spec.Points)
	}

	xs := make([]float64, spec.Points)
	switch spec.Axis {
	case AxisPhi:
		step := 2 * math.Pi / float64(spec.Points)
		for i := range xs {
			xs[i] = -math.Pi + step*float64(i+1)
		}
	case AxisPt:
		if spec.Min <= 0 || spec.Max <= spec.Min {
			return SweepResult{}, fmt.Errorf("%w: pt range [%g, %g]", ErrSweep, spec.Min, spec.Max)
		}
		floats.LogSpan(xs, spec.Min, spec.Max)
	default:
		return SweepResult{}, fmt.Errorf("%w: unknown axis %q", ErrSweep, spec.Axis)
	}

	phi0 := math.Atan2(s.Momentum.Y, s.Momentum.X)
	pt := s.Pt()
	res := SweepResult{Spec: spec, X: xs, Sigma: make([]float64, spec.Points)}
	par, cov := helix.NewParameters(), helix.NewCovariance()
	for i, x := range xs {
		st := s
		switch spec.Axis {
		case AxisPhi:
			st.Position = rotateZ(s.Position, x-phi0)
			st.Momentum = rotateZ(s.Momentum, x-phi0)
		case AxisPt:
			st.Momentum = r3.Scale(x/pt, s.Momentum)
		}
		tr.SetFromCartesian(st.Charge, st.Position, st.Momentum, e, par, cov)
		res.Sigma[i] = cov.Error(spec.Param)
	}
	return res, nil
}

func rotateZ(v r3.Vec, angle float64) r3.Vec {
	sin, cos := math.Sincos(angle)
	return r3.Vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos, Z: v.Z}
}

// Plot draws the sweep as an ASCII chart.
func (r SweepResult) Plot(width, height int) string {
	caption := fmt.Sprintf("sigma(%s) vs %s [%.3g, %.3g]", r.Spec.Param, r.Spec.Axis, r.X[0], r.X[len(r.X)-1])
	return asciigraph.Plot(r.Sigma,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
