package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
)

// Parameters renders the helix parameters, their uncertainties and the
// derived kinematics.
func Parameters(par helix.Parameters, cov helix.Covariance) string {
	var b strings.Builder
	b.WriteString(render(Title, "helix parameters") + "\n")
	for _, p := range helix.Params {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			render(Label, fmt.Sprintf("%-7s", p)),
			render(Value, fmt.Sprintf("%14.6e", par.At(p))),
			render(Subtle, "±"),
			formatSigma(cov.Error(p)))
	}
	mom, vtx := par.Momentum(), par.Vertex()
	fmt.Fprintf(&b, "%s %+d   %s %.6g\n", render(Label, "charge "), par.Charge(), render(Label, "pt"), par.Pt())
	fmt.Fprintf(&b, "%s (%.6g, %.6g, %.6g)\n", render(Label, "p      "), mom.X, mom.Y, mom.Z)
	fmt.Fprintf(&b, "%s (%.6g, %.6g, %.6g)", render(Label, "vertex "), vtx.X, vtx.Y, vtx.Z)
	return panel(b.String())
}

// State renders a Cartesian state with the square roots of the error diagonal.
func State(s cartesian.State, e cartesian.Error) string {
	var b strings.Builder
	b.WriteString(render(Title, "cartesian state") + "\n")
	vals := s.Vector()
	for _, c := range cartesian.Coords {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			render(Label, fmt.Sprintf("%-3s", c)),
			render(Value, fmt.Sprintf("%14.6e", vals.At(c))),
			render(Subtle, "±"),
			formatSigma(e.Sigma(c)))
	}
	fmt.Fprintf(&b, "%s %+d   %s %.6g", render(Label, "charge"), s.Charge, render(Label, "pt"), s.Pt())
	return panel(b.String())
}

// HelixCovariance renders the full 5×5 matrix.
func HelixCovariance(cov helix.Covariance) string {
	names := make([]string, helix.NumParams)
	for i, p := range helix.Params {
		names[i] = p.String()
	}
	return matrix("helix covariance", names, func(i, j int) float64 {
		return cov.At(helix.Param(i), helix.Param(j))
	})
}

// CartesianError renders the full 6×6 matrix.
func CartesianError(e cartesian.Error) string {
	names := make([]string, cartesian.NumCoords)
	for i, c := range cartesian.Coords {
		names[i] = c.String()
	}
	return matrix("position-momentum error", names, func(i, j int) float64 {
		return e.At(cartesian.Coord(i), cartesian.Coord(j))
	})
}

func matrix(title string, names []string, at func(i, j int) float64) string {
	var b strings.Builder
	b.WriteString(render(Title, title) + "\n")
	b.WriteString(strings.Repeat(" ", 7))
	for _, n := range names {
		b.WriteString(render(Label, fmt.Sprintf("%12s", n)))
	}
	for i, n := range names {
		b.WriteString("\n" + render(Label, fmt.Sprintf("%-7s", n)))
		for j := range names {
			b.WriteString(fmt.Sprintf("%12.3e", at(i, j)))
		}
	}
	return panel(b.String())
}

func formatSigma(s float64) string {
	if math.IsNaN(s) {
		return render(Bad, "NaN (invalid covariance)")
	}
	return fmt.Sprintf("%.3e", s)
}
