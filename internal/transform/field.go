package transform

// Field supplies the scale k that turns curvature into momentum:
// |omega| = |k|/pt.
type Field interface {
	CurvatureScale() float64
}

// UnitField has k = 1, so omega is simply q/pt.
type UnitField struct{}

func (UnitField) CurvatureScale() float64 { return 1 }

// CLight converts T·m to GeV/c.
const CLight = 0.299792458

// Uniform is a solenoid field along z. With momenta in GeV/c, omega comes
// out in 1/m.
type Uniform struct {
	Tesla float64
}

func (u Uniform) CurvatureScale() float64 { return CLight * u.Tesla }

// Scale is a fixed curvature scale.
type Scale float64

func (s Scale) CurvatureScale() float64 { return float64(s) }
