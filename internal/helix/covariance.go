package helix

import (
	"fmt"
	"math"

	"github.com/san-kum/helixtrack/internal/linalg"
)

// Covariance is the symmetric 5×5 error matrix of the helix parameters,
// stored as fifteen packed doubles. Use NewCovariance or CovarianceOver;
// the zero value has no storage and panics on access.
type Covariance struct {
	m linalg.SymMatrix[Param]
}

// CovarianceLen is the packed storage size.
const CovarianceLen = NumParams * (NumParams + 1) / 2

func NewCovariance() Covariance {
	return Covariance{m: linalg.NewSymMatrix[Param]()}
}

// CovarianceOver borrows the first fifteen values of buf, laid out as the
// lower triangle row by row.
func CovarianceOver(buf []float64) Covariance {
	return Covariance{m: linalg.SymMatrixOver[Param](buf)}
}

func (c Covariance) At(i, j Param) float64           { return c.m.At(i, j) }
func (c Covariance) Set(i, j Param, x float64)       { c.m.Set(i, j, x) }
func (c Covariance) Ptr(i, j Param) *float64         { return c.m.Ptr(i, j) }
func (c Covariance) Matrix() linalg.SymMatrix[Param] { return c.m }
func (c Covariance) Raw() []float64                  { return c.m.Raw() }
func (c Covariance) Clone() Covariance               { return Covariance{m: c.m.Clone()} }
func (c Covariance) CopyFrom(src Covariance)         { c.m.CopyFrom(src.m) }

// Error returns sqrt(Cov(i,i)); NaN when the diagonal is negative.
func (c Covariance) Error(i Param) float64 {
	return math.Sqrt(c.m.Diag(i))
}

func (c Covariance) D0Error() float64     { return c.Error(D0) }
func (c Covariance) Phi0Error() float64   { return c.Error(Phi0) }
func (c Covariance) OmegaError() float64  { return c.Error(Omega) }
func (c Covariance) DzError() float64     { return c.Error(Dz) }
func (c Covariance) TanDipError() float64 { return c.Error(TanDip) }

// Correlation returns Cov(i,j)/(σi·σj).
func (c Covariance) Correlation(i, j Param) float64 {
	return c.At(i, j) / (c.Error(i) * c.Error(j))
}

func (c Covariance) Validate() error {
	if !c.m.IsValid() {
		return fmt.Errorf("%w: non-finite entry", ErrInvalidCovariance)
	}
	for _, i := range Params {
		if math.IsNaN(c.Error(i)) {
			return fmt.Errorf("%w: negative variance for %s (%g)", ErrInvalidCovariance, i, c.m.Diag(i))
		}
	}
	return nil
}

// IsPositiveSemiDefinite checks the eigenvalues with relative tolerance tol.
func (c Covariance) IsPositiveSemiDefinite(tol float64) bool {
	return c.m.IsPositiveSemiDefinite(tol)
}
