package cartesian

import (
	"fmt"
	"math"

	"github.com/san-kum/helixtrack/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// Error is the symmetric 6×6 position-momentum error matrix, stored as 21
// packed doubles. Use NewError, ErrorOver or DiagonalError; the zero value
// has no storage and panics on access.
type Error struct {
	m linalg.SymMatrix[Coord]
}

const ErrorLen = NumCoords * (NumCoords + 1) / 2

func NewError() Error {
	return Error{m: linalg.NewSymMatrix[Coord]()}
}

// ErrorOver borrows the first 21 values of buf (lower triangle, row by row).
func ErrorOver(buf []float64) Error {
	return Error{m: linalg.SymMatrixOver[Coord](buf)}
}

// DiagonalError builds an uncorrelated error matrix from standard deviations.
func DiagonalError(sigma [NumCoords]float64) Error {
	e := NewError()
	for i, s := range sigma {
		c := Coord(i)
		e.Set(c, c, s*s)
	}
	return e
}

func (e Error) At(i, j Coord) float64           { return e.m.At(i, j) }
func (e Error) Set(i, j Coord, x float64)       { e.m.Set(i, j, x) }
func (e Error) Ptr(i, j Coord) *float64         { return e.m.Ptr(i, j) }
func (e Error) Matrix() linalg.SymMatrix[Coord] { return e.m }
func (e Error) Raw() []float64                  { return e.m.Raw() }
func (e Error) Clone() Error                    { return Error{m: e.m.Clone()} }

// Sigma returns sqrt(E(i,i)).
func (e Error) Sigma(i Coord) float64 { return math.Sqrt(e.m.Diag(i)) }

// PositionBlock returns the 3×3 position covariance.
func (e Error) PositionBlock() *mat.SymDense { return e.block(X) }

// MomentumBlock returns the 3×3 momentum covariance.
func (e Error) MomentumBlock() *mat.SymDense { return e.block(Px) }

func (e Error) block(first Coord) *mat.SymDense {
	b := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			b.SetSym(i, j, e.At(first+Coord(i), first+Coord(j)))
		}
	}
	return b
}

func (e Error) Validate() error {
	if !e.m.IsValid() {
		return fmt.Errorf("%w: non-finite entry", ErrInvalidCov)
	}
	for _, c := range Coords {
		if e.m.Diag(c) < 0 {
			return fmt.Errorf("%w: negative variance for %s", ErrInvalidCov, c)
		}
	}
	return nil
}

func (e Error) IsPositiveSemiDefinite(tol float64) bool {
	return e.m.IsPositiveSemiDefinite(tol)
}
