package cartesian

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/helixtrack/internal/linalg"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrCharge     = errors.New("cartesian: charge must be +1 or -1")
	ErrZeroPt     = errors.New("cartesian: zero transverse momentum")
	ErrNonFinite  = errors.New("cartesian: non-finite state")
	ErrInvalidCov = errors.New("cartesian: invalid error matrix")
)

// State is a point in phase space with a unit charge.
type State struct {
	Charge   int
	Position r3.Vec
	Momentum r3.Vec
}

// Pt is the transverse momentum magnitude.
func (s State) Pt() float64 {
	return math.Hypot(s.Momentum.X, s.Momentum.Y)
}

// Vector flattens the state as (x, y, z, px, py, pz).
func (s State) Vector() linalg.Vector[Coord] {
	v := linalg.NewVector[Coord]()
	s.Fill(v)
	return v
}

// Fill writes the phase-space coordinates into v.
func (s State) Fill(v linalg.Vector[Coord]) {
	v.Set(X, s.Position.X)
	v.Set(Y, s.Position.Y)
	v.Set(Z, s.Position.Z)
	v.Set(Px, s.Momentum.X)
	v.Set(Py, s.Momentum.Y)
	v.Set(Pz, s.Momentum.Z)
}

// StateFromSlice rebuilds a state from (x, y, z, px, py, pz).
func StateFromSlice(charge int, x []float64) State {
	_ = x[Pz]
	return State{
		Charge:   charge,
		Position: r3.Vec{X: x[X], Y: x[Y], Z: x[Z]},
		Momentum: r3.Vec{X: x[Px], Y: x[Py], Z: x[Pz]},
	}
}

func (s State) Validate() error {
	if s.Charge != 1 && s.Charge != -1 {
		return fmt.Errorf("%w: got %d", ErrCharge, s.Charge)
	}
	for _, x := range []float64{s.Position.X, s.Position.Y, s.Position.Z, s.Momentum.X, s.Momentum.Y, s.Momentum.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ErrNonFinite
		}
	}
	if s.Pt() == 0 {
		return ErrZeroPt
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("q=%+d pos=(%.6g, %.6g, %.6g) mom=(%.6g, %.6g, %.6g)", s.Charge,
		s.Position.X, s.Position.Y, s.Position.Z, s.Momentum.X, s.Momentum.Y, s.Momentum.Z)
}
