// Package cartesian holds the (position, momentum, charge) description of a
// track and its 6×6 position-momentum error matrix.
package cartesian

// Coord indexes the Cartesian phase-space coordinates.
type Coord uint8

const (
	X Coord = iota
	Y
	Z
	Px
	Py
	Pz
)

const NumCoords = 6

var Coords = [NumCoords]Coord{X, Y, Z, Px, Py, Pz}

var coordNames = [NumCoords]string{"x", "y", "z", "px", "py", "pz"}

func (Coord) Dim() int { return NumCoords }

func (c Coord) String() string {
	if int(c) < NumCoords {
		return coordNames[c]
	}
	return "invalid"
}
