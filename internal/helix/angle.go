package helix

import "math"

// WrapPhi maps an angle into (-π, π].
func WrapPhi(phi float64) float64 {
	if phi > -math.Pi && phi <= math.Pi {
		return phi
	}
	phi = math.Remainder(phi, 2*math.Pi)
	if phi <= -math.Pi {
		phi += 2 * math.Pi
	}
	return phi
}

// DeltaPhi returns a-b wrapped into (-π, π].
func DeltaPhi(a, b float64) float64 {
	return WrapPhi(a - b)
}
