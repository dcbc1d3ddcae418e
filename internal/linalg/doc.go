// Package linalg provides fixed-size numeric containers keyed by closed
// index enumerations.
//
//   - [Vector]: N doubles addressed by an index type I
//   - [SymMatrix]: a symmetric N×N matrix stored packed as N(N+1)/2 doubles
//
// Both types are thin windows over a []float64. The New constructors own
// fresh zeroed storage; the Over constructors borrow a caller buffer and
// never copy it, so writes through the container are visible to the caller
// and vice versa. Use Clone for an independent copy.
//
// The dimension N comes from the index type, so a helix parameter key
// cannot address a Cartesian matrix:
//
//	cov := linalg.NewSymMatrix[helix.Param]()
//	cov.Set(helix.D0, helix.Phi0, 1e-4)
package linalg
