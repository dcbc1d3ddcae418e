package helix

import "errors"

var (
	// ErrDegenerate marks omega == 0: an infinite-radius track with no pt.
	ErrDegenerate = errors.New("helix: degenerate track (omega == 0)")

	// ErrNonFinite marks a parameter holding NaN or Inf.
	ErrNonFinite = errors.New("helix: non-finite parameter")

	// ErrInvalidCovariance marks a covariance whose uncertainties are not real,
	// usually a negative diagonal entry.
	ErrInvalidCovariance = errors.New("helix: invalid covariance")
)
