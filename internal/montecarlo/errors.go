package montecarlo

import "errors"

var (
	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("montecarlo: run canceled by context")

	// ErrNotPositiveDefinite indicates the input error matrix cannot be
	// sampled from. Gaussian sampling needs a Cholesky factor, so a
	// semi-definite matrix with an exactly zero variance is rejected too.
	ErrNotPositiveDefinite = errors.New("montecarlo: error matrix is not positive definite")

	// ErrTooFewSamples indicates fewer samples than needed for a covariance estimate.
	ErrTooFewSamples = errors.New("montecarlo: too few samples")
)
