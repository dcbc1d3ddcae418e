// Package montecarlo checks linearised covariance propagation against
// sampling.
//
// An [Ensemble] draws Cartesian states from a Gaussian centred on a track
// with its position-momentum error matrix, maps every draw through the
// exact forward transform and compares the sample covariance of the helix
// parameters with J·C·Jᵗ. Large deviations point at a regime where the
// linear approximation fails, typically low pt.
//
// Work is split across goroutines; each worker owns a PCG generator seeded
// with Seed and using its worker index as the stream, so a run is
// reproducible for a fixed worker count.
package montecarlo
