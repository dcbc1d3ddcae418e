package montecarlo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/transform"
	"gonum.org/v1/gonum/spatial/r3"
)

func testTrack() (cartesian.State, cartesian.Error) {
	s := cartesian.State{
		Charge:   1,
		Position: r3.Vec{X: 0.001, Y: -0.002, Z: 0.01},
		Momentum: r3.Vec{X: 2, Y: 1, Z: 0.8},
	}
	e := cartesian.DiagonalError([cartesian.NumCoords]float64{1e-4, 1e-4, 2e-4, 1e-3, 1e-3, 2e-3})
	e.Set(cartesian.Px, cartesian.Py, 2e-7)
	return s, e
}

func TestEnsembleAgreesWithLinearisation(t *testing.T) {
	s, e := testTrack()
	ens := NewEnsemble(transform.New(transform.Uniform{Tesla: 2}), Config{Samples: 20000, Workers: 4, Seed: 7})

	res, err := ens.Run(context.Background(), s, e)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Samples != 20000 {
		t.Errorf("expected 20000 samples, got %d", res.Samples)
	}
	if res.MaxDeviation > 0.05 {
		t.Errorf("sampled sigma deviates by %.3f on %s", res.MaxDeviation, res.Worst)
	}
	for _, p := range helix.Params {
		if math.Abs(res.Bias[p]) > 0.1 {
			t.Errorf("bias on %s is %.3f sigma", p, res.Bias[p])
		}
	}
}

func TestEnsembleReproducible(t *testing.T) {
	s, e := testTrack()
	cfg := Config{Samples: 2000, Workers: 3, Seed: 42}
	tr := transform.New(transform.UnitField{})

	a, err := NewEnsemble(tr, cfg).Run(context.Background(), s, e)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEnsemble(tr, cfg).Run(context.Background(), s, e)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range a.Sampled.Raw() {
		if b.Sampled.Raw()[i] != v {
			t.Fatalf("entry %d differs: %g vs %g", i, v, b.Sampled.Raw()[i])
		}
	}
}

func TestEnsembleCanceled(t *testing.T) {
	s, e := testTrack()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnsemble(transform.New(nil), DefaultConfig()).Run(ctx, s, e)
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestEnsembleRejectsBadInput(t *testing.T) {
	s, e := testTrack()
	e.Set(cartesian.Z, cartesian.Z, -1)
	_, err := NewEnsemble(transform.New(nil), DefaultConfig()).Run(context.Background(), s, e)
	if !errors.Is(err, ErrNotPositiveDefinite) {
		t.Errorf("expected ErrNotPositiveDefinite, got %v", err)
	}

	_, err = NewEnsemble(transform.New(nil), Config{Samples: 3}).Run(context.Background(), s, cartesian.DiagonalError([6]float64{1, 1, 1, 1, 1, 1}))
	if !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}
