package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/transform"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	DefaultSamples = 20000
	DefaultWorkers = 4

	checkEvery = 256
)

type Config struct {
	Samples int
	Workers int
	Seed    uint64
}

func DefaultConfig() Config {
	return Config{Samples: DefaultSamples, Workers: DefaultWorkers, Seed: 1}
}

// Result holds both covariance estimates and their comparison.
type Result struct {
	Nominal    helix.Parameters
	Linearized helix.Covariance
	Sampled    helix.Covariance
	Samples    int

	// SigmaRatio is sampled σ over linearised σ per parameter.
	SigmaRatio [helix.NumParams]float64
	// Bias is the sample mean minus the nominal value, in linearised σ.
	Bias [helix.NumParams]float64
	// MaxDeviation is the largest |SigmaRatio-1|, reached at Worst.
	MaxDeviation float64
	Worst        helix.Param
}

type Ensemble struct {
	tr  transform.Transform
	cfg Config
}

func NewEnsemble(tr transform.Transform, cfg Config) *Ensemble {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Ensemble{tr: tr, cfg: cfg}
}

func (e *Ensemble) Run(ctx context.Context, s cartesian.State, cerr cartesian.Error) (*Result, error) {
	n := e.cfg.Samples
	if n < helix.NumParams+1 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewSamples, n)
	}

	nominal, linear := e.tr.FromCartesian(s, cerr)
	mu := s.Vector().Raw()
	sigma := cerr.Matrix().SymDense()
	if _, ok := distmv.NewNormal(mu, sigma, nil); !ok {
		return nil, ErrNotPositiveDefinite
	}

	draws := mat.NewDense(n, helix.NumParams, nil)
	errs := make([]error, e.cfg.Workers)
	chunk := (n + e.cfg.Workers - 1) / e.cfg.Workers

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(idx, lo, hi int) {
			defer wg.Done()
			src := rand.NewPCG(e.cfg.Seed, uint64(idx))
			dist, _ := distmv.NewNormal(mu, sigma, src)
			errs[idx] = e.sample(ctx, dist, s.Charge, nominal, draws, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return summarize(nominal, linear, draws), nil
}

// sample fills rows [lo, hi) of draws with mapped helix parameters.
func (e *Ensemble) sample(ctx context.Context, dist *distmv.Normal, q int, nominal helix.Parameters, draws *mat.Dense, lo, hi int) error {
	x := make([]float64, cartesian.NumCoords)
	par := helix.NewParameters()
	for i := lo; i < hi; i++ {
		if (i-lo)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrCanceled, err)
			}
		}
		dist.Rand(x)
		st := cartesian.StateFromSlice(q, x)
		e.tr.Forward(st.Charge, st.Position, st.Momentum, par)
		par.SetPhi0(nominal.Phi0() + helix.DeltaPhi(par.Phi0(), nominal.Phi0()))
		draws.SetRow(i, par.Raw())
	}
	return nil
}

func summarize(nominal helix.Parameters, linear helix.Covariance, draws *mat.Dense) *Result {
	n, _ := draws.Dims()
	var sym mat.SymDense
	stat.CovarianceMatrix(&sym, draws, nil)

	sampled := helix.NewCovariance()
	sampled.Matrix().SetFromSym(&sym)

	res := &Result{
		Nominal:    nominal,
		Linearized: linear,
		Sampled:    sampled,
		Samples:    n,
	}
	col := make([]float64, n)
	for _, p := range helix.Params {
		lin := linear.Error(p)
		res.SigmaRatio[p] = sampled.Error(p) / lin
		mean := stat.Mean(mat.Col(col, int(p), draws), nil)
		res.Bias[p] = (mean - nominal.At(p)) / lin
		if dev := math.Abs(res.SigmaRatio[p] - 1); dev > res.MaxDeviation {
			res.MaxDeviation, res.Worst = dev, p
		}
	}
	return res
}
