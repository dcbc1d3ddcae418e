package transform_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/linalg"
	"github.com/san-kum/helixtrack/internal/transform"
)

var fields = map[string]transform.Field{
	"unit":    transform.UnitField{},
	"uniform": transform.Uniform{Tesla: 3.8},
	"reverse": transform.Uniform{Tesla: -2},
}

// helixGrid spans both charges, all quadrants of phi0 and both dip signs.
func helixGrid() []helix.Parameters {
	var out []helix.Parameters
	for _, d0 := range []float64{-0.02, 0, 0.35} {
		for _, phi0 := range []float64{-3.1, -math.Pi / 2, -0.4, 0, 1.2, 2.9, math.Pi} {
			for _, omega := range []float64{-2.5, -0.01, 0.3, 4} {
				for _, dz := range []float64{-12, 0, 0.7} {
					for _, tanDip := range []float64{-1.8, 0, 0.5} {
						out = append(out, helix.ParametersOf(d0, phi0, omega, dz, tanDip))
					}
				}
			}
		}
	}
	return out
}

func cartesianGrid() []cartesian.State {
	var out []cartesian.State
	for _, q := range []int{-1, 1} {
		for _, pos := range []r3.Vec{{}, {X: 0.01, Y: -0.02, Z: 0.3}, {X: -1.5, Y: 0.4, Z: -7}} {
			for _, mom := range []r3.Vec{{X: 1, Z: 0.5}, {X: -0.3, Y: 2, Z: -1}, {X: -4, Y: -0.001, Z: 10}, {X: 0.2, Y: -0.7, Z: 0}} {
				out = append(out, cartesian.State{Charge: q, Position: pos, Momentum: mom})
			}
		}
	}
	return out
}

func sampleError() cartesian.Error {
	e := cartesian.DiagonalError([cartesian.NumCoords]float64{1e-3, 2e-3, 5e-3, 0.01, 0.02, 0.03})
	e.Set(cartesian.X, cartesian.Y, 5e-7)
	e.Set(cartesian.Px, cartesian.Py, -4e-5)
	e.Set(cartesian.Z, cartesian.Pz, 2e-5)
	return e
}

var _ = Describe("forward map", func() {
	tr := transform.New(transform.UnitField{})

	It("reproduces the worked example", func() {
		s := cartesian.State{Charge: 1, Momentum: r3.Vec{X: 1, Z: 0.5}}
		par, _ := tr.FromCartesian(s, cartesian.NewError())

		Expect(par.TanDip()).To(BeNumerically("~", 0.5, 1e-15))
		Expect(par.Omega()).To(BeNumerically("~", 1, 1e-15))
		Expect(par.D0()).To(BeNumerically("~", 0, 1e-15))
		Expect(par.Dz()).To(BeNumerically("~", 0, 1e-15))
		Expect(par.Phi0()).To(BeNumerically("~", -math.Pi/2, 1e-15))

		mom := par.Momentum()
		Expect(mom.X).To(BeNumerically("~", 1, 1e-15))
		Expect(mom.Y).To(BeNumerically("~", 0, 1e-15))
		Expect(mom.Z).To(BeNumerically("~", 0.5, 1e-15))
	})

	It("keeps phi0 in (-π, π]", func() {
		par := helix.NewParameters()
		tr.Forward(1, r3.Vec{}, r3.Vec{X: math.Copysign(0, -1), Y: -1}, par)
		Expect(par.Phi0()).To(Equal(math.Pi))

		for _, s := range cartesianGrid() {
			tr.Forward(s.Charge, s.Position, s.Momentum, par)
			Expect(par.Phi0()).To(BeNumerically(">", -math.Pi))
			Expect(par.Phi0()).To(BeNumerically("<=", math.Pi))
		}
	})

	It("scales omega with the field", func() {
		f := transform.Uniform{Tesla: 2}
		par := helix.NewParameters()
		transform.New(f).Forward(-1, r3.Vec{}, r3.Vec{X: 3, Y: 4}, par)
		Expect(par.Omega()).To(BeNumerically("~", -transform.CLight*2/5, 1e-15))
	})

	It("moves the position to closest approach", func() {
		par := helix.NewParameters()
		// displaced along the momentum: same track, same helix
		tr.Forward(1, r3.Vec{X: 0.1, Y: 0.25, Z: 1.5}, r3.Vec{Y: 2, Z: 1}, par)
		Expect(par.D0()).To(BeNumerically("~", 0.1, 1e-15))
		Expect(par.Dz()).To(BeNumerically("~", 1.5-0.25*0.5, 1e-15))
	})

	It("writes into borrowed storage", func() {
		buf := make([]float64, helix.NumParams+helix.CovarianceLen)
		par := helix.ParametersOver(buf[:helix.NumParams])
		cov := helix.CovarianceOver(buf[helix.NumParams:])
		tr.SetFromCartesian(1, r3.Vec{}, r3.Vec{X: 1, Z: 0.5}, sampleError(), par, cov)

		Expect(buf[helix.Omega]).To(BeNumerically("~", 1, 1e-15))
		Expect(buf[helix.NumParams]).To(Equal(cov.At(helix.D0, helix.D0)))
		Expect(cov.D0Error()).To(BeNumerically(">", 0))
	})

	It("does not panic on zero pt", func() {
		par, cov := helix.NewParameters(), helix.NewCovariance()
		Expect(func() {
			tr.SetFromCartesian(1, r3.Vec{X: 1}, r3.Vec{Z: 3}, sampleError(), par, cov)
		}).NotTo(Panic())
		Expect(math.IsInf(par.Omega(), 1)).To(BeTrue())
		Expect(par.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("round trip", func() {
	for name, f := range fields {
		tr := transform.New(f)

		It("recovers helix parameters in a "+name+" field", func() {
			for _, par := range helixGrid() {
				Expect(tr.RoundTripDeviation(par)).To(BeNumerically("<", 1e-9), par.String())
			}
		})

		It("preserves charge and momentum in a "+name+" field", func() {
			for _, s := range cartesianGrid() {
				par, _ := tr.FromCartesian(s, cartesian.NewError())
				back := tr.ToCartesian(par)

				Expect(back.Charge).To(Equal(s.Charge))
				Expect(r3.Norm(r3.Sub(back.Momentum, s.Momentum))).To(
					BeNumerically("<", 1e-9*r3.Norm(s.Momentum)))
			}
		})
	}

	It("recovers the vertex of a state at closest approach", func() {
		tr := transform.New(transform.UnitField{})
		for _, par := range helixGrid() {
			s := tr.ToCartesian(par)
			back, _ := tr.FromCartesian(s, cartesian.NewError())
			again := tr.ToCartesian(back)
			Expect(r3.Norm(r3.Sub(again.Position, s.Position))).To(
				BeNumerically("<", 1e-9*math.Max(1, r3.Norm(s.Position))))
		}
	})

	for name, f := range fields {
		tr := transform.New(f)

		It("recovers the track charge in a "+name+" field", func() {
			for _, s := range cartesianGrid() {
				par, _ := tr.FromCartesian(s, cartesian.NewError())
				Expect(tr.Charge(par)).To(Equal(s.Charge), "%s", s)
				if f.CurvatureScale() > 0 {
					Expect(par.Charge()).To(Equal(s.Charge), "%s", s)
				} else {
					Expect(par.Charge()).To(Equal(-s.Charge), "%s", s)
				}
			}
		})
	}
})

var _ = Describe("Jacobian", func() {
	for name, f := range fields {
		tr := transform.New(f)

		It("agrees with central differences in a "+name+" field", func() {
			for _, s := range cartesianGrid() {
				chk := tr.CheckJacobian(s, 0)
				Expect(chk.MaxDeviation).To(BeNumerically("<", 1e-6),
					"%s: worst entry d%s/d%s", s, chk.Row, chk.Col)
			}
		})

		It("inverts the forward Jacobian at closest approach in a "+name+" field", func() {
			for _, par := range helixGrid() {
				s := tr.ToCartesian(par)
				fwd := transform.NewForwardJacobian()
				inv := transform.NewInverseJacobian()
				tr.Jacobian(s.Charge, s.Position, s.Momentum, fwd)
				tr.InverseJacobian(par, inv)

				var prod mat.Dense
				prod.Mul(fwd.Dense(), inv.Dense())
				Expect(mat.EqualApprox(&prod, eye(helix.NumParams), 1e-9)).To(BeTrue(), par.String())
			}
		})
	}

	It("has an inverse Jacobian matching central differences", func() {
		tr := transform.New(transform.Uniform{Tesla: 1.5})
		for _, par := range helixGrid() {
			f := func(y, x []float64) {
				s := tr.ToCartesian(helix.ParametersOver(x))
				s.Fill(linalg.VectorOver[cartesian.Coord](y))
			}
			num := mat.NewDense(cartesian.NumCoords, helix.NumParams, nil)
			fd.Jacobian(num, f, par.Clone().Raw(), &fd.JacobianSettings{Formula: fd.Central, Step: 1e-7})

			inv := transform.NewInverseJacobian()
			tr.InverseJacobian(par, inv)
			Expect(mat.EqualApprox(inv.Dense(), num, 1e-5*math.Max(1, mat.Norm(num, math.Inf(1))))).To(BeTrue(), par.String())
		}
	})
})

var _ = Describe("covariance propagation", func() {
	tr := transform.New(transform.Uniform{Tesla: 3.8})

	It("yields symmetric positive semi-definite matrices", func() {
		for _, s := range cartesianGrid() {
			_, cov := tr.FromCartesian(s, sampleError())
			for _, i := range helix.Params {
				for _, j := range helix.Params {
					Expect(cov.At(i, j)).To(Equal(cov.At(j, i)))
				}
			}
			Expect(cov.Validate()).To(Succeed())
			Expect(cov.IsPositiveSemiDefinite(1e-9)).To(BeTrue())
		}
	})

	It("matches the dense congruence J·C·Jᵗ", func() {
		s := cartesianGrid()[5]
		_, cov := tr.FromCartesian(s, sampleError())

		j := transform.NewForwardJacobian()
		tr.Jacobian(s.Charge, s.Position, s.Momentum, j)
		var tmp, want mat.Dense
		tmp.Mul(j.Dense(), sampleError().Matrix().SymDense())
		want.Mul(&tmp, j.Dense().T())

		Expect(mat.EqualApprox(cov.Matrix().SymDense(), &want, 1e-12)).To(BeTrue())
	})

	It("restores the helix covariance after a round trip", func() {
		cov := helix.NewCovariance()
		sigma := []float64{1e-3, 2e-3, 1e-3, 5e-3, 1e-3}
		for i, p := range helix.Params {
			cov.Set(p, p, sigma[i]*sigma[i])
		}
		cov.Set(helix.D0, helix.Phi0, 0.3*sigma[0]*sigma[1])
		cov.Set(helix.Dz, helix.TanDip, -0.5*sigma[3]*sigma[4])

		for _, par := range helixGrid() {
			pm := tr.PosMomError(par, cov)
			Expect(pm.Validate()).To(Succeed())

			_, back := tr.FromCartesian(tr.ToCartesian(par), pm)
			for _, i := range helix.Params {
				for _, j := range helix.Params {
					Expect(back.At(i, j)).To(BeNumerically("~", cov.At(i, j), 1e-9*math.Max(cov.At(i, i), cov.At(j, j))),
						"%s: Cov(%s,%s)", par, i, j)
				}
			}
		}
	})

	It("signals a broken input matrix with NaN", func() {
		e := sampleError()
		e.Set(cartesian.Px, cartesian.Px, -1)
		_, cov := tr.FromCartesian(cartesianGrid()[1], e)
		Expect(cov.Validate()).To(MatchError(helix.ErrInvalidCovariance))
	})

	It("is safe for concurrent use", func() {
		states := cartesianGrid()
		want := make([]helix.Covariance, len(states))
		for i, s := range states {
			_, want[i] = tr.FromCartesian(s, sampleError())
		}

		var wg sync.WaitGroup
		got := make([]helix.Covariance, len(states))
		for i, s := range states {
			wg.Add(1)
			go func(i int, s cartesian.State) {
				defer wg.Done()
				_, got[i] = tr.FromCartesian(s, sampleError())
			}(i, s)
		}
		wg.Wait()

		for i := range states {
			Expect(got[i].Raw()).To(Equal(want[i].Raw()))
		}
	})
})

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
