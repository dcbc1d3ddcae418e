package helix

import (
	"errors"
	"math"
	"testing"
)

func TestChargeFromOmega(t *testing.T) {
	tests := []struct {
		omega  float64
		charge int
	}{
		{0.5, 1},
		{-0.5, -1},
		{1e-12, 1},
		{0, -1},
		{math.Copysign(0, -1), -1},
	}
	for _, tt := range tests {
		p := ParametersOf(0, 0, tt.omega, 0, 0)
		if got := p.Charge(); got != tt.charge {
			t.Errorf("omega %g: expected charge %d, got %d", tt.omega, tt.charge, got)
		}
	}
}

func TestPt(t *testing.T) {
	p := ParametersOf(0, 0, -0.25, 0, 0)
	if p.Pt() != 4 {
		t.Errorf("expected pt 4, got %f", p.Pt())
	}
}

func TestDegenerateOmega(t *testing.T) {
	p := ParametersOf(0.1, 0.3, 0, 0, 1)
	if !math.IsInf(p.Pt(), 1) {
		t.Fatalf("expected +Inf pt, got %f", p.Pt())
	}
	mom := p.Momentum()
	if !math.IsInf(mom.Z, 1) {
		t.Errorf("expected infinite pz, got %f", mom.Z)
	}
	if !errors.Is(p.Validate(), ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", p.Validate())
	}
}

func TestMomentumAndVertex(t *testing.T) {
	phi := math.Pi / 3
	p := ParametersOf(0.02, phi, 0.5, -1.5, 0.75)

	mom := p.Momentum()
	wantMom := [3]float64{-2 * math.Sin(phi), 2 * math.Cos(phi), 1.5}
	for i, got := range [3]float64{mom.X, mom.Y, mom.Z} {
		if math.Abs(got-wantMom[i]) > 1e-12 {
			t.Errorf("momentum[%d]: expected %f, got %f", i, wantMom[i], got)
		}
	}

	v := p.Vertex()
	wantV := [3]float64{0.02 * math.Cos(phi), 0.02 * math.Sin(phi), -1.5}
	for i, got := range [3]float64{v.X, v.Y, v.Z} {
		if math.Abs(got-wantV[i]) > 1e-12 {
			t.Errorf("vertex[%d]: expected %f, got %f", i, wantV[i], got)
		}
	}

	// closest approach: momentum is perpendicular to the transverse vertex
	if dot := mom.X*v.X + mom.Y*v.Y; math.Abs(dot) > 1e-12 {
		t.Errorf("momentum not perpendicular to vertex, dot=%g", dot)
	}
}

func TestParametersOverAliases(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 99}
	p := ParametersOver(buf)
	if p.Omega() != 3 || p.TanDip() != 5 {
		t.Fatalf("unexpected view contents: %v", p)
	}
	p.SetDz(-4)
	if buf[3] != -4 {
		t.Errorf("write did not reach caller storage: %v", buf)
	}
	*p.Ptr(D0) += 1
	if buf[0] != 2 {
		t.Errorf("ptr write did not reach caller storage: %v", buf)
	}
	if buf[5] != 99 {
		t.Error("view touched storage past its end")
	}

	c := p.Clone()
	c.SetPhi0(0)
	if buf[1] != 2 {
		t.Error("clone shares storage")
	}
}

func TestValidateNonFinite(t *testing.T) {
	p := ParametersOf(math.NaN(), 0, 1, 0, 0)
	if !errors.Is(p.Validate(), ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", p.Validate())
	}
	if err := ParametersOf(0, 0, 1, 0, 0).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParamNames(t *testing.T) {
	for _, p := range Params {
		got, ok := ParseParam(p.String())
		if !ok || got != p {
			t.Errorf("ParseParam(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParseParam("kappa"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestWrapPhi(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := WrapPhi(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapPhi(%g) = %g, expected %g", tt.in, got, tt.want)
		}
	}
	if d := DeltaPhi(math.Pi-0.1, -math.Pi+0.1); math.Abs(d+0.2) > 1e-12 {
		t.Errorf("DeltaPhi across the cut = %g", d)
	}
}

func TestZeroValueHasNoStorage(t *testing.T) {
	for name, access := range map[string]func(){
		"parameters": func() { var p Parameters; _ = p.D0() },
		"covariance": func() { var c Covariance; _ = c.At(D0, D0) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic on the zero value")
				}
			}()
			access()
		})
	}
	if got := NewParameters().D0(); got != 0 {
		t.Errorf("NewParameters should be zeroed, got d0 %f", got)
	}
}
