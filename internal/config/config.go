package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/transform"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultJacobianTol  = 1e-6
	DefaultRoundTripTol = 1e-9
	DefaultPSDTol       = 1e-9
	DefaultSamples      = 20000
	DefaultWorkers      = 4
	DefaultSweepPoints  = 72
	DefaultSweepWidth   = 72
	DefaultSweepHeight  = 12
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Field      FieldConfig      `yaml:"field"`
	Track      TrackConfig      `yaml:"track"`
	Helix      HelixConfig      `yaml:"helix"`
	Tolerance  ToleranceConfig  `yaml:"tolerance"`
	MonteCarlo MonteCarloConfig `yaml:"montecarlo"`
	Sweep      SweepConfig      `yaml:"sweep"`
}

// FieldConfig selects the curvature scale. Tesla wins over Scale; with
// both zero omega is q/pt.
type FieldConfig struct {
	Tesla float64 `yaml:"tesla"`
	Scale float64 `yaml:"scale"`
}

// TrackConfig is a Cartesian track. Covariance, when set, holds the 21
// packed entries and replaces Sigma.
type TrackConfig struct {
	Charge     int        `yaml:"charge"`
	Position   [3]float64 `yaml:"position"`
	Momentum   [3]float64 `yaml:"momentum"`
	Sigma      [6]float64 `yaml:"sigma"`
	Covariance []float64  `yaml:"covariance,omitempty"`
}

// HelixConfig is a track in helix parameters, used by the inverse command.
type HelixConfig struct {
	Params     [5]float64 `yaml:"params"`
	Sigma      [5]float64 `yaml:"sigma"`
	Covariance []float64  `yaml:"covariance,omitempty"`
}

type ToleranceConfig struct {
	Jacobian  float64 `yaml:"jacobian"`
	RoundTrip float64 `yaml:"round_trip"`
	PSD       float64 `yaml:"psd"`
}

type MonteCarloConfig struct {
	Samples int    `yaml:"samples"`
	Workers int    `yaml:"workers"`
	Seed    uint64 `yaml:"seed"`
}

type SweepConfig struct {
	Points int `yaml:"points"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Track: TrackConfig{
			Charge:   1,
			Momentum: [3]float64{1, 0, 0.5},
			Sigma:    [6]float64{1e-3, 1e-3, 1e-3, 1e-2, 1e-2, 1e-2},
		},
		Helix: HelixConfig{
			Params: [5]float64{0, 0, 1, 0, 0.5},
			Sigma:  [5]float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3},
		},
		Tolerance: ToleranceConfig{
			Jacobian:  DefaultJacobianTol,
			RoundTrip: DefaultRoundTripTol,
			PSD:       DefaultPSDTol,
		},
		MonteCarlo: MonteCarloConfig{
			Samples: DefaultSamples,
			Workers: DefaultWorkers,
			Seed:    1,
		},
		Sweep: SweepConfig{
			Points: DefaultSweepPoints,
			Width:  DefaultSweepWidth,
			Height: DefaultSweepHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Track.Charge != 1 && c.Track.Charge != -1 {
		return fmt.Errorf("%w: track charge %d", ErrInvalid, c.Track.Charge)
	}
	if n := len(c.Track.Covariance); n != 0 && n != cartesian.ErrorLen {
		return fmt.Errorf("%w: track covariance has %d entries, want %d", ErrInvalid, n, cartesian.ErrorLen)
	}
	if n := len(c.Helix.Covariance); n != 0 && n != helix.CovarianceLen {
		return fmt.Errorf("%w: helix covariance has %d entries, want %d", ErrInvalid, n, helix.CovarianceLen)
	}
	if c.Tolerance.Jacobian <= 0 || c.Tolerance.RoundTrip <= 0 || c.Tolerance.PSD <= 0 {
		return fmt.Errorf("%w: tolerances must be positive", ErrInvalid)
	}
	if c.MonteCarlo.Samples <= helix.NumParams || c.MonteCarlo.Workers < 1 {
		return fmt.Errorf("%w: montecarlo needs samples > %d and workers >= 1", ErrInvalid, helix.NumParams)
	}
	if c.Sweep.Points < 2 {
		return fmt.Errorf("%w: sweep needs at least 2 points", ErrInvalid)
	}
	return nil
}

func (c *Config) GetField() transform.Field {
	switch {
	case c.Field.Tesla != 0:
		return transform.Uniform{Tesla: c.Field.Tesla}
	case c.Field.Scale != 0:
		return transform.Scale(c.Field.Scale)
	default:
		return transform.UnitField{}
	}
}

func (t TrackConfig) GetState() cartesian.State {
	return cartesian.State{
		Charge:   t.Charge,
		Position: r3.Vec{X: t.Position[0], Y: t.Position[1], Z: t.Position[2]},
		Momentum: r3.Vec{X: t.Momentum[0], Y: t.Momentum[1], Z: t.Momentum[2]},
	}
}

func (t TrackConfig) GetError() cartesian.Error {
	if len(t.Covariance) == cartesian.ErrorLen {
		e := cartesian.NewError()
		copy(e.Raw(), t.Covariance)
		return e
	}
	return cartesian.DiagonalError(t.Sigma)
}

func (h HelixConfig) GetParameters() helix.Parameters {
	p := helix.NewParameters()
	copy(p.Raw(), h.Params[:])
	return p
}

func (h HelixConfig) GetCovariance() helix.Covariance {
	c := helix.NewCovariance()
	if len(h.Covariance) == helix.CovarianceLen {
		copy(c.Raw(), h.Covariance)
		return c
	}
	for i, p := range helix.Params {
		c.Set(p, p, h.Sigma[i]*h.Sigma[i])
	}
	return c
}
