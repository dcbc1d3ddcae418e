package config

import (
	"sort"
)

// Presets are reference tracks. Momenta in GeV/c, lengths in m.
var Presets = map[string]*Config{
	"example": {
		Track: TrackConfig{
			Charge:   1,
			Momentum: [3]float64{1, 0, 0.5},
			Sigma:    [6]float64{1e-3, 1e-3, 1e-3, 1e-2, 1e-2, 1e-2},
		},
	},
	"barrel_pion": {
		Field: FieldConfig{Tesla: 3.8},
		Track: TrackConfig{
			Charge:   1,
			Position: [3]float64{1e-5, -2e-5, 0.012},
			Momentum: [3]float64{3.1, 4.4, 0.9},
			Sigma:    [6]float64{2e-5, 2e-5, 5e-5, 0.02, 0.03, 0.01},
		},
	},
	"forward_muon": {
		Field: FieldConfig{Tesla: 3.8},
		Track: TrackConfig{
			Charge:   -1,
			Position: [3]float64{-3e-5, 1e-5, -0.04},
			Momentum: [3]float64{-8, 11, 62},
			Sigma:    [6]float64{3e-5, 3e-5, 1e-4, 0.15, 0.2, 0.9},
		},
	},
	"soft_electron": {
		Field: FieldConfig{Tesla: 2},
		Track: TrackConfig{
			Charge:   -1,
			Position: [3]float64{2e-4, 1e-4, 0.003},
			Momentum: [3]float64{0.12, -0.09, 0.05},
			Sigma:    [6]float64{1e-4, 1e-4, 3e-4, 0.01, 0.01, 0.008},
		},
	},
	"displaced_kaon": {
		Field: FieldConfig{Tesla: 3.8},
		Track: TrackConfig{
			Charge:   1,
			Position: [3]float64{0.021, 0.034, 0.15},
			Momentum: [3]float64{-1.3, 0.7, -0.4},
			Sigma:    [6]float64{4e-4, 4e-4, 1e-3, 0.015, 0.012, 0.01},
		},
	},
}

// GetPreset returns a copy of the named preset layered over the defaults,
// or nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Field = p.Field
	cfg.Track = p.Track
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
