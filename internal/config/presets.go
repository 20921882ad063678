package config

import (
	"math"
	"sort"
)

func shgPreset(mut func(*SHGParams)) *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelSHG
	mut(&cfg.SHG)
	return cfg
}

func kerrPreset(mut func(*KerrParams)) *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelKerr
	mut(&cfg.Kerr)
	return cfg
}

var Presets = map[string]map[string]*Config{
	ModelSHG: {
		"default": shgPreset(func(p *SHGParams) {}),
		"mismatched": shgPreset(func(p *SHGParams) {
			p.DBeta0 = 1e6
		}),
		"opposite-dispersion": shgPreset(func(p *SHGParams) {
			p.Beta22 = -1
			p.Length = 1e-4
			p.ZPrecision = 5000
		}),
		"linear": shgPreset(func(p *SHGParams) {
			p.NLLength1 = math.Inf(1)
			p.NLLength2 = math.Inf(1)
			p.Length = 1
		}),
		"fast": shgPreset(func(p *SHGParams) {
			p.TPrecision = 256
			p.ZPrecision = 500
		}),
	},
	ModelKerr: {
		"default": kerrPreset(func(p *KerrParams) {}),
		"dispersionless": kerrPreset(func(p *KerrParams) {
			p.Beta2 = 0
			p.Length = 1e-4
			p.TPrecision = 256
			p.ZPrecision = 100
		}),
		"soliton": kerrPreset(func(p *KerrParams) {
			p.Beta2 = -1
			p.Gamma = 1
			p.Length = 5
			p.ZPrecision = 5000
		}),
		"spm": kerrPreset(func(p *KerrParams) {
			p.Beta2 = 0
			p.Gamma = 1
			p.Length = 10
			p.ZPrecision = 2000
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
