package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/physics"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLength     = 2e-5
	DefaultTMax       = 15.0
	DefaultTPrecision = 1024
	DefaultZPrecision = 2000
	DefaultNLLength   = 5e-6
	DefaultStride     = 10

	ModelSHG  = "shg"
	ModelKerr = "kerr"
)

type Config struct {
	Model         string       `yaml:"model"`
	Backend       string       `yaml:"backend"`
	ValidateState bool         `yaml:"validate_state"`
	SHG           SHGParams    `yaml:"shg"`
	Kerr          KerrParams   `yaml:"kerr"`
	Output        OutputConfig `yaml:"output"`
}

// GridParams are shared by both models. Length is in units of the
// dispersion length.
type GridParams struct {
	Length     float64 `yaml:"length"`
	TMax       float64 `yaml:"t_max"`
	TPrecision int     `yaml:"t_precision"`
	ZPrecision int     `yaml:"z_precision"`
}

type SHGParams struct {
	Beta21     float64 `yaml:"beta21"`
	Beta22     float64 `yaml:"beta22"`
	DBeta0     float64 `yaml:"dbeta0"`
	NLLength1  float64 `yaml:"nl_length1"`
	NLLength2  float64 `yaml:"nl_length2"`
	GridParams `yaml:",inline"`
}

type KerrParams struct {
	Beta2      float64 `yaml:"beta2"`
	Gamma      float64 `yaml:"gamma"`
	GridParams `yaml:",inline"`
}

type OutputConfig struct {
	// Stride keeps every Stride-th step when a run is written to disk.
	Stride int  `yaml:"stride"`
	Save   bool `yaml:"save"`
}

func DefaultGrid() GridParams {
	return GridParams{
		Length:     DefaultLength,
		TMax:       DefaultTMax,
		TPrecision: DefaultTPrecision,
		ZPrecision: DefaultZPrecision,
	}
}

func DefaultSHG() SHGParams {
	return SHGParams{
		Beta21:     1,
		Beta22:     1,
		DBeta0:     0,
		NLLength1:  DefaultNLLength,
		NLLength2:  DefaultNLLength,
		GridParams: DefaultGrid(),
	}
}

func DefaultKerr() KerrParams {
	return KerrParams{
		Beta2:      1,
		Gamma:      1,
		GridParams: DefaultGrid(),
	}
}

func DefaultConfig() *Config {
	return &Config{
		Model:   ModelSHG,
		Backend: spectral.DefaultBackend,
		SHG:     DefaultSHG(),
		Kerr:    DefaultKerr(),
		Output:  OutputConfig{Stride: DefaultStride, Save: true},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay decodes the YAML file at path onto cfg. Keys absent from the
// file keep the values already in cfg.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (g GridParams) Spec() grid.Spec {
	return grid.Spec{
		TMax:       g.TMax,
		TPrecision: g.TPrecision,
		Length:     g.Length,
		ZPrecision: g.ZPrecision,
	}
}

func (p SHGParams) Physics() physics.SHGParams {
	return physics.SHGParams{
		Beta21:    p.Beta21,
		Beta22:    p.Beta22,
		DBeta0:    p.DBeta0,
		NLLength1: p.NLLength1,
		NLLength2: p.NLLength2,
	}
}

func (p KerrParams) Physics() physics.KerrParams {
	return physics.KerrParams{Beta2: p.Beta2, Gamma: p.Gamma}
}

// Grid returns the grid parameters of the selected model.
func (c *Config) Grid() GridParams {
	if c.Model == ModelKerr {
		return c.Kerr.GridParams
	}
	return c.SHG.GridParams
}

// Validate reports every structural problem with the configuration.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model {
	case ModelSHG:
		errs = append(errs, c.SHG.Spec().Validate(), c.SHG.Physics().Validate())
	case ModelKerr:
		errs = append(errs, c.Kerr.Spec().Validate())
	default:
		errs = append(errs, fmt.Errorf("%w: unknown model %q", dynamo.ErrParameterBounds, c.Model))
	}

	if c.Backend != "" {
		if _, err := spectral.Select(c.Backend, 2); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Output.Stride < 0 {
		errs = append(errs, fmt.Errorf("%w: output stride must be >= 0, got %d", dynamo.ErrParameterBounds, c.Output.Stride))
	}

	return errors.Join(errs...)
}

// Params flattens the selected model's parameters for display and storage.
func (c *Config) Params() map[string]float64 {
	g := c.Grid()
	m := map[string]float64{
		"length":     g.Length,
		"tMax":       g.TMax,
		"tPrecision": float64(g.TPrecision),
		"zPrecision": float64(g.ZPrecision),
	}
	switch c.Model {
	case ModelKerr:
		m["beta2"] = c.Kerr.Beta2
		m["gamma"] = c.Kerr.Gamma
	default:
		m["beta21"] = c.SHG.Beta21
		m["beta22"] = c.SHG.Beta22
		m["dbeta0"] = c.SHG.DBeta0
		m["nlLength1"] = c.SHG.NLLength1
		m["nlLength2"] = c.SHG.NLLength2
	}
	return m
}
