package experiment

import (
	"context"
	"fmt"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/sim"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

// Experiment wires one configuration into a ready-to-run simulator.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	grid      *grid.Grid
	backend   spectral.Backend
	model     dynamo.Model
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Setup validates the configuration, builds the grid, transform backend and
// model, and attaches the given metrics. A nil slice selects the model's
// default metrics.
func (e *Experiment) Setup(ms []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	g, err := grid.New(e.cfg.Grid().Spec())
	if err != nil {
		return err
	}

	backend, err := spectral.Select(e.cfg.Backend, g.N())
	if err != nil {
		return err
	}

	model, err := e.registry.GetModel(e.cfg, g, backend)
	if err != nil {
		return err
	}

	e.grid, e.backend, e.model = g, backend, model
	e.simulator = sim.New(model, backend)

	if ms == nil {
		ms = e.registry.DefaultMetrics(model)
	}
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	result, err := e.simulator.Run(ctx, dynamo.Config{
		Steps:         e.grid.Steps(),
		Dz:            e.grid.Dz,
		ValidateState: e.cfg.ValidateState,
	})
	if result != nil && result.StepsTaken > 0 {
		result.Metrics[SpectralBroadening] = e.broadening(result)
	}
	return result, err
}

// SpectralBroadening is the result metric holding the RMS spectral width of
// the first field at the last step over its input width.
const SpectralBroadening = "spectral_broadening"

func (e *Experiment) broadening(result *dynamo.Result) float64 {
	input := make([]float64, e.grid.N())
	spectral.NewAnalyzer(e.backend, e.grid.N()).Magnitude(input, e.model.InitialState().Fields[0])

	w0 := analysis.RMSWidth(input)
	if w0 == 0 {
		return 0
	}
	return analysis.RMSWidth(result.Spectrum[0].Row(result.StepsTaken-1)) / w0
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Grid() *grid.Grid          { return e.grid }
func (e *Experiment) Model() dynamo.Model       { return e.model }
func (e *Experiment) Backend() spectral.Backend { return e.backend }
