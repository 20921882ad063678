package sim

import (
	"context"
	"fmt"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

// Simulator drives the split-step loop: each step applies the model's
// linear propagator, then its nonlinear propagator, then records the fields.
type Simulator struct {
	model     dynamo.Model
	backend   spectral.Backend
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(model dynamo.Model, backend spectral.Backend) *Simulator {
	return &Simulator{
		model:     model,
		backend:   backend,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run propagates the model's initial state over cfg.Steps steps. A
// cancelled context stops the loop between steps and returns the partial
// result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	state := s.model.InitialState()
	n := len(state.Fields[0])

	tracker, tracked := s.model.(dynamo.EnergyTracker)
	result := dynamo.NewResult(s.model.Name(), s.model.FieldNames(), cfg.Steps, n, tracked)
	result.Dz = cfg.Dz

	for _, m := range s.metrics {
		m.Reset()
		if seeder, ok := m.(dynamo.Seeder); ok {
			seeder.Seed(state)
		}
	}

	analyzer := spectral.NewAnalyzer(s.backend, n)
	fractions := make([]float64, len(state.Fields))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		state.Step = i
		s.model.LinearStep(state)
		s.model.NonlinearStep(state)

		for f, field := range state.Fields {
			result.Time[f].SetRow(i, field)
			analyzer.Magnitude(result.Spectrum[f].Row(i), field)
		}

		if tracked {
			tracker.EnergyFractions(state, fractions)
			for f, v := range fractions {
				result.Energy[f][i] = v
			}
		}

		z := float64(i+1) * cfg.Dz
		if cfg.ValidateState && !state.IsValid() {
			s.collect(result)
			return result, &dynamo.SimulationError{
				Step:    i,
				Z:       z,
				State:   state,
				Wrapped: fmt.Errorf("%w at step %d", dynamo.ErrInvalidState, i),
			}
		}

		for _, m := range s.metrics {
			m.Observe(state)
		}
		for _, obs := range s.observers {
			obs.OnStep(state, z)
		}

		result.StepsTaken++
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrInvalidGrid, cfg.Steps)
	}
	return nil
}
