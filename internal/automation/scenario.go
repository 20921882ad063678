package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/experiment"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
)

// Scenario is a scripted sequence of propagation runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep selects a model, optionally a preset, and overrides any
// configuration field with the same keys a config file uses.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Model  string    `yaml:"model"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Save   *bool     `yaml:"save"`
}

// StepResult summarizes one executed step.
type StepResult struct {
	Name    string
	Model   string
	RunID   string
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig builds the validated configuration of one step.
func (s ScenarioStep) StepConfig() (*config.Config, error) {
	model := s.Model
	if model == "" {
		model = config.ModelSHG
	}

	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %s for %s", dynamo.ErrParameterBounds, s.Preset, model)
		}
	}
	cfg.Model = model

	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
		cfg.Model = model
	}

	if s.Save != nil {
		cfg.Output.Save = *s.Save
	}

	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. Runs whose configuration asks
// for it are written to st when st is non-nil. The first failing step stops
// the scenario and the completed steps are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		cfg, err := step.StepConfig()
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name, "model", cfg.Model)

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d (%s) setup: %w", i+1, name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		sr := StepResult{Name: name, Model: cfg.Model, Metrics: result.Metrics}
		if st != nil && cfg.Output.Save {
			runID, err := st.Save(exp.Backend().Name(), cfg.Output.Stride, cfg.Params(), result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
			}
			sr.RunID = runID
		}

		results = append(results, sr)
	}

	return results, nil
}
