package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/storage"
)

const testScenario = `
name: mismatch-study
description: matched and mismatched SHG next to a Kerr reference
steps:
  - name: matched
    model: shg
    config:
      shg:
        length: 5e-6
        t_precision: 64
        z_precision: 20
  - name: mismatched
    model: shg
    preset: mismatched
    save: false
    config:
      shg:
        length: 5e-6
        t_precision: 64
        z_precision: 20
  - model: kerr
    config:
      backend: gonum
      kerr:
        gamma: 0.5
        t_precision: 64
        z_precision: 10
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(testScenario))
	require.NoError(t, err)
	require.Equal(t, "mismatch-study", sc.Name)
	require.Len(t, sc.Steps, 3)

	_, err = ParseScenario([]byte("name: empty\n"))
	require.Error(t, err)
}

func TestStepConfigMergesOverrides(t *testing.T) {
	sc, err := ParseScenario([]byte(testScenario))
	require.NoError(t, err)

	matched, err := sc.Steps[0].StepConfig()
	require.NoError(t, err)
	require.Equal(t, config.ModelSHG, matched.Model)
	require.Equal(t, 64, matched.SHG.TPrecision)
	require.Equal(t, config.DefaultTMax, matched.SHG.TMax)
	require.Equal(t, config.DefaultNLLength, matched.SHG.NLLength1)
	require.True(t, matched.Output.Save)

	mismatched, err := sc.Steps[1].StepConfig()
	require.NoError(t, err)
	require.Equal(t, 1e6, mismatched.SHG.DBeta0)
	require.False(t, mismatched.Output.Save)

	kerr, err := sc.Steps[2].StepConfig()
	require.NoError(t, err)
	require.Equal(t, config.ModelKerr, kerr.Model)
	require.Equal(t, "gonum", kerr.Backend)
	require.Equal(t, 0.5, kerr.Kerr.Gamma)
	require.Equal(t, 1.0, kerr.Kerr.Beta2)
}

func TestStepConfigRejectsBadInput(t *testing.T) {
	_, err := ScenarioStep{Model: config.ModelSHG, Preset: "nope"}.StepConfig()
	require.ErrorIs(t, err, dynamo.ErrParameterBounds)

	sc, err := ParseScenario([]byte(`
steps:
  - model: shg
    config:
      shg:
        t_precision: 63
`))
	require.NoError(t, err)
	_, err = sc.Steps[0].StepConfig()
	require.ErrorIs(t, err, dynamo.ErrInvalidGrid)
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScenario), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	st := storage.New(filepath.Join(dir, "runs"))
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), sc, st)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, "matched", results[0].Name)
	require.NotEmpty(t, results[0].RunID)
	require.Empty(t, results[1].RunID)
	require.Equal(t, "step-3", results[2].Name)
	require.Equal(t, config.ModelKerr, results[2].Model)

	// phase matching converts more than a large mismatch
	require.Greater(t, results[0].Metrics["conversion"], results[1].Metrics["conversion"])

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestRunScenarioStopsOnFailure(t *testing.T) {
	sc := &Scenario{Name: "broken", Steps: []ScenarioStep{{Model: "raman"}}}
	results, err := RunScenario(context.Background(), sc, nil)
	require.Error(t, err)
	require.Empty(t, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	parsed, perr := ParseScenario([]byte(testScenario))
	require.NoError(t, perr)
	_, err = RunScenario(ctx, parsed, nil)
	require.True(t, errors.Is(err, context.Canceled))
}
