package sim

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/metrics"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

// testModel halves the first field every step and leaves the second alone.
type testModel struct {
	n       int
	linear  int
	ordered bool
}

func (m *testModel) Name() string         { return "test" }
func (m *testModel) FieldNames() []string { return []string{"a", "b"} }

func (m *testModel) InitialState() *dynamo.State {
	a := make(dynamo.Field, m.n)
	b := make(dynamo.Field, m.n)
	for i := range a {
		a[i] = 1
		b[i] = 1i
	}
	return &dynamo.State{Fields: []dynamo.Field{a, b}, InputEnergy: float64(m.n)}
}

func (m *testModel) LinearStep(s *dynamo.State) {
	m.linear++
	m.ordered = true
}

func (m *testModel) NonlinearStep(s *dynamo.State) {
	if !m.ordered {
		panic("nonlinear step before linear step")
	}
	m.ordered = false
	for i := range s.Fields[0] {
		s.Fields[0][i] *= 0.5
	}
}

type trackedModel struct{ testModel }

func (m *trackedModel) EnergyFractions(s *dynamo.State, dst []float64) {
	for i, f := range s.Fields {
		dst[i] = f.Energy() / s.InputEnergy
	}
}

type nanModel struct{ testModel }

func (m *nanModel) NonlinearStep(s *dynamo.State) {
	m.testModel.NonlinearStep(s)
	if s.Step == 2 {
		s.Fields[0][0] = cmplx.NaN()
	}
}

func TestSimulatorRun(t *testing.T) {
	model := &testModel{n: 8}
	result, err := New(model, spectral.NewDSP()).Run(context.Background(), dynamo.Config{Steps: 4, Dz: 0.25})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 4 || model.linear != 4 {
		t.Errorf("expected 4 steps, got %d (linear calls %d)", result.StepsTaken, model.linear)
	}
	if len(result.Time) != 2 || result.Time[0].Rows != 4 || result.Time[0].Cols != 8 {
		t.Fatalf("unexpected history shape")
	}

	for i := 0; i < 4; i++ {
		want := math.Pow(0.5, float64(i+1))
		if got := result.Time[0].Row(i)[3]; got != complex(want, 0) {
			t.Errorf("row %d = %v, want %v", i, got, want)
		}
		// constant field: all spectral weight in the centre bin
		if got := result.Spectrum[0].Row(i)[4]; math.Abs(got-8*want) > 1e-12 {
			t.Errorf("spectrum row %d centre = %v, want %v", i, got, 8*want)
		}
	}

	if result.Energy != nil {
		t.Error("untracked model must not produce energy series")
	}
}

func TestSimulatorEnergyTracking(t *testing.T) {
	model := &trackedModel{testModel{n: 4}}
	result, err := New(model, spectral.NewDSP()).Run(context.Background(), dynamo.Config{Steps: 3, Dz: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Energy) != 2 || len(result.Energy[0]) != 3 {
		t.Fatalf("unexpected energy shape")
	}
	for i := 0; i < 3; i++ {
		want := math.Pow(0.25, float64(i+1))
		if math.Abs(result.Energy[0][i]-want) > 1e-15 {
			t.Errorf("energy[a][%d] = %v, want %v", i, result.Energy[0][i], want)
		}
		if result.Energy[1][i] != 1 {
			t.Errorf("energy[b][%d] = %v, want 1", i, result.Energy[1][i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero steps", dynamo.Config{Steps: 0, Dz: 1}},
		{"negative steps", dynamo.Config{Steps: -1, Dz: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&testModel{n: 4}, spectral.NewDSP()).Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestSimulatorNaNPropagates(t *testing.T) {
	model := &nanModel{testModel{n: 4}}
	result, err := New(model, spectral.NewDSP()).Run(context.Background(), dynamo.Config{Steps: 5, Dz: 1})
	if err != nil {
		t.Fatalf("NaN must propagate silently without validation: %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected 5 steps, got %d", result.StepsTaken)
	}
	if !cmplx.IsNaN(result.Time[0].Row(4)[0]) {
		t.Error("expected NaN in final row")
	}
}

func TestSimulatorValidateState(t *testing.T) {
	model := &nanModel{testModel{n: 4}}
	result, err := New(model, spectral.NewDSP()).Run(context.Background(), dynamo.Config{Steps: 5, Dz: 1, ValidateState: true})

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if simErr.Step != 2 || simErr.Z != 3 {
		t.Errorf("error at step %d z=%v, want step 2 z=3", simErr.Step, simErr.Z)
	}
	if result.StepsTaken != 2 {
		t.Errorf("expected 2 completed steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(&testModel{n: 4}, spectral.NewDSP()).Run(ctx, dynamo.Config{Steps: 10, Dz: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected empty partial result, got %+v", result)
	}
}

type testMetric struct {
	count int
	last  float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(s *dynamo.State) {
	m.count++
	m.last = s.Fields[0].Energy()
}
func (m *testMetric) Value() float64 { return m.last }
func (m *testMetric) Reset()         { m.count, m.last = 0, 0 }

type testObserver struct{ zs []float64 }

func (o *testObserver) OnStep(s *dynamo.State, z float64) { o.zs = append(o.zs, z) }

func TestSimulatorHooks(t *testing.T) {
	sim := New(&testModel{n: 2}, spectral.NewDSP())
	metric := &testMetric{}
	obs := &testObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), dynamo.Config{Steps: 10, Dz: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if len(obs.zs) != 10 || obs.zs[9] != 5 {
		t.Errorf("observer positions = %v", obs.zs)
	}
}

func TestSimulatorSeedsPeakRatioFromInput(t *testing.T) {
	s := New(&testModel{n: 4}, spectral.NewDSP())
	s.AddMetric(metrics.NewPeakRatio(0))

	result, err := s.Run(context.Background(), dynamo.Config{Steps: 3, Dz: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// input peak 1, halved on every step
	if got := result.Metrics["peak_ratio"]; math.Abs(got-0.125) > 1e-15 {
		t.Errorf("peak_ratio = %v, want 0.125", got)
	}
}
