package physics

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Spec{TMax: 15, TPrecision: 64, Length: 2e-5, ZPrecision: 100})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestSech(t *testing.T) {
	u := Sech([]float64{0, 1, -1, 20})

	if u[0] != 1 {
		t.Errorf("sech(0) = %v, want 1", u[0])
	}
	if want := 1 / math.Cosh(1); math.Abs(real(u[1])-want) > 1e-15 || real(u[1]) != real(u[2]) {
		t.Errorf("sech(±1) = %v, %v, want %v", u[1], u[2], want)
	}
	if imag(u[3]) != 0 || real(u[3]) > 1e-8 {
		t.Errorf("sech(20) = %v", u[3])
	}
}

func TestSHGInitialState(t *testing.T) {
	g := testGrid(t)
	m, err := NewSHG(DefaultSHG(), g, spectral.NewDSP())
	if err != nil {
		t.Fatalf("new shg: %v", err)
	}

	s := m.InitialState()
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
	if s.Fields[Signal].Energy() != 0 {
		t.Error("signal must start at zero")
	}
	if s.InputEnergy != s.Fields[Pump].Energy() {
		t.Errorf("input energy %v, pump energy %v", s.InputEnergy, s.Fields[Pump].Energy())
	}

	fr := make([]float64, 2)
	m.EnergyFractions(s, fr)
	if fr[Pump] != 1 || fr[Signal] != 0 {
		t.Errorf("initial fractions = %v, want [1 0]", fr)
	}
}

func TestSHGZeroNonlinearLength(t *testing.T) {
	g := testGrid(t)
	tests := []struct {
		name   string
		l1, l2 float64
	}{
		{"pump", 0, 5e-6},
		{"signal", 5e-6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultSHG()
			p.NLLength1, p.NLLength2 = tt.l1, tt.l2
			if _, err := NewSHG(p, g, spectral.NewDSP()); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSHGNonlinearFirstStep(t *testing.T) {
	g := testGrid(t)
	m, _ := NewSHG(DefaultSHG(), g, spectral.NewDSP())

	s := m.InitialState()
	pump := append(dynamo.Field(nil), s.Fields[Pump]...)
	s.Step = 0
	m.NonlinearStep(s)

	c2 := complex(g.Dz/5e-6, 0) * 1i
	for k := range pump {
		if s.Fields[Pump][k] != pump[k] {
			t.Fatalf("pump changed at %d with zero signal", k)
		}
		want := c2 * pump[k] * pump[k]
		if cmplx.Abs(s.Fields[Signal][k]-want) > 1e-16 {
			t.Fatalf("signal[%d] = %v, want %v", k, s.Fields[Signal][k], want)
		}
	}
}

func TestSHGSequentialUpdate(t *testing.T) {
	g := testGrid(t)
	p := DefaultSHG()
	p.DBeta0 = 3e5
	m, _ := NewSHG(p, g, spectral.NewDSP())

	a, b := complex(0.8, 0.1), complex(0.2, -0.3)
	s := &dynamo.State{Fields: []dynamo.Field{{a}, {b}}, Step: 7, InputEnergy: 1}
	m.NonlinearStep(s)

	phase := p.DBeta0 * g.Dz * 7
	c1 := complex(g.Dz, 0) * complex(0, 1/p.NLLength1)
	c2 := complex(g.Dz, 0) * complex(0, 1/p.NLLength2)
	a1 := a + c1*cmplx.Conj(a)*b*cmplx.Exp(complex(0, -phase))
	b1 := b + c2*a1*a1*cmplx.Exp(complex(0, phase))

	if cmplx.Abs(s.Fields[Pump][0]-a1) > 1e-15 {
		t.Errorf("pump = %v, want %v", s.Fields[Pump][0], a1)
	}
	if cmplx.Abs(s.Fields[Signal][0]-b1) > 1e-15 {
		t.Errorf("signal = %v, want %v (must use updated pump)", s.Fields[Signal][0], b1)
	}

	stale := b + c2*a*a*cmplx.Exp(complex(0, phase))
	if cmplx.Abs(s.Fields[Signal][0]-stale) < 1e-15 {
		t.Error("signal update used the pre-step pump")
	}
}

func TestSHGInfiniteNonlinearLength(t *testing.T) {
	g := testGrid(t)
	p := DefaultSHG()
	p.NLLength1, p.NLLength2 = math.Inf(1), math.Inf(1)
	m, err := NewSHG(p, g, spectral.NewDSP())
	if err != nil {
		t.Fatalf("infinite nonlinear lengths must be accepted: %v", err)
	}

	s := m.InitialState()
	before := append(dynamo.Field(nil), s.Fields[Pump]...)
	m.NonlinearStep(s)
	for k := range before {
		if s.Fields[Pump][k] != before[k] || s.Fields[Signal][k] != 0 {
			t.Fatalf("nonlinear step must be the identity, changed at %d", k)
		}
	}
}

func TestKerrNonlinearRotation(t *testing.T) {
	g := testGrid(t)
	m, _ := NewKerr(KerrParams{Beta2: 1, Gamma: 2}, g, spectral.NewDSP())

	s := m.InitialState()
	before := append(dynamo.Field(nil), s.Fields[0]...)
	m.NonlinearStep(s)

	for k, v := range s.Fields[0] {
		if math.Abs(cmplx.Abs(v)-cmplx.Abs(before[k])) > 1e-15 {
			t.Fatalf("magnitude changed at %d", k)
		}
		wantPhase := 2 * g.Dz * real(before[k]) * real(before[k])
		if math.Abs(cmplx.Phase(v)-wantPhase) > 1e-15 {
			t.Fatalf("phase[%d] = %v, want %v", k, cmplx.Phase(v), wantPhase)
		}
	}
}

func TestParams(t *testing.T) {
	g := testGrid(t)
	shg, _ := NewSHG(DefaultSHG(), g, spectral.NewDSP())
	kerr, _ := NewKerr(DefaultKerr(), g, spectral.NewDSP())

	var _ dynamo.Parameterized = shg
	var _ dynamo.Parameterized = kerr
	var _ dynamo.EnergyTracker = shg

	if shg.Params()["nlLength1"] != 5e-6 {
		t.Errorf("shg params = %v", shg.Params())
	}
	if kerr.Params()["gamma"] != 1 {
		t.Errorf("kerr params = %v", kerr.Params())
	}
	if _, ok := dynamo.Model(kerr).(dynamo.EnergyTracker); ok {
		t.Error("kerr must not report energy fractions")
	}
}
