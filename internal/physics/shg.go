package physics

import (
	"fmt"
	"math/cmplx"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

// SHGParams are the coupled second-harmonic parameters. Lengths are in units
// of the pump dispersion length, so Beta21 is conventionally 1.
type SHGParams struct {
	Beta21    float64
	Beta22    float64
	DBeta0    float64
	NLLength1 float64
	NLLength2 float64
}

func DefaultSHG() SHGParams {
	return SHGParams{Beta21: 1, Beta22: 1, DBeta0: 0, NLLength1: 5e-6, NLLength2: 5e-6}
}

func (p SHGParams) Validate() error {
	if p.NLLength1 == 0 || p.NLLength2 == 0 {
		return fmt.Errorf("%w: nonlinear lengths must be non-zero (got %g, %g)", dynamo.ErrParameterBounds, p.NLLength1, p.NLLength2)
	}
	return nil
}

const (
	Pump   = 0
	Signal = 1
)

// SHG propagates a pump and its second harmonic coupled through a
// first-order (Euler) nonlinear step.
type SHG struct {
	params SHGParams
	grid   *grid.Grid
	lin    [2]*spectral.Dispersion
	c1, c2 complex128
}

func NewSHG(p SHGParams, g *grid.Grid, backend spectral.Backend) (*SHG, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &SHG{
		params: p,
		grid:   g,
		lin: [2]*spectral.Dispersion{
			spectral.NewDispersion(p.Beta21, g.Omega, g.Dz, spectral.ForwardFirst, backend),
			spectral.NewDispersion(p.Beta22, g.Omega, g.Dz, spectral.ForwardFirst, backend),
		},
		c1: complex(g.Dz, 0) * complex(0, 1/p.NLLength1),
		c2: complex(g.Dz, 0) * complex(0, 1/p.NLLength2),
	}, nil
}

func (m *SHG) Name() string         { return "shg" }
func (m *SHG) FieldNames() []string { return []string{"pump", "signal"} }

func (m *SHG) InitialState() *dynamo.State {
	pump := Sech(m.grid.Tau)
	return &dynamo.State{
		Fields:      []dynamo.Field{pump, make(dynamo.Field, len(pump))},
		InputEnergy: InputEnergy(pump),
	}
}

func (m *SHG) LinearStep(s *dynamo.State) {
	m.lin[Pump].Apply(s.Fields[Pump])
	m.lin[Signal].Apply(s.Fields[Signal])
}

// NonlinearStep applies the coupling at position index s.Step. The harmonic
// update reads the pump value already updated in this step.
func (m *SHG) NonlinearStep(s *dynamo.State) {
	phase := m.params.DBeta0 * m.grid.Dz * float64(s.Step)
	down := m.c1 * cmplx.Exp(complex(0, -phase))
	up := m.c2 * cmplx.Exp(complex(0, phase))

	u1, u2 := s.Fields[Pump], s.Fields[Signal]
	for k := range u1 {
		u1[k] += down * cmplx.Conj(u1[k]) * u2[k]
		u2[k] += up * u1[k] * u1[k]
	}
}

func (m *SHG) EnergyFractions(s *dynamo.State, dst []float64) {
	for i, f := range s.Fields {
		dst[i] = f.Energy() / s.InputEnergy
	}
}

func (m *SHG) Params() map[string]float64 {
	return map[string]float64{
		"beta21":    m.params.Beta21,
		"beta22":    m.params.Beta22,
		"dbeta0":    m.params.DBeta0,
		"nlLength1": m.params.NLLength1,
		"nlLength2": m.params.NLLength2,
	}
}
