package physics

import (
	"math/cmplx"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/spectral"
)

type KerrParams struct {
	Beta2 float64
	Gamma float64
}

func DefaultKerr() KerrParams {
	return KerrParams{Beta2: 1, Gamma: 1}
}

// Kerr propagates a single field under dispersion and self-phase modulation.
// The nonlinear step is an exact phase rotation, so energy is conserved.
type Kerr struct {
	params KerrParams
	grid   *grid.Grid
	lin    *spectral.Dispersion
}

func NewKerr(p KerrParams, g *grid.Grid, backend spectral.Backend) (*Kerr, error) {
	return &Kerr{
		params: p,
		grid:   g,
		lin:    spectral.NewDispersion(p.Beta2, g.Omega, g.Dz, spectral.InverseFirst, backend),
	}, nil
}

func (m *Kerr) Name() string         { return "kerr" }
func (m *Kerr) FieldNames() []string { return []string{"pulse"} }

func (m *Kerr) InitialState() *dynamo.State {
	u := Sech(m.grid.Tau)
	return &dynamo.State{
		Fields:      []dynamo.Field{u},
		InputEnergy: InputEnergy(u),
	}
}

func (m *Kerr) LinearStep(s *dynamo.State) {
	m.lin.Apply(s.Fields[0])
}

func (m *Kerr) NonlinearStep(s *dynamo.State) {
	g := m.params.Gamma * m.grid.Dz
	u := s.Fields[0]
	for k, v := range u {
		re, im := real(v), imag(v)
		u[k] = v * cmplx.Exp(complex(0, g*(re*re+im*im)))
	}
}

func (m *Kerr) Params() map[string]float64 {
	return map[string]float64{
		"beta2": m.params.Beta2,
		"gamma": m.params.Gamma,
	}
}
