package metrics

import (
	"math"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// EnergyDrift is the largest relative deviation of the total field energy
// from the input energy seen during a run.
type EnergyDrift struct {
	name     string
	maxDrift float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *dynamo.State) {
	if s.InputEnergy == 0 {
		return
	}
	drift := math.Abs(s.TotalEnergy()-s.InputEnergy) / s.InputEnergy
	// NaN must not be swallowed by math.Max ordering
	if math.IsNaN(drift) || drift > e.maxDrift {
		e.maxDrift = drift
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.maxDrift = 0
}

// Conversion reports the energy fraction held by one field at the last
// observed step, e.g. second-harmonic conversion efficiency.
type Conversion struct {
	name     string
	field    int
	fraction float64
}

func NewConversion(field int) *Conversion {
	return &Conversion{name: "conversion", field: field}
}

func (c *Conversion) Name() string { return c.name }

func (c *Conversion) Observe(s *dynamo.State) {
	if c.field >= len(s.Fields) || s.InputEnergy == 0 {
		return
	}
	c.fraction = s.Fields[c.field].Energy() / s.InputEnergy
}

func (c *Conversion) Value() float64 { return c.fraction }

func (c *Conversion) Reset() { c.fraction = 0 }
