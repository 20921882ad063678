// Package grid builds the sampling grid shared by every field of a run.
package grid

import (
	"fmt"
	"math"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// Spec holds the scalar inputs of the grid. Lengths are in units of the
// dispersion length.
type Spec struct {
	TMax       float64
	TPrecision int
	Length     float64
	ZPrecision int
}

type Grid struct {
	Spec
	// Tau is the time axis, left-edge sampled over [-TMax, TMax).
	Tau []float64
	// Omega is the angular-frequency axis in natural (centered) order.
	Omega []float64
	Dz    float64
}

// New builds the time axis, frequency axis and step size.
func New(spec Spec) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	n := spec.TPrecision
	half := float64(n / 2)
	dt := 2 * spec.TMax / float64(n)
	dw := -math.Pi / spec.TMax

	g := &Grid{
		Spec:  spec,
		Tau:   make([]float64, n),
		Omega: make([]float64, n),
		Dz:    spec.Length / float64(spec.ZPrecision),
	}
	for k := 0; k < n; k++ {
		g.Tau[k] = dt * (float64(k) - half)
		g.Omega[k] = dw * (float64(k) - half)
	}
	return g, nil
}

func (s Spec) Validate() error {
	if s.TPrecision < 2 || s.TPrecision%2 != 0 {
		return fmt.Errorf("%w: tPrecision must be even and >= 2, got %d", dynamo.ErrInvalidGrid, s.TPrecision)
	}
	if s.ZPrecision < 1 {
		return fmt.Errorf("%w: zPrecision must be >= 1, got %d", dynamo.ErrInvalidGrid, s.ZPrecision)
	}
	if !(s.TMax > 0) {
		return fmt.Errorf("%w: tMax must be positive, got %g", dynamo.ErrInvalidGrid, s.TMax)
	}
	return nil
}

// N is the number of samples on the time axis.
func (g *Grid) N() int { return g.TPrecision }

// Steps is the number of longitudinal steps.
func (g *Grid) Steps() int { return g.ZPrecision }

// Z returns the propagation distance reached after step i.
func (g *Grid) Z(i int) float64 { return float64(i+1) * g.Dz }
