package physics

import (
	"math"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// Sech samples the unit hyperbolic-secant pulse on tau.
func Sech(tau []float64) dynamo.Field {
	u := make(dynamo.Field, len(tau))
	for k, t := range tau {
		u[k] = complex(1/math.Cosh(t), 0)
	}
	return u
}

// InputEnergy is the normalization denominator for energy fractions.
func InputEnergy(pump dynamo.Field) float64 {
	return pump.Energy()
}
