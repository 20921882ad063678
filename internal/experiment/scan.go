package experiment

import (
	"context"
	"fmt"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/metrics"
	"gonum.org/v1/gonum/floats"
)

// ScanPoint is the outcome of one run in a phase-mismatch sweep.
type ScanPoint struct {
	DBeta0      float64
	Conversion  float64
	EnergyDrift float64
}

// Span returns n evenly spaced values in [from, to].
func Span(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	return floats.Span(make([]float64, n), from, to)
}

// PhaseMismatchScan runs the SHG model once per phase mismatch and records
// the final harmonic conversion. Runs are sequential; a cancelled context
// returns the points completed so far.
func PhaseMismatchScan(ctx context.Context, base *config.Config, values []float64) ([]ScanPoint, error) {
	points := make([]ScanPoint, 0, len(values))

	for _, dbeta0 := range values {
		cfg := *base
		cfg.Model = config.ModelSHG
		cfg.SHG.DBeta0 = dbeta0

		conv := metrics.NewConversion(1)
		drift := metrics.NewEnergyDrift()

		exp := New(&cfg)
		if err := exp.Setup([]dynamo.Metric{conv, drift}); err != nil {
			return points, fmt.Errorf("dbeta0=%g: %w", dbeta0, err)
		}
		if _, err := exp.Run(ctx); err != nil {
			return points, fmt.Errorf("dbeta0=%g: %w", dbeta0, err)
		}

		points = append(points, ScanPoint{
			DBeta0:      dbeta0,
			Conversion:  conv.Value(),
			EnergyDrift: drift.Value(),
		})
	}

	return points, nil
}

// Best returns the point with the highest conversion.
func Best(points []ScanPoint) (ScanPoint, bool) {
	if len(points) == 0 {
		return ScanPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Conversion > best.Conversion {
			best = p
		}
	}
	return best, true
}
