package metrics

import "github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"

// Default returns the metrics reported for a model with the given fields.
func Default(fields []string) []dynamo.Metric {
	ms := []dynamo.Metric{
		NewEnergyDrift(),
		NewPeakRatio(0),
		NewFinite(),
	}
	if len(fields) > 1 {
		ms = append(ms, NewConversion(1))
	}
	return ms
}
