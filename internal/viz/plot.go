package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
)

// EnergyPlot charts pump, signal and total energy fractions against
// normalized distance.
func EnergyPlot(c *analysis.Curves, width, height int) string {
	if c == nil || len(c.Pump) < 2 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{c.Pump, c.Signal, c.Sum},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Magenta, asciigraph.White),
		asciigraph.SeriesLegends("pump", "signal", "sum"),
		asciigraph.Caption("energy fraction vs z/L"),
	)
}

// ProfilePlot charts one magnitude profile, e.g. |u(τ)| at the last step.
func ProfilePlot(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}
