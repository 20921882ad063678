// Package analysis reduces a finished propagation run into the arrays a
// visualization layer consumes.
//
//   - [TimeMagnitudes], [SpectrumMagnitudes]: per-step magnitude grids
//   - [EnergyCurves]: pump, signal and total energy fractions
//   - [NewSHGReport], [NewKerrReport]: complete bundles per model
//   - [RMSWidth]: spectral or temporal RMS width of a profile
//   - [SpectralWidths]: RMS spectral width of a field per step
//
// Nothing here mutates the result.
//
//	report, err := analysis.NewSHGReport(result)
//	eff := report.Energy.Signal[len(report.Energy.Signal)-1]
package analysis
