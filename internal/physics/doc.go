// Package physics provides the two pulse-propagation models driven by the
// split-step integrator.
//
// Each model implements [dynamo.Model], owning its precomputed dispersion
// operators and applying its nonlinear update in the time domain:
//
//   - [SHG]: pump and second harmonic, first-order coupled update with
//     phase mismatch
//   - [Kerr]: single field, exact self-phase rotation
//
// [SHG] also implements [dynamo.EnergyTracker] so that pump and signal are
// reported as fractions of the input pump energy.
//
// All lengths are in units of the pump dispersion length.
//
//	g, _ := grid.New(grid.Spec{TMax: 15, TPrecision: 1024, Length: 2e-5, ZPrecision: 2000})
//	shg, err := physics.NewSHG(physics.DefaultSHG(), g, spectral.NewDSP())
package physics
