// Package dynamo provides the core primitives shared by the propagation
// models and the split-step driver.
//
//   - [Field]: complex envelope sampled on the time axis
//   - [State]: the live fields of one run, owned by the stepper
//   - [Model]: a physical model split into linear and nonlinear sub-steps
//   - [History], [Magnitudes]: preallocated per-step snapshot grids
//   - [Metric], [Observer]: hooks invoked after every step
//
// # Example
//
//	g, _ := grid.New(grid.Spec{TMax: 15, TPrecision: 1024, Length: 2e-5, ZPrecision: 2000})
//	model, _ := physics.NewKerr(physics.DefaultKerr(), g, spectral.NewDSP())
//	result, _ := sim.New(model, spectral.NewDSP()).Run(ctx, dynamo.Config{Steps: g.Steps(), Dz: g.Dz})
//
// # Thread Safety
//
// A State belongs to exactly one run. Nothing in this package is safe for
// concurrent mutation.
package dynamo
