package dynamo

import "errors"

// Domain errors for propagation runs.
var (
	// ErrInvalidState indicates a field containing NaN or Inf samples.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidGrid indicates grid sizes the transforms cannot operate on.
	ErrInvalidGrid = errors.New("dynamo: invalid grid")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates fields or operators of different lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between field and grid")

	// ErrNoEnergy indicates a result produced by a model without energy tracking.
	ErrNoEnergy = errors.New("dynamo: result carries no energy series")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Z       float64
	State   *State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
