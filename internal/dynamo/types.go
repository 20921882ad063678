package dynamo

import (
	"math"
	"math/cmplx"
)

// Field is a complex envelope sampled on the time axis.
type Field []complex128

func (f Field) IsValid() bool {
	for _, v := range f {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// Energy returns the sum of squared magnitudes.
func (f Field) Energy() float64 {
	sum := 0.0
	for _, v := range f {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}
	return sum
}

// Abs writes |f| into dst, allocating when dst is too short.
func (f Field) Abs(dst []float64) []float64 {
	if len(dst) < len(f) {
		dst = make([]float64, len(f))
	}
	dst = dst[:len(f)]
	for i, v := range f {
		dst[i] = cmplx.Abs(v)
	}
	return dst
}

// Peak returns the largest magnitude in the field.
func (f Field) Peak() float64 {
	peak := 0.0
	for _, v := range f {
		peak = math.Max(peak, cmplx.Abs(v))
	}
	return peak
}

// State is the mutable propagation state owned by a single run.
type State struct {
	Fields []Field
	// Step is the index of the longitudinal step being applied.
	Step int
	// InputEnergy is captured from the pump before the first step.
	InputEnergy float64
}

func (s *State) IsValid() bool {
	for _, f := range s.Fields {
		if !f.IsValid() {
			return false
		}
	}
	return true
}

// TotalEnergy sums the energy of every live field.
func (s *State) TotalEnergy() float64 {
	sum := 0.0
	for _, f := range s.Fields {
		sum += f.Energy()
	}
	return sum
}

// Model is one physical propagation model split into its linear and
// nonlinear sub-steps.
type Model interface {
	Name() string
	FieldNames() []string
	InitialState() *State
	LinearStep(s *State)
	NonlinearStep(s *State)
}

// EnergyTracker is implemented by models whose fields are reported as
// fractions of the input energy.
type EnergyTracker interface {
	EnergyFractions(s *State, dst []float64)
}

// Parameterized exposes model parameters for run metadata.
type Parameterized interface {
	Params() map[string]float64
}

type Metric interface {
	Name() string
	Observe(s *State)
	Value() float64
	Reset()
}

// Seeder is implemented by metrics that take a baseline from the input
// state before the first step.
type Seeder interface {
	Seed(s *State)
}

type Observer interface {
	OnStep(s *State, z float64)
}

type Config struct {
	Steps int
	Dz    float64
	// ValidateState stops the run at the first non-finite sample. When
	// unset, NaN and Inf propagate to the end of the run.
	ValidateState bool
}

type Result struct {
	Model  string
	Fields []string
	// Time holds one complex time-domain snapshot per step for each field.
	Time []*History
	// Spectrum holds the centered spectral magnitude per step for each field.
	Spectrum []*Magnitudes
	// Energy is indexed [field][step]; nil for models without an EnergyTracker.
	Energy     [][]float64
	Metrics    map[string]float64
	Dz         float64
	StepsTaken int
}

// NewResult preallocates every snapshot grid for a run.
func NewResult(model string, fields []string, steps, points int, trackEnergy bool) *Result {
	r := &Result{
		Model:    model,
		Fields:   fields,
		Time:     make([]*History, len(fields)),
		Spectrum: make([]*Magnitudes, len(fields)),
		Metrics:  make(map[string]float64),
	}
	for i := range fields {
		r.Time[i] = NewHistory(steps, points)
		r.Spectrum[i] = NewMagnitudes(steps, points)
	}
	if trackEnergy {
		r.Energy = make([][]float64, len(fields))
		for i := range fields {
			r.Energy[i] = make([]float64, steps)
		}
	}
	return r
}

// FieldIndex returns the index of the named field or -1.
func (r *Result) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f == name {
			return i
		}
	}
	return -1
}
