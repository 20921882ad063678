package analysis

import (
	"fmt"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Curves are the energy fractions of an SHG run against normalized
// distance in [0, 1].
type Curves struct {
	Z      []float64
	Pump   []float64
	Signal []float64
	Sum    []float64
}

type SHGReport struct {
	PumpTime       [][]float64
	PumpSpectrum   [][]float64
	SignalTime     [][]float64
	SignalSpectrum [][]float64
	Energy         *Curves
}

type KerrReport struct {
	Time     [][]float64
	Spectrum [][]float64
	// SpectralWidth is the RMS width of the spectrum per step, in bins.
	SpectralWidth []float64
}

func checkField(r *dynamo.Result, field int) error {
	if field < 0 || field >= len(r.Fields) {
		return fmt.Errorf("%w: field %d out of range for %d-field result", dynamo.ErrDimensionMismatch, field, len(r.Fields))
	}
	return nil
}

// TimeMagnitudes returns |u| for every recorded step of a field.
func TimeMagnitudes(r *dynamo.Result, field int) ([][]float64, error) {
	if err := checkField(r, field); err != nil {
		return nil, err
	}
	return r.Time[field].Abs(), nil
}

// SpectrumMagnitudes returns the centered spectral magnitude grid of a field.
func SpectrumMagnitudes(r *dynamo.Result, field int) ([][]float64, error) {
	if err := checkField(r, field); err != nil {
		return nil, err
	}
	return r.Spectrum[field].Grid(), nil
}

// Profile returns |u| of one field at one step.
func Profile(r *dynamo.Result, field, step int) ([]float64, error) {
	if err := checkField(r, field); err != nil {
		return nil, err
	}
	h := r.Time[field]
	if step < 0 || step >= h.Rows {
		return nil, fmt.Errorf("%w: step %d out of range [0, %d)", dynamo.ErrDimensionMismatch, step, h.Rows)
	}
	return dynamo.Field(h.Row(step)).Abs(nil), nil
}

// NormalizedAxis returns n points spanning [0, 1].
func NormalizedAxis(n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, 1)
}

// EnergyCurves returns the pump, signal and summed energy fractions.
func EnergyCurves(r *dynamo.Result) (*Curves, error) {
	if r.Energy == nil {
		return nil, dynamo.ErrNoEnergy
	}
	if len(r.Energy) < 2 {
		return nil, fmt.Errorf("%w: energy curves need pump and signal, got %d fields", dynamo.ErrDimensionMismatch, len(r.Energy))
	}

	pump, signal := r.Energy[0], r.Energy[1]
	sum := make([]float64, len(pump))
	floats.AddTo(sum, pump, signal)

	return &Curves{
		Z:      NormalizedAxis(len(pump)),
		Pump:   pump,
		Signal: signal,
		Sum:    sum,
	}, nil
}

func NewSHGReport(r *dynamo.Result) (*SHGReport, error) {
	if len(r.Fields) != 2 {
		return nil, fmt.Errorf("%w: shg report needs 2 fields, got %d", dynamo.ErrDimensionMismatch, len(r.Fields))
	}
	energy, err := EnergyCurves(r)
	if err != nil {
		return nil, err
	}
	return &SHGReport{
		PumpTime:       r.Time[0].Abs(),
		PumpSpectrum:   r.Spectrum[0].Grid(),
		SignalTime:     r.Time[1].Abs(),
		SignalSpectrum: r.Spectrum[1].Grid(),
		Energy:         energy,
	}, nil
}

func NewKerrReport(r *dynamo.Result) (*KerrReport, error) {
	if len(r.Fields) != 1 {
		return nil, fmt.Errorf("%w: kerr report needs 1 field, got %d", dynamo.ErrDimensionMismatch, len(r.Fields))
	}
	widths, err := SpectralWidths(r, 0)
	if err != nil {
		return nil, err
	}
	return &KerrReport{
		Time:          r.Time[0].Abs(),
		Spectrum:      r.Spectrum[0].Grid(),
		SpectralWidth: widths,
	}, nil
}

// Final returns the last value of a series, or 0 when empty.
func Final(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
