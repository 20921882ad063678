package dynamo

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestFieldEnergyAndPeak(t *testing.T) {
	f := Field{3, complex(0, 4), complex(1, 1)}
	if got := f.Energy(); got != 27 {
		t.Errorf("Energy() = %v, want 27", got)
	}
	if got := f.Peak(); got != 4 {
		t.Errorf("Peak() = %v, want 4", got)
	}

	abs := f.Abs(make([]float64, 8))
	if len(abs) != 3 || abs[0] != 3 || abs[1] != 4 {
		t.Errorf("Abs() = %v", abs)
	}
}

func TestStateValidity(t *testing.T) {
	s := &State{Fields: []Field{{1, 2}, {3}}}
	if !s.IsValid() {
		t.Error("finite state reported invalid")
	}
	if s.TotalEnergy() != 14 {
		t.Errorf("TotalEnergy() = %v, want 14", s.TotalEnergy())
	}

	s.Fields[1][0] = complex(math.NaN(), 0)
	if s.IsValid() {
		t.Error("NaN sample not detected")
	}
	s.Fields[1][0] = complex(0, math.Inf(-1))
	if s.IsValid() {
		t.Error("Inf sample not detected")
	}
}

func TestHistoryRows(t *testing.T) {
	h := NewHistory(2, 3)
	h.SetRow(1, Field{complex(0, -2), 0, 1})

	if h.Row(0)[0] != 0 {
		t.Error("row 0 should be untouched")
	}
	abs := h.Abs()
	if abs[1][0] != 2 || abs[1][2] != 1 {
		t.Errorf("Abs() row 1 = %v", abs[1])
	}

	// rows are capped so appends cannot spill into the next row
	abs[0] = append(abs[0], 5)
	if abs[1][0] != 2 {
		t.Error("append on row 0 overwrote row 1")
	}
}

func TestMagnitudesGridSharesStorage(t *testing.T) {
	m := NewMagnitudes(2, 2)
	m.Row(1)[1] = 7
	if m.Grid()[1][1] != 7 {
		t.Error("Grid does not view the backing array")
	}
}

func TestResultLayout(t *testing.T) {
	r := NewResult("shg", []string{"pump", "signal"}, 4, 8, true)
	if len(r.Time) != 2 || r.Time[1].Rows != 4 || r.Spectrum[0].Cols != 8 {
		t.Error("unexpected grid layout")
	}
	if len(r.Energy) != 2 || len(r.Energy[0]) != 4 {
		t.Error("energy series not allocated")
	}
	if r.FieldIndex("signal") != 1 || r.FieldIndex("idler") != -1 {
		t.Error("FieldIndex lookup failed")
	}

	if NewResult("kerr", []string{"pulse"}, 4, 8, false).Energy != nil {
		t.Error("untracked result should have no energy series")
	}
}

func TestSimulationErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("run: %w", &SimulationError{
		Step:    3,
		Wrapped: fmt.Errorf("%w at step 3", ErrInvalidState),
	})

	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 3 {
		t.Error("errors.As failed")
	}
}
