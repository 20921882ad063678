package metrics

import "github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"

// PeakRatio compares the peak magnitude of a field at the last observed step
// with its peak in the input state.
type PeakRatio struct {
	name    string
	field   int
	initial float64
	current float64
	seeded  bool
}

func NewPeakRatio(field int) *PeakRatio {
	return &PeakRatio{name: "peak_ratio", field: field}
}

func (p *PeakRatio) Name() string { return p.name }

// Seed records the input peak. Without a seed the first observed step is
// used instead.
func (p *PeakRatio) Seed(s *dynamo.State) {
	if p.field >= len(s.Fields) {
		return
	}
	p.initial = s.Fields[p.field].Peak()
	p.seeded = true
}

func (p *PeakRatio) Observe(s *dynamo.State) {
	if p.field >= len(s.Fields) {
		return
	}
	peak := s.Fields[p.field].Peak()
	if !p.seeded {
		p.initial = peak
		p.seeded = true
	}
	p.current = peak
}

func (p *PeakRatio) Value() float64 {
	if !p.seeded || p.initial == 0 {
		return 0
	}
	return p.current / p.initial
}

func (p *PeakRatio) Reset() {
	p.initial = 0
	p.current = 0
	p.seeded = false
}
