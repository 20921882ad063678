package metrics

import "github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"

// Finite is the fraction of steps whose fields contained only finite samples.
type Finite struct {
	name       string
	violations int
	samples    int
}

func NewFinite() *Finite {
	return &Finite{name: "finite"}
}

func (f *Finite) Name() string {
	return f.name
}

func (f *Finite) Observe(s *dynamo.State) {
	f.samples++
	if !s.IsValid() {
		f.violations++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *Finite) Reset() {
	f.violations = 0
	f.samples = 0
}
