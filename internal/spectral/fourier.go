package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Fourier wraps gonum's complex FFT. A Fourier value is bound to one
// transform length and keeps internal work buffers, so it must not be
// shared between goroutines.
type Fourier struct {
	plan *fourier.CmplxFFT
	work []complex128
	inv  complex128
}

func NewFourier(n int) *Fourier {
	return &Fourier{
		plan: fourier.NewCmplxFFT(n),
		work: make([]complex128, n),
		inv:  complex(1/float64(n), 0),
	}
}

func (f *Fourier) Name() string { return "gonum" }

func (f *Fourier) Forward(dst, src []complex128) {
	f.plan.Coefficients(f.work, src)
	copy(dst, f.work)
}

// Inverse applies the 1/N scaling gonum leaves to the caller.
func (f *Fourier) Inverse(dst, src []complex128) {
	f.plan.Sequence(f.work, src)
	for i, v := range f.work {
		dst[i] = v * f.inv
	}
}
