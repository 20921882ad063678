package spectral

import "github.com/mjibson/go-dsp/fft"

// DSP wraps go-dsp, whose inverse is already scaled by 1/N.
type DSP struct{}

func NewDSP() *DSP {
	return &DSP{}
}

func (d *DSP) Name() string { return "dsp" }

func (d *DSP) Forward(dst, src []complex128) {
	copy(dst, fft.FFT(src))
}

func (d *DSP) Inverse(dst, src []complex128) {
	copy(dst, fft.IFFT(src))
}
