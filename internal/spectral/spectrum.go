package spectral

import "math/cmplx"

// Analyzer computes centered spectral magnitudes for display.
type Analyzer struct {
	backend Backend
	coeffs  []complex128
	mags    []float64
}

func NewAnalyzer(backend Backend, n int) *Analyzer {
	return &Analyzer{
		backend: backend,
		coeffs:  make([]complex128, n),
		mags:    make([]float64, n),
	}
}

// Magnitude writes Shift(|Forward(u)|) into dst.
func (a *Analyzer) Magnitude(dst []float64, u []complex128) {
	a.backend.Forward(a.coeffs, u)
	for k, c := range a.coeffs {
		a.mags[k] = cmplx.Abs(c)
	}
	Shift(dst, a.mags)
}
