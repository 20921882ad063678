// Package spectral holds the discrete Fourier transform convention used by
// every propagator, and the precomputed dispersion operators built on it.
//
// # Convention
//
// Forward:  X[k] = Σ x[n]·exp(-2πi·kn/N)
// Inverse:  x[n] = (1/N)·Σ X[k]·exp(+2πi·kn/N)
//
// Index 0 of a transformed array is zero frequency. [Shift] moves it to the
// centre (numpy fftshift semantics); operators built on the centered
// frequency axis are shifted once so they line up with transform order.
//
// # Backends
//
//   - [DSP]: github.com/mjibson/go-dsp/fft (default)
//   - [Fourier]: gonum.org/v1/gonum/dsp/fourier
//
// Both satisfy [Backend] and agree to rounding error:
//
//	b, err := spectral.Select("gonum", 1024)
//	b.Forward(dst, src)
package spectral
