package analysis

import (
	"math"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RMSWidth is the intensity-weighted RMS width of a magnitude profile
// sampled at uniformly spaced bins. The result is in bins.
func RMSWidth(mag []float64) float64 {
	if len(mag) == 0 {
		return 0
	}
	w := make([]float64, len(mag))
	floats.MulTo(w, mag, mag)
	total := floats.Sum(w)
	if total == 0 {
		return 0
	}

	mean := 0.0
	for i, v := range w {
		mean += float64(i) * v
	}
	mean /= total

	variance := 0.0
	for i, v := range w {
		d := float64(i) - mean
		variance += d * d * v
	}
	return math.Sqrt(variance / total)
}

// PeakIndex returns the bin of the largest magnitude.
func PeakIndex(mag []float64) int {
	if len(mag) == 0 {
		return -1
	}
	return floats.MaxIdx(mag)
}

// SpectralWidths returns the RMS spectral width of a field at every recorded
// step.
func SpectralWidths(r *dynamo.Result, field int) ([]float64, error) {
	if err := checkField(r, field); err != nil {
		return nil, err
	}
	m := r.Spectrum[field]
	widths := make([]float64, m.Rows)
	for i := range widths {
		widths[i] = RMSWidth(m.Row(i))
	}
	return widths, nil
}
