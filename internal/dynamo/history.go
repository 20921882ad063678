package dynamo

import "math/cmplx"

// History is a row-major complex grid with one row per longitudinal step.
// All rows share a single backing array allocated up front.
type History struct {
	Rows, Cols int
	data       []complex128
}

func NewHistory(rows, cols int) *History {
	return &History{Rows: rows, Cols: cols, data: make([]complex128, rows*cols)}
}

// Row returns the backing slice for step i; writes go through to the grid.
func (h *History) Row(i int) []complex128 {
	return h.data[i*h.Cols : (i+1)*h.Cols]
}

func (h *History) SetRow(i int, f Field) {
	copy(h.Row(i), f)
}

// Abs returns |h| as a freshly allocated grid.
func (h *History) Abs() [][]float64 {
	out := makeRectangular(h.Rows, h.Cols)
	for i, v := range h.data {
		out[i/h.Cols][i%h.Cols] = cmplx.Abs(v)
	}
	return out
}

// Magnitudes is the real-valued counterpart of History, used for spectra.
type Magnitudes struct {
	Rows, Cols int
	data       []float64
}

func NewMagnitudes(rows, cols int) *Magnitudes {
	return &Magnitudes{Rows: rows, Cols: cols, data: make([]float64, rows*cols)}
}

func (m *Magnitudes) Row(i int) []float64 {
	return m.data[i*m.Cols : (i+1)*m.Cols]
}

// Grid returns row views onto the shared backing array.
func (m *Magnitudes) Grid() [][]float64 {
	rows := make([][]float64, m.Rows)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}

func makeRectangular(rows, cols int) [][]float64 {
	arr := make([]float64, rows*cols)
	rect := make([][]float64, rows)
	for i := range rect {
		rect[i] = arr[:cols:cols]
		arr = arr[cols:]
	}
	return rect
}
