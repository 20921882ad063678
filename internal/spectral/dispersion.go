package spectral

import (
	"math/cmplx"
)

// Pairing selects the order in which the transform pair wraps the
// dispersion multiply.
type Pairing int

const (
	// ForwardFirst computes Inverse(H·Forward(u)).
	ForwardFirst Pairing = iota
	// InverseFirst computes Forward(H·Inverse(u)).
	InverseFirst
)

func (p Pairing) String() string {
	switch p {
	case ForwardFirst:
		return "forward-first"
	case InverseFirst:
		return "inverse-first"
	default:
		return "unknown"
	}
}

// Dispersion is the exact linear propagator over one step dz, stored in
// transform order. It is computed once and reused for every step.
type Dispersion struct {
	H       []complex128
	pairing Pairing
	backend Backend
	scratch []complex128
}

// NewDispersion builds exp(i·β2·ω²·dz/2) on the centered frequency axis
// and shifts it into transform order.
func NewDispersion(beta2 float64, omega []float64, dz float64, pairing Pairing, backend Backend) *Dispersion {
	n := len(omega)
	natural := make([]complex128, n)
	for k, w := range omega {
		natural[k] = cmplx.Exp(complex(0, 0.5*beta2*w*w*dz))
	}

	d := &Dispersion{
		H:       make([]complex128, n),
		pairing: pairing,
		backend: backend,
		scratch: make([]complex128, n),
	}
	Shift(d.H, natural)
	return d
}


// Apply advances u by one linear step in place.
func (d *Dispersion) Apply(u []complex128) {
	switch d.pairing {
	case InverseFirst:
		d.backend.Inverse(d.scratch, u)
		d.multiply()
		d.backend.Forward(u, d.scratch)
	default:
		d.backend.Forward(d.scratch, u)
		d.multiply()
		d.backend.Inverse(u, d.scratch)
	}
}

func (d *Dispersion) multiply() {
	for k, h := range d.H {
		d.scratch[k] *= h
	}
}
