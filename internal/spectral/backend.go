package spectral

import (
	"fmt"
	"sort"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
)

// Backend is a forward/inverse DFT pair following the package convention.
// dst and src must have equal length; dst may alias src.
type Backend interface {
	Name() string
	Forward(dst, src []complex128)
	Inverse(dst, src []complex128)
}

const DefaultBackend = "dsp"

var backends = map[string]func(n int) Backend{
	"dsp":   func(int) Backend { return NewDSP() },
	"gonum": func(n int) Backend { return NewFourier(n) },
}

// Select returns the named backend sized for n-point transforms.
func Select(name string, n int) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown fft backend %q (available: %v)", dynamo.ErrParameterBounds, name, Backends())
	}
	return fn(n), nil
}

func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
