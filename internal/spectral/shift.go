package spectral

// Shift moves the zero-frequency element to the centre:
// dst[(k+N/2) mod N] = src[k]. For even N it is its own inverse.
// dst must not alias src.
func Shift[T any](dst, src []T) {
	n := len(src)
	h := n / 2
	for k, v := range src {
		dst[(k+h)%n] = v
	}
}
