package dsp

import (
	"gonum.org/v1/gonum/mat"
)

// rcond is the relative singular value cutoff of the pseudo-inverse.
const rcond = 1e-15

// WindowSize resolves the Savitzky-Golay window for a bucket count.
//
// A fixed window above zero wins over the relative one. The result is odd,
// at least order+2 and no larger than buckets. Zero means smoothing is off,
// either because both windows are zero or because buckets is too small to
// fit order+2.
func WindowSize(relative float64, fixed, order, buckets int) int {
	w := fixed
	if w <= 0 {
		if relative <= 0 {
			return 0
		}
		w = int(relative * float64(buckets))
	}

	if w%2 == 0 {
		w++
	}

	if floor := order + 2; w < floor {
		w = floor
		if w%2 == 0 {
			w++
		}
	}

	if w > buckets {
		w = buckets
		if w%2 == 0 {
			w--
		}
	}

	if w < order+2 {
		return 0
	}

	return w
}

// Kernel returns the Savitzky-Golay smoothing coefficients for an odd window
// and a polynomial order, as row zero of the pseudo-inverse of the
// window x (order+1) Vandermonde matrix over x in [-half, half], reversed.
//
// Singular values at or below rcond times the largest are dropped rather
// than inverted, so an ill-conditioned fit gives a weak kernel, never a
// failure.
func Kernel(window, order int) []float64 {
	if window < 1 || order < 0 {
		return nil
	}

	var (
		half = (window - 1) / 2
		cols = order + 1
		a    = mat.NewDense(window, cols, nil)
	)

	for r := 0; r < window; r++ {
		var (
			x = float64(r - half)
			p = 1.0
		)
		for k := 0; k < cols; k++ {
			a.Set(r, k, p)
			p *= x
		}
	}

	row := make([]float64, window)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return row
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	values := svd.Values(nil)

	largest := 0.0
	for _, s := range values {
		if s > largest {
			largest = s
		}
	}
	cutoff := rcond * largest

	// row 0 of V * inv(S) * U^T
	for k, s := range values {
		if s <= cutoff {
			continue
		}
		vk := v.At(0, k) / s
		for j := range row {
			row[j] += vk * u.At(j, k)
		}
	}

	for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
		row[i], row[j] = row[j], row[i]
	}

	return row
}

// Smoother applies a Savitzky-Golay filter across the buckets of a frame.
// It keeps its kernel until the window inputs change.
type Smoother struct {
	relative float64
	fixed    int
	order    int
	buckets  int

	configured bool

	window int
	kernel []float64
	padded []float64
}

// Configure updates the window inputs and rebuilds the kernel if they
// changed. It returns the effective window, zero when smoothing is off.
func (s *Smoother) Configure(relative float64, fixed, order, buckets int) int {
	if s.configured && relative == s.relative && fixed == s.fixed &&
		order == s.order && buckets == s.buckets {
		return s.window
	}

	s.configured = true
	s.relative, s.fixed, s.order, s.buckets = relative, fixed, order, buckets
	s.window = WindowSize(relative, fixed, order, buckets)

	if s.window == 0 {
		s.kernel = s.kernel[:0]
		return 0
	}

	s.kernel = Kernel(s.window, order)
	return s.window
}

// Window returns the effective window.
func (s *Smoother) Window() int {
	return s.window
}

// Kernel returns the current coefficients. Callers must not modify them.
func (s *Smoother) Kernel() []float64 {
	return s.kernel
}

// Apply smooths buf in place. Nothing happens when smoothing is off or buf
// is shorter than the window.
//
// Each end is padded with the half window of samples just inside it,
// buf[1:half+1] in front and buf[n-half-1:n-1] behind, and a valid
// convolution gives back len(buf) samples. With positiveOnly set, a product only counts when both the
// coefficient and the sample are positive.
func (s *Smoother) Apply(buf []float64, positiveOnly bool) {
	w := s.window
	if w < s.order+2 || w == 0 || len(buf) < w || len(s.kernel) != w {
		return
	}

	var (
		n    = len(buf)
		half = (w - 1) / 2
	)

	s.padded = append(s.padded[:0], buf[1:half+1]...)
	s.padded = append(s.padded, buf...)
	s.padded = append(s.padded, buf[n-half-1:n-1]...)

	Convolve(buf, s.padded, s.kernel, positiveOnly)
}

// Convolve writes the valid convolution of signal with kernel into dst,
// which must hold len(signal)-len(kernel)+1 values.
func Convolve(dst, signal, kernel []float64, positiveOnly bool) {
	last := len(kernel) - 1

	for i := range dst {
		sum := 0.0
		for j, k := last, i; j >= 0; j, k = j-1, k+1 {
			c, x := kernel[j], signal[k]
			if positiveOnly && (c <= 0 || x <= 0) {
				continue
			}
			sum += c * x
		}
		dst[i] = sum
	}
}
