package dsp

// Pool writes the peak of spectrum between table[i] and table[i+1] into
// dst[i], in either order of the two bounds. The range is half-open; a
// collapsed range yields the single value at its bound. Bounds past the end
// of spectrum are cut off, and a bucket with nothing left reads zero.
//
// dst must hold len(table)-1 values. The filled slice is returned.
func Pool(dst, spectrum []float64, table []int) []float64 {
	n := len(table) - 1
	if n < 0 {
		n = 0
	}
	dst = dst[:n]

	for i := range dst {
		lo, hi := table[i], table[i+1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo == hi {
			hi++
		}
		if lo < 0 {
			lo = 0
		}
		if hi > len(spectrum) {
			hi = len(spectrum)
		}

		peak := 0.0
		for _, v := range spectrum[min(lo, hi):hi] {
			if v > peak {
				peak = v
			}
		}
		dst[i] = peak
	}

	return dst
}
