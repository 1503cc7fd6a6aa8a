package dsp

// Interpolator averages each frame with the frames before it.
//
// It keeps a ring of the last factor frames. A change of factor restarts
// the ring index without clearing old frames, so the average settles over
// the next factor frames.
type Interpolator struct {
	frames [][]float64
	factor int
	index  int
}

// NewInterpolator allocates room for maxFactor frames of maxBuckets values.
func NewInterpolator(maxFactor, maxBuckets int) *Interpolator {
	if maxFactor < 0 {
		maxFactor = 0
	}

	it := &Interpolator{frames: make([][]float64, maxFactor)}
	for i := range it.frames {
		it.frames[i] = make([]float64, maxBuckets)
	}

	return it
}

// Factor returns the factor of the last Apply.
func (it *Interpolator) Factor() int {
	return it.factor
}

// Apply stores buf as the newest frame and overwrites buf with the mean of
// the factor most recent slots. A factor of zero leaves buf alone. Factors
// above the allocated maximum are capped.
func (it *Interpolator) Apply(buf []float64, factor int) {
	if factor > len(it.frames) {
		factor = len(it.frames)
	}
	if factor < 0 {
		factor = 0
	}

	if factor != it.factor {
		it.factor = factor
		it.index = 0
	}

	if factor == 0 {
		return
	}

	slot := it.frames[it.index]
	if len(slot) < len(buf) {
		slot = append(slot, make([]float64, len(buf)-len(slot))...)
		it.frames[it.index] = slot
	}
	copy(slot, buf)

	for i := range buf {
		sum := 0.0
		for _, frame := range it.frames[:factor] {
			if i < len(frame) {
				sum += frame[i]
			}
		}
		buf[i] = sum / float64(factor)
	}

	if it.index++; it.index >= factor {
		it.index = 0
	}
}
