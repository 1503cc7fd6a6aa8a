package input

import "sync/atomic"

// Ring is the capture buffer: a fixed-capacity circle of 16-bit samples with
// one writer and any number of readers.
//
// There is no lock. Readers copy the newest samples by cursor, and a read
// that races a write may mix old and new samples for that one cycle.
type Ring struct {
	slots  []atomic.Int32
	cursor atomic.Uint64 // samples ever written
}

// NewRing returns a ring holding capacity samples.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{slots: make([]atomic.Int32, capacity)}
}

// Written returns how many samples were ever written.
func (r *Ring) Written() uint64 {
	return r.cursor.Load()
}

// WriteSample appends one sample.
func (r *Ring) WriteSample(s int16) {
	c := r.cursor.Load()
	r.slots[c%uint64(len(r.slots))].Store(int32(s))
	r.cursor.Store(c + 1)
}

// Write appends samples in order.
func (r *Ring) Write(samples []int16) {
	var (
		c    = r.cursor.Load()
		size = uint64(len(r.slots))
	)

	for i, s := range samples {
		r.slots[(c+uint64(i))%size].Store(int32(s))
	}
	r.cursor.Store(c + uint64(len(samples)))
}

// WriteFrames mixes interleaved frames of the given width down to mono and
// appends them. A trailing partial frame is dropped.
func (r *Ring) WriteFrames(interleaved []int16, channels int) {
	if channels < 1 {
		channels = 1
	}

	var (
		c    = r.cursor.Load()
		size = uint64(len(r.slots))
		n    = uint64(len(interleaved) / channels)
	)

	for i := uint64(0); i < n; i++ {
		s := Mix(interleaved[i*uint64(channels) : (i+1)*uint64(channels)])
		r.slots[(c+i)%size].Store(int32(s))
	}
	r.cursor.Store(c + n)
}

// Latest fills dst with the newest len(dst) samples, oldest first. History
// that was never written reads as zero. It returns the number of samples
// copied, which is at most the ring capacity.
func (r *Ring) Latest(dst []float64) int {
	var (
		end  = r.cursor.Load()
		size = uint64(len(r.slots))
		n    = uint64(len(dst))
	)

	if n > size {
		// more than we hold; pad the front
		pad := n - size
		for i := uint64(0); i < pad; i++ {
			dst[i] = 0
		}
		dst = dst[pad:]
		n = size
	}

	var start uint64
	if end > n {
		start = end - n
	} else {
		missing := n - end
		for i := uint64(0); i < missing; i++ {
			dst[i] = 0
		}
		dst = dst[missing:]
		n = end
	}

	for i := uint64(0); i < n; i++ {
		dst[i] = float64(r.slots[(start+i)%size].Load())
	}

	return int(n)
}

