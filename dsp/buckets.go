// Package dsp turns a magnitude spectrum into smoothed, per-bucket values.
//
// The pieces run in pipeline order: BuildTable maps buckets to FFT bins,
// Pool takes each bucket's peak, Smoother applies a Savitzky-Golay filter
// across buckets and Interpolator averages frames over time.
package dsp

import (
	"math"

	"github.com/noriah/recidia/settings"
)

// MaxBuckets is the most buckets a table for bufferSize can hold while every
// bucket keeps at least one bin.
func MaxBuckets(bufferSize int) int {
	n := bufferSize/2 - 2
	if n < 0 {
		return 0
	}
	return n
}

func bezier(p0, c, p2, t float64) float64 {
	return (1-t)*((1-t)*p0+t*c) + t*((1-t)*c+t*p2)
}

// Curve samples the chart guide's two-segment quadratic Bezier at count+1
// points, in FFT bin units. The first segment covers round(count*MidPos)
// points, the second the rest plus the closing boundary.
func Curve(dst []float64, count int, sampleRate float64, bufferSize int, g settings.ChartGuide) []float64 {
	var (
		plotFreq  = sampleRate / float64(bufferSize)
		start     = g.StartFreq / plotFreq
		startCtrl = start * g.StartCtrl
		mid       = g.MidFreq / plotFreq
		midCtrl   = mid * g.EndCtrl
		end       = g.EndFreq / plotFreq
		midPos    = int(math.Round(float64(count) * g.MidPos))
	)

	if midPos < 0 {
		midPos = 0
	}
	if midPos > count {
		midPos = count
	}

	dst = dst[:0]

	segment := func(n, samples int, p0, c, p2 float64) {
		for i := 0; i < samples; i++ {
			var t float64
			if n > 0 {
				t = float64(i) / float64(n)
			}
			dst = append(dst, bezier(p0, c, p2, t))
		}
	}

	segment(midPos, midPos, start, startCtrl, mid)
	segment(count-midPos, count-midPos+1, mid, midCtrl, end)

	return dst
}

// BuildTable computes count+1 bucket boundaries. Bucket i pools the bins
// between table[i] and table[i+1].
//
// Every entry is rounded from the guide curve and held to
// [1, bufferSize/2-1]. Adjacent entries always differ by at least one, so
// no bucket is empty, and follow the direction the curve moves unless the
// curve turns around past a bound.
func BuildTable(dst []int, count int, sampleRate float64, bufferSize int, g settings.ChartGuide) []int {
	if count < 1 || bufferSize < 6 || sampleRate <= 0 {
		return dst[:0]
	}

	var (
		raw = Curve(make([]float64, 0, count+1), count, sampleRate, bufferSize, g)
		lo  = 1
		hi  = bufferSize/2 - 1
	)

	clamp := func(v int) int {
		switch {
		case v < lo:
			return lo
		case v > hi:
			return hi
		}
		return v
	}

	if cap(dst) < count+1 {
		dst = make([]int, count+1)
	}
	table := dst[:count+1]

	table[0] = clamp(roundBin(raw[0]))

	// step forward, forcing a one-bin move when rounding collides
	for i := 1; i <= count; i++ {
		v := roundBin(raw[i])
		if raw[i-1] <= raw[i] {
			if v <= table[i-1] {
				v = table[i-1] + 1
			}
		} else if v >= table[i-1] {
			v = table[i-1] - 1
		}
		table[i] = v
	}

	// walk back in from the bounds, pushing neighbours out of the way; where
	// the curve turns at a bound there is no room in its direction, so the
	// neighbour steps back off the bound instead
	table[count] = clamp(table[count])
	for i := count; i > 0; i-- {
		var (
			rising = raw[i-1] <= raw[i]
			prev   = clamp(table[i-1])
		)

		if rising && prev >= table[i] {
			prev = table[i] - 1
		} else if !rising && prev <= table[i] {
			prev = table[i] + 1
		}

		if prev < lo || prev > hi {
			if rising {
				prev = table[i] + 1
			} else {
				prev = table[i] - 1
			}
		}

		table[i-1] = prev
	}

	return table
}

func roundBin(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(v))
}
