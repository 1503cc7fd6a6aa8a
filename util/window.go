// Package util holds small numeric helpers shared by consumers.
package util

import "math"

// MovingWindow keeps the mean and standard deviation of the last Cap
// values pushed into it.
type MovingWindow struct {
	values []float64
	head   int // index of the oldest value
	length int

	sum     float64
	squares float64
}

// NewMovingWindow returns a window over size values.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}
	return &MovingWindow{values: make([]float64, size)}
}

// Update pushes value, evicting the oldest one when full, and returns the
// new statistics.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if mw.length == len(mw.values) {
		old := mw.values[mw.head]
		mw.sum -= old
		mw.squares -= old * old
		mw.values[mw.head] = value
		mw.head = (mw.head + 1) % len(mw.values)
	} else {
		mw.values[(mw.head+mw.length)%len(mw.values)] = value
		mw.length++
	}

	mw.sum += value
	mw.squares += value * value

	return mw.Stats()
}

// Drop removes the count oldest values.
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	for ; count > 0 && mw.length > 0; count-- {
		old := mw.values[mw.head]
		mw.sum -= old
		mw.squares -= old * old
		mw.head = (mw.head + 1) % len(mw.values)
		mw.length--
	}

	// clear rounding drift once there is nothing left to describe
	if mw.length == 0 {
		mw.sum, mw.squares = 0, 0
	}

	return mw.Stats()
}

// Reset empties the window.
func (mw *MovingWindow) Reset() {
	mw.head, mw.length = 0, 0
	mw.sum, mw.squares = 0, 0
}

// Len returns how many values the window holds.
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns the most values the window holds.
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}

// Mean is the average of the held values.
func (mw *MovingWindow) Mean() float64 {
	mean, _ := mw.Stats()
	return mean
}

// StdDev is the sample standard deviation of the held values.
func (mw *MovingWindow) StdDev() float64 {
	_, sd := mw.Stats()
	return sd
}

// Stats returns the mean and sample standard deviation.
func (mw *MovingWindow) Stats() (float64, float64) {
	if mw.length == 0 {
		return 0, 0
	}

	n := float64(mw.length)
	mean := mw.sum / n

	if mw.length < 2 {
		return mean, 0
	}

	variance := (mw.squares - n*mean*mean) / (n - 1)
	return mean, math.Sqrt(math.Abs(variance))
}
