package util

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMovingWindow(t *testing.T) {
	mw := NewMovingWindow(3)

	if mean, sd := mw.Stats(); mean != 0 || sd != 0 {
		t.Errorf("empty stats = %v, %v", mean, sd)
	}

	mw.Update(2)
	if mean, sd := mw.Stats(); mean != 2 || sd != 0 {
		t.Errorf("one value = %v, %v", mean, sd)
	}

	mw.Update(4)
	mean, sd := mw.Update(6)
	if !near(mean, 4) || !near(sd, 2) {
		t.Errorf("full = %v, %v; want 4, 2", mean, sd)
	}

	// evicts the 2
	mean, sd = mw.Update(8)
	if !near(mean, 6) || !near(sd, 2) {
		t.Errorf("rolled = %v, %v; want 6, 2", mean, sd)
	}
	if mw.Len() != 3 || mw.Cap() != 3 {
		t.Errorf("len %d cap %d", mw.Len(), mw.Cap())
	}

	// drops the 4 and 6
	mean, _ = mw.Drop(2)
	if !near(mean, 8) || mw.Len() != 1 {
		t.Errorf("after drop mean %v len %d", mean, mw.Len())
	}

	mw.Drop(10)
	if mw.Len() != 0 || mw.Mean() != 0 || mw.StdDev() != 0 {
		t.Errorf("drained = %d %v %v", mw.Len(), mw.Mean(), mw.StdDev())
	}

	mw.Update(1)
	mw.Reset()
	if mw.Len() != 0 {
		t.Errorf("reset len %d", mw.Len())
	}
}
