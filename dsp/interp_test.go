package dsp

import (
	"math"
	"testing"
)

func TestInterpolatorConverges(t *testing.T) {
	it := NewInterpolator(8, 4)
	frame := []float64{4, 8, 12, 16}

	for n := 1; n <= 4; n++ {
		buf := append([]float64(nil), frame...)
		it.Apply(buf, 4)

		for i := range buf {
			want := frame[i] * float64(n) / 4
			if math.Abs(buf[i]-want) > 1e-9 {
				t.Fatalf("frame %d: buf[%d] = %v; want %v", n, i, buf[i], want)
			}
		}
	}

	// a full ring of identical frames stays put
	buf := append([]float64(nil), frame...)
	it.Apply(buf, 4)
	for i := range buf {
		if math.Abs(buf[i]-frame[i]) > 1e-9 {
			t.Fatalf("steady buf[%d] = %v; want %v", i, buf[i], frame[i])
		}
	}
}

func TestInterpolatorPassthrough(t *testing.T) {
	it := NewInterpolator(8, 3)
	buf := []float64{1, 2, 3}

	it.Apply(buf, 0)
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Errorf("factor 0 changed %v", buf)
	}
	if it.Factor() != 0 {
		t.Errorf("factor = %d", it.Factor())
	}
}

func TestInterpolatorFactorChange(t *testing.T) {
	it := NewInterpolator(8, 1)

	for n := 0; n < 4; n++ {
		it.Apply([]float64{2}, 4)
	}

	// switching to 2 restarts at slot zero, over the frames already held
	buf := []float64{6}
	it.Apply(buf, 2)
	if want := (6.0 + 2) / 2; math.Abs(buf[0]-want) > 1e-9 {
		t.Errorf("after change = %v; want %v", buf[0], want)
	}

	buf = []float64{6}
	it.Apply(buf, 2)
	if math.Abs(buf[0]-6) > 1e-9 {
		t.Errorf("settled = %v; want 6", buf[0])
	}
}

func TestInterpolatorCapsFactor(t *testing.T) {
	it := NewInterpolator(2, 1)

	it.Apply([]float64{4}, 10)
	if it.Factor() != 2 {
		t.Errorf("factor = %d; want 2", it.Factor())
	}
}

func TestInterpolatorGrowsFrames(t *testing.T) {
	it := NewInterpolator(1, 2)

	buf := []float64{1, 2, 3, 4}
	it.Apply(buf, 1)
	if buf[3] != 4 {
		t.Errorf("buf = %v", buf)
	}
}
