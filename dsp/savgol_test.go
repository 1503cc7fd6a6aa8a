package dsp

import (
	"math"
	"testing"
)

func TestWindowSize(t *testing.T) {
	tests := []struct {
		relative              float64
		fixed, order, buckets int
		want                  int
	}{
		{0.05, 0, 3, 64, 5},
		{0, 0, 3, 64, 0},
		{0.05, 8, 3, 64, 9},
		{1, 0, 3, 64, 63},
		{0.5, 0, 3, 4, 0},
		{0.1, 0, 2, 100, 11},
		{0, 2, 4, 100, 7},
		{0.3, 0, 1, 10, 3},
	}

	for _, test := range tests {
		got := WindowSize(test.relative, test.fixed, test.order, test.buckets)
		if got != test.want {
			t.Errorf("WindowSize(%v, %d, %d, %d) = %d; want %d",
				test.relative, test.fixed, test.order, test.buckets, got, test.want)
		}
	}
}

func TestKernel(t *testing.T) {
	tests := []struct {
		window, order int
		want          []float64
	}{
		{5, 2, []float64{-3, 12, 17, 12, -3}},
		{7, 3, []float64{-2, 3, 6, 7, 6, 3, -2}},
	}

	norms := []float64{35, 21}

	for n, test := range tests {
		got := Kernel(test.window, test.order)
		if len(got) != test.window {
			t.Fatalf("Kernel(%d, %d) has %d values", test.window, test.order, len(got))
		}

		for i := range got {
			if want := test.want[i] / norms[n]; math.Abs(got[i]-want) > 1e-4 {
				t.Errorf("Kernel(%d, %d)[%d] = %.5f; want %.5f", test.window, test.order, i, got[i], want)
			}
		}
	}
}

func constant(n int, v float64) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestSmootherConstant(t *testing.T) {
	var s Smoother
	if w := s.Configure(0.05, 0, 2, 64); w != 5 {
		t.Fatalf("window = %d; want 5", w)
	}

	buf := constant(64, 2)
	s.Apply(buf, false)
	for i, v := range buf {
		if math.Abs(v-2) > 1e-9 {
			t.Fatalf("signed buf[%d] = %v; want 2", i, v)
		}
	}

	// only the positive taps of the kernel count
	buf = constant(64, 2)
	s.Apply(buf, true)
	want := 2 * 41.0 / 35
	for i, v := range buf {
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("positive-only buf[%d] = %v; want %v", i, v, want)
		}
	}
}

func TestSmootherLinear(t *testing.T) {
	var s Smoother
	s.Configure(0, 5, 2, 32)

	buf := make([]float64, 32)
	for i := range buf {
		buf[i] = float64(i)
	}
	s.Apply(buf, false)

	// the quadratic fit reproduces a line everywhere the padding does not reach
	for i := 2; i < len(buf)-2; i++ {
		if math.Abs(buf[i]-float64(i)) > 1e-9 {
			t.Errorf("buf[%d] = %v; want %d", i, buf[i], i)
		}
	}
}

func TestSmootherOff(t *testing.T) {
	var s Smoother
	if w := s.Configure(0, 0, 3, 64); w != 0 {
		t.Fatalf("window = %d; want 0", w)
	}

	buf := []float64{1, 5, 2, 8}
	s.Apply(buf, true)
	if buf[0] != 1 || buf[1] != 5 || buf[2] != 2 || buf[3] != 8 {
		t.Errorf("disabled smoother changed %v", buf)
	}

	s.Configure(1, 0, 3, 64)
	short := []float64{1, 5, 2}
	s.Apply(short, true)
	if short[1] != 5 {
		t.Errorf("short buffer changed %v", short)
	}
}

func TestSmootherReconfigure(t *testing.T) {
	var s Smoother
	s.Configure(0.05, 0, 3, 64)
	first := s.Kernel()

	s.Configure(0.05, 0, 3, 64)
	if &s.Kernel()[0] != &first[0] {
		t.Error("kernel rebuilt without a change")
	}

	if w := s.Configure(0.05, 0, 3, 256); w != 13 {
		t.Errorf("window = %d; want 13", w)
	}
	if len(s.Kernel()) != 13 {
		t.Errorf("kernel has %d values", len(s.Kernel()))
	}
}

func TestSmootherAllocs(t *testing.T) {
	var s Smoother
	s.Configure(0.1, 0, 3, 128)

	buf := constant(128, 1)
	s.Apply(buf, true)

	allocs := testing.AllocsPerRun(100, func() {
		s.Apply(buf, true)
	})
	if allocs != 0 {
		t.Errorf("Apply allocated %v times per run", allocs)
	}
}

func BenchmarkSmoother(b *testing.B) {
	var s Smoother
	s.Configure(0.05, 0, 3, 256)
	buf := constant(256, 1)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.Apply(buf, true)
	}
}
