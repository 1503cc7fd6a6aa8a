package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/noriah/recidia/settings"
)

var guides = []settings.ChartGuide{
	settings.DefaultGuide(),
	{StartFreq: 0, StartCtrl: 1, MidFreq: 1000, MidPos: 0.66, EndCtrl: 1, EndFreq: 22050},
	{StartFreq: 50, StartCtrl: 2, MidFreq: 3000, MidPos: 0.3, EndCtrl: 0.5, EndFreq: 20000},
	{StartFreq: 100, StartCtrl: 0.5, MidFreq: 500, MidPos: 1, EndCtrl: 1, EndFreq: 8000},
	{StartFreq: 100, StartCtrl: 0.5, MidFreq: 500, MidPos: 0, EndCtrl: 1, EndFreq: 8000},
	// descending sweeps
	{StartFreq: 22050, StartCtrl: 1, MidFreq: 1000, MidPos: 0.5, EndCtrl: 1, EndFreq: 0},
	{StartFreq: 12000, StartCtrl: 1, MidFreq: 1000, MidPos: 0.66, EndCtrl: 1, EndFreq: 0},
	// flat
	{},
}

func TestBuildTableMonotonicAndBounded(t *testing.T) {
	const rate = 44100.0

	for _, size := range []int{1024, 2048, 4096, 16384} {
		for _, count := range []int{1, 2, 16, 64, 200, MaxBuckets(size)} {
			for _, g := range guides {
				raw := Curve(nil, count, rate, size, g)
				table := BuildTable(nil, count, rate, size, g)

				if len(table) != count+1 {
					t.Fatalf("size %d count %d: %d entries", size, count, len(table))
				}

				for i, v := range table {
					if v < 1 || v > size/2-1 {
						t.Fatalf("size %d count %d guide %+v: table[%d] = %d outside [1, %d]",
							size, count, g, i, v, size/2-1)
					}

					if i == 0 {
						continue
					}

					if raw[i-1] <= raw[i] {
						if table[i] <= table[i-1] {
							t.Fatalf("size %d count %d guide %+v: table[%d..%d] = %d, %d not ascending",
								size, count, g, i-1, i, table[i-1], table[i])
						}
					} else if table[i] >= table[i-1] {
						t.Fatalf("size %d count %d guide %+v: table[%d..%d] = %d, %d not descending",
							size, count, g, i-1, i, table[i-1], table[i])
					}
				}
			}
		}
	}
}

// checkSteps fails unless every entry is in range and no two neighbours are
// equal.
func checkSteps(t *testing.T, size, count int, g settings.ChartGuide, table []int) {
	t.Helper()

	for i, v := range table {
		if v < 1 || v > size/2-1 {
			t.Fatalf("size %d count %d guide %+v: table[%d] = %d outside [1, %d]",
				size, count, g, i, v, size/2-1)
		}
		if i > 0 && v == table[i-1] {
			t.Fatalf("size %d count %d guide %+v: table[%d..%d] = %d, %d",
				size, count, g, i-1, i, table[i-1], v)
		}
	}
}

func TestBuildTableTurnsAtBounds(t *testing.T) {
	// falls to the bottom bin, then rises again before the end
	tests := []settings.ChartGuide{
		{StartFreq: 11792, StartCtrl: 0, MidFreq: 2.95, MidPos: 0.64, EndCtrl: 0, EndFreq: 456},
		{StartFreq: 11792, StartCtrl: 1, MidFreq: 2.95, MidPos: 0.64, EndCtrl: 1, EndFreq: 456},
		{StartFreq: 11792, StartCtrl: 0.5, MidFreq: 2.95, MidPos: 0.64, EndCtrl: 2, EndFreq: 456},
		// rises past the top bin, then falls
		{StartFreq: 0, StartCtrl: 1, MidFreq: 22050, MidPos: 0.5, EndCtrl: 1, EndFreq: 100},
	}

	for _, g := range tests {
		table := BuildTable(nil, 195, 44100, 4096, g)
		if len(table) != 196 {
			t.Fatalf("%d entries; want 196", len(table))
		}
		checkSteps(t, 4096, 195, g, table)
	}
}

func TestBuildTableRandomGuides(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sizes := []int{1024, 2048, 4096, 16384}

	for n := 0; n < 5000; n++ {
		size := sizes[rng.Intn(len(sizes))]
		count := 1 + rng.Intn(MaxBuckets(size))

		g := settings.ChartGuide{
			StartFreq: rng.Float64() * 22050,
			StartCtrl: rng.Float64() * 3,
			MidFreq:   rng.Float64() * 22050,
			MidPos:    rng.Float64(),
			EndCtrl:   rng.Float64() * 3,
			EndFreq:   rng.Float64() * 22050,
		}
		if n%3 == 0 {
			g.MidFreq = rng.Float64() * 10
		}

		checkSteps(t, size, count, g, BuildTable(nil, count, 44100, size, g))
	}
}

func TestBuildTableScenario(t *testing.T) {
	table := BuildTable(nil, 64, 44100, 4096, settings.DefaultGuide())

	if len(table) != 65 {
		t.Fatalf("%d entries; want 65", len(table))
	}

	if table[0] != 1 {
		t.Errorf("table[0] = %d; want 1", table[0])
	}

	want := 1000 / (44100.0 / 4096)
	if got := float64(table[42]); math.Abs(got-want) > 1 {
		t.Errorf("table[42] = %v; want about %.1f", got, want)
	}

	if last := table[64]; last >= 4096/2 {
		t.Errorf("last entry %d not below %d", last, 4096/2)
	}
}

func TestBuildTableBufferChange(t *testing.T) {
	g := settings.DefaultGuide()

	before := BuildTable(nil, 64, 44100, 4096, g)
	after := BuildTable(before, 64, 44100, 2048, g)

	if len(after) != 65 {
		t.Fatalf("%d entries; want 65", len(after))
	}
	for i, v := range after {
		if v >= 1024 {
			t.Fatalf("table[%d] = %d; want below 1024", i, v)
		}
	}
}

func TestBuildTableDegenerate(t *testing.T) {
	g := settings.DefaultGuide()

	if got := BuildTable(nil, 0, 44100, 4096, g); len(got) != 0 {
		t.Errorf("zero buckets gave %v", got)
	}
	if got := BuildTable(nil, 8, 0, 4096, g); len(got) != 0 {
		t.Errorf("zero rate gave %v", got)
	}
}

func TestCurveEndpoints(t *testing.T) {
	g := settings.DefaultGuide()
	raw := Curve(nil, 64, 44100, 4096, g)

	plotFreq := 44100.0 / 4096
	if raw[0] != 0 {
		t.Errorf("raw[0] = %v; want 0", raw[0])
	}
	if math.Abs(raw[42]-1000/plotFreq) > 1e-9 {
		t.Errorf("raw[42] = %v; want %v", raw[42], 1000/plotFreq)
	}
	if math.Abs(raw[64]-12000/plotFreq) > 1e-9 {
		t.Errorf("raw[64] = %v; want %v", raw[64], 12000/plotFreq)
	}
}

func BenchmarkBuildTable(b *testing.B) {
	g := settings.DefaultGuide()
	table := make([]int, 0, 257)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		table = BuildTable(table, 256, 44100, 4096, g)
	}
}
