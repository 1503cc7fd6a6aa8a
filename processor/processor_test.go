package processor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/noriah/recidia/fft"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/settings"
)

func sine(ring *input.Ring, freq, rate float64, n int) {
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = int16(10000 * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	ring.Write(buf)
}

func newTestProcessor(t testing.TB) (*Processor, *settings.Settings, *input.Ring) {
	t.Helper()

	s := settings.New(settings.DefaultConfig())
	ring := input.NewRing(s.BufferSize.Max())

	p := New(Config{
		Settings: s,
		Ring:     ring,
		Engine:   fft.EngineGonum,
	})

	return p, s, ring
}

func TestProcessPublishes(t *testing.T) {
	p, s, ring := newTestProcessor(t)
	sine(ring, 1000, 44100, 16384)

	if f := p.Latest(); f == nil || len(f.Values) != 0 {
		t.Fatalf("initial frame = %+v", f)
	}

	s.Interp.Set(0)
	frame := p.Process(s.Snapshot())

	if len(frame.Values) != 64 {
		t.Fatalf("%d buckets; want 64", len(frame.Values))
	}
	if p.Latest() != frame {
		t.Error("frame not published")
	}
	if p.Cycles() != 1 {
		t.Errorf("cycles = %d", p.Cycles())
	}

	// the 1kHz tone lands at the chart guide's mid point
	peak := 0
	for i, v := range frame.Values {
		if v > frame.Values[peak] {
			peak = i
		}
	}
	if peak < 39 || peak > 45 {
		t.Errorf("peak bucket %d; want near 42", peak)
	}
}

func TestProcessSilence(t *testing.T) {
	p, s, _ := newTestProcessor(t)

	frame := p.Process(s.Snapshot())
	for i, v := range frame.Values {
		if v != 0 {
			t.Fatalf("bucket %d = %v on silence", i, v)
		}
	}
}

func TestBufferSizeChange(t *testing.T) {
	p, s, ring := newTestProcessor(t)
	sine(ring, 440, 44100, 8192)

	s.BufferSize.Set(4096)
	p.Process(s.Snapshot())

	s.BufferSize.Set(2048)
	frame := p.Process(s.Snapshot())

	if len(frame.Values) != 64 {
		t.Fatalf("%d buckets; want 64", len(frame.Values))
	}
	for i, v := range p.Table() {
		if v >= 1024 {
			t.Fatalf("table[%d] = %d; want below 1024", i, v)
		}
	}
}

func TestBucketsCapped(t *testing.T) {
	p, s, _ := newTestProcessor(t)

	s.BufferSize.Set(1024)
	s.Buckets.Set(1024)

	frame := p.Process(s.Snapshot())
	if want := 1024/2 - 2; len(frame.Values) != want {
		t.Errorf("%d buckets; want %d", len(frame.Values), want)
	}
}

func TestLiveChanges(t *testing.T) {
	p, s, ring := newTestProcessor(t)
	sine(ring, 2000, 44100, 16384)

	steps := []func(){
		func() { s.Buckets.Set(0) },
		func() { s.Buckets.Set(200) },
		func() { s.SavgolFixed.Set(9) },
		func() { s.SavgolWindow.Set(0); s.SavgolFixed.Set(0) },
		func() { s.Interp.Set(32) },
		func() { s.BufferSize.Set(16384) },
		func() { s.SetGuide(settings.ChartGuide{StartFreq: 12000, StartCtrl: 1, MidFreq: 1000, MidPos: 0.5, EndCtrl: 1}) },
		func() { s.Interp.Set(1) },
	}

	for n, step := range steps {
		step()
		snap := s.Snapshot()
		frame := p.Process(snap)

		if len(frame.Values) != snap.Buckets {
			t.Errorf("step %d: %d buckets; want %d", n, len(frame.Values), snap.Buckets)
		}
	}
}

func TestRunCancel(t *testing.T) {
	p, s, _ := newTestProcessor(t)
	s.PollRate.Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for p.Cycles() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("pipeline did not cycle")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func BenchmarkProcess(b *testing.B) {
	p, s, ring := newTestProcessor(b)
	sine(ring, 1000, 44100, 16384)
	snap := s.Snapshot()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		p.Process(snap)
	}
}
