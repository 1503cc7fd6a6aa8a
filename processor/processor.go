// Package processor runs the pipeline loop: it reads the capture ring,
// transforms and buckets the spectrum, smooths it and publishes one frame per
// cycle.
package processor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/noriah/recidia/dsp"
	"github.com/noriah/recidia/dsp/window"
	"github.com/noriah/recidia/fft"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/settings"
)

// Frame is one published spectrum. Frames are never modified after they are
// published.
type Frame struct {
	Values  []float64     // one magnitude per bucket
	Time    time.Time     // when the samples were read
	Elapsed time.Duration // from the read to publication
}

// Config is the pipeline's fixed wiring.
type Config struct {
	Settings *settings.Settings // live tunables
	Ring     *input.Ring        // capture buffer to read
	Engine   fft.Engine         // transform implementation
	Window   window.Function    // applied to samples before the transform, may be nil
}

// Processor is the pipeline loop. Only Latest is safe to call from other
// goroutines while Run is going.
type Processor struct {
	settings *settings.Settings
	ring     *input.Ring
	engine   fft.Engine
	window   window.Function

	// cached view of the settings the derived state was built for
	bufferSize int
	buckets    int
	guide      settings.ChartGuide

	plan     *fft.Plan
	spectrum []float64
	table    []int
	pooled   []float64
	smoother dsp.Smoother
	interp   *dsp.Interpolator

	frame  atomic.Pointer[Frame]
	cycles atomic.Uint64
}

// New builds a pipeline. Derived state is built on the first cycle.
func New(cfg Config) *Processor {
	if cfg.Settings == nil {
		cfg.Settings = settings.New(settings.DefaultConfig())
	}
	if cfg.Ring == nil {
		cfg.Ring = input.NewRing(cfg.Settings.BufferSize.Max())
	}

	p := &Processor{
		settings: cfg.Settings,
		ring:     cfg.Ring,
		engine:   cfg.Engine,
		window:   cfg.Window,
		buckets:  -1,
		interp:   dsp.NewInterpolator(cfg.Settings.Interp.Max(), cfg.Settings.Buckets.Max()),
	}

	p.frame.Store(&Frame{})

	return p
}

// Latest returns the most recently published frame. It never returns nil.
func (p *Processor) Latest() *Frame {
	return p.frame.Load()
}

// Cycles returns how many frames were published.
func (p *Processor) Cycles() uint64 {
	return p.cycles.Load()
}

// Table returns the bucket boundaries in use. It must not be called while
// Run is going.
func (p *Processor) Table() []int {
	return p.table
}

// Run cycles until ctx is cancelled, sleeping out the rest of the poll
// interval after each cycle.
func (p *Processor) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		begin := time.Now()

		snap := p.settings.Snapshot()
		p.Process(snap)

		wait := time.Duration(snap.PollRate)*time.Millisecond - time.Since(begin)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Process runs one cycle against snap and publishes the result.
func (p *Processor) Process(snap settings.Snapshot) *Frame {
	buckets := p.refresh(snap)

	start := time.Now()

	p.ring.Latest(p.plan.Input())
	p.plan.Execute()
	p.spectrum = p.plan.Magnitudes(p.spectrum)

	p.pooled = dsp.Pool(p.pooled[:buckets], p.spectrum, p.table)

	if p.smoother.Window() > 0 {
		p.smoother.Apply(p.pooled, snap.PositiveOnly)
	}

	p.interp.Apply(p.pooled, snap.Interp)

	frame := &Frame{
		Values: append(make([]float64, 0, len(p.pooled)), p.pooled...),
		Time:   start,
	}
	frame.Elapsed = time.Since(start)

	p.frame.Store(frame)
	p.cycles.Add(1)

	return frame
}

// refresh rebuilds whatever snap makes stale and returns the bucket count to
// use this cycle.
func (p *Processor) refresh(snap settings.Snapshot) int {
	rebuildTable := false

	if p.plan == nil || snap.BufferSize != p.bufferSize {
		p.bufferSize = snap.BufferSize
		p.plan = fft.NewPlan(p.bufferSize, p.engine, p.window)
		p.spectrum = make([]float64, p.plan.Bins())
		rebuildTable = true
	}

	buckets := snap.Buckets
	if limit := dsp.MaxBuckets(p.bufferSize); buckets > limit {
		buckets = limit
	}

	if buckets != p.buckets || snap.Guide != p.guide {
		p.buckets = buckets
		p.guide = snap.Guide
		rebuildTable = true
	}

	if rebuildTable {
		p.table = dsp.BuildTable(p.table, buckets, snap.SampleRate, p.bufferSize, snap.Guide)
		if cap(p.pooled) < buckets {
			p.pooled = make([]float64, buckets)
		}
	}

	p.smoother.Configure(snap.SavgolWindow, snap.SavgolFixed, snap.SavgolOrder, buckets)

	return buckets
}
