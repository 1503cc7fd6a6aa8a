// Package settings holds the live, bounded tunables shared by the capture,
// pipeline and renderer loops.
//
// Writers are input handlers and config loading. The pipeline takes one
// Snapshot per cycle, renderers read single fields. No locks are taken; each
// scalar is an atomic and the chart guide is swapped whole.
package settings

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// DrawMode is how the renderer draws a bucket.
type DrawMode int32

const (
	DrawBars DrawMode = iota
	DrawPoints
)

func (d DrawMode) String() string {
	switch d {
	case DrawBars:
		return "bars"
	case DrawPoints:
		return "points"
	default:
		return fmt.Sprintf("DrawMode(%d)", int32(d))
	}
}

// ParseDrawMode reads a draw mode name.
func ParseDrawMode(s string) (DrawMode, error) {
	switch strings.ToLower(s) {
	case "", "bars":
		return DrawBars, nil
	case "points":
		return DrawPoints, nil
	}
	return DrawBars, errors.Errorf("unknown draw mode %q", s)
}

// Limit is the range and starting value of one tunable.
type Limit struct {
	Min     float64
	Max     float64
	Default float64
}

func (l Limit) ints() (int, int, int) {
	return int(l.Min), int(l.Max), int(l.Default)
}

// Limits is the set of ranges every tunable is held to.
type Limits struct {
	BufferSize    Limit // samples, powers of two
	Interp        Limit // frames
	SavgolWindow  Limit // fraction of the bucket count
	SavgolFixed   Limit // buckets, 0 uses SavgolWindow
	SavgolOrder   Limit
	PollRate      Limit // milliseconds
	FPS           Limit
	HeightCap     Limit
	PlotWidth     Limit // cells
	GapWidth      Limit // cells
	MinPlotHeight Limit // eighths of a cell
	Buckets       Limit
}

// DefaultLimits returns the stock ranges.
func DefaultLimits() Limits {
	return Limits{
		BufferSize:    Limit{1024, 16384, 4096},
		Interp:        Limit{0, 32, 4},
		SavgolWindow:  Limit{0, 1, 0.05},
		SavgolFixed:   Limit{0, 1024, 0},
		SavgolOrder:   Limit{1, 8, 3},
		PollRate:      Limit{1, 100, 10},
		FPS:           Limit{1, 240, 60},
		HeightCap:     Limit{1, 100000, 1000},
		PlotWidth:     Limit{1, 32, 1},
		GapWidth:      Limit{0, 32, 1},
		MinPlotHeight: Limit{0, 8, 0},
		Buckets:       Limit{0, 1024, 64},
	}
}

// Config is the one-time initial state handed to New.
type Config struct {
	SampleRate   float64
	Limits       Limits
	Guide        ChartGuide
	PositiveOnly bool
	DrawMode     DrawMode
	Stats        bool
}

// DefaultConfig returns a Config for 44.1kHz capture with the stock limits.
func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		Limits:       DefaultLimits(),
		Guide:        DefaultGuide(),
		PositiveOnly: true,
	}
}

// Settings is the process-wide tunable store. It must not be copied.
type Settings struct {
	sampleRate float64

	BufferSize    Pow2
	Interp        Int
	SavgolWindow  Float
	SavgolFixed   Int
	SavgolOrder   Int
	PollRate      Int
	FPS           Int
	HeightCap     Float
	PlotWidth     Int
	GapWidth      Int
	MinPlotHeight Int
	Buckets       Int

	PositiveOnly atomic.Bool
	Stats        atomic.Bool

	drawMode atomic.Int32
	guide    atomic.Pointer[ChartGuide]
}

// New builds a Settings from cfg. Defaults outside their range are clamped.
func New(cfg Config) *Settings {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}

	var (
		s = &Settings{sampleRate: cfg.SampleRate}
		l = cfg.Limits
	)

	s.BufferSize.init(l.BufferSize.ints())
	s.Interp.init(l.Interp.ints())
	s.SavgolWindow.init(l.SavgolWindow.Min, l.SavgolWindow.Max, l.SavgolWindow.Default)
	s.SavgolFixed.init(l.SavgolFixed.ints())
	s.SavgolOrder.init(l.SavgolOrder.ints())
	s.PollRate.init(l.PollRate.ints())
	s.FPS.init(l.FPS.ints())
	s.HeightCap.init(l.HeightCap.Min, l.HeightCap.Max, l.HeightCap.Default)
	s.PlotWidth.init(l.PlotWidth.ints())
	s.GapWidth.init(l.GapWidth.ints())
	s.MinPlotHeight.init(l.MinPlotHeight.ints())
	s.Buckets.init(l.Buckets.ints())

	s.PositiveOnly.Store(cfg.PositiveOnly)
	s.Stats.Store(cfg.Stats)
	s.SetDrawMode(cfg.DrawMode)
	s.SetGuide(cfg.Guide)

	return s
}

// SampleRate is fixed for the life of the process.
func (s *Settings) SampleRate() float64 {
	return s.sampleRate
}

// Nyquist is half the sample rate.
func (s *Settings) Nyquist() float64 {
	return s.sampleRate / 2
}

// Guide returns the current chart guide.
func (s *Settings) Guide() ChartGuide {
	return *s.guide.Load()
}

// SetGuide stores g, clamped to [0, Nyquist] (mid position to [0, 1]).
func (s *Settings) SetGuide(g ChartGuide) ChartGuide {
	g = g.Clamp(s.Nyquist())
	s.guide.Store(&g)
	return g
}

// DrawMode returns the current draw mode.
func (s *Settings) DrawMode() DrawMode {
	return DrawMode(s.drawMode.Load())
}

// SetDrawMode stores d, falling back to bars for unknown modes.
func (s *Settings) SetDrawMode(d DrawMode) {
	if d != DrawPoints {
		d = DrawBars
	}
	s.drawMode.Store(int32(d))
}

// SetSurfaceWidth derives the bucket count from a drawable width in cells.
func (s *Settings) SetSurfaceWidth(width int) int {
	slot := s.PlotWidth.Get() + s.GapWidth.Get()
	if slot < 1 {
		slot = 1
	}
	return s.Buckets.Set(width / slot)
}

// Snapshot is a plain copy of every tunable, taken once per pipeline cycle.
type Snapshot struct {
	SampleRate    float64
	BufferSize    int
	Interp        int
	SavgolWindow  float64
	SavgolFixed   int
	SavgolOrder   int
	PositiveOnly  bool
	PollRate      int
	FPS           int
	HeightCap     float64
	PlotWidth     int
	GapWidth      int
	MinPlotHeight int
	Buckets       int
	Stats         bool
	DrawMode      DrawMode
	Guide         ChartGuide
}

// Snapshot reads every tunable once.
func (s *Settings) Snapshot() Snapshot {
	return Snapshot{
		SampleRate:    s.sampleRate,
		BufferSize:    s.BufferSize.Get(),
		Interp:        s.Interp.Get(),
		SavgolWindow:  s.SavgolWindow.Get(),
		SavgolFixed:   s.SavgolFixed.Get(),
		SavgolOrder:   s.SavgolOrder.Get(),
		PositiveOnly:  s.PositiveOnly.Load(),
		PollRate:      s.PollRate.Get(),
		FPS:           s.FPS.Get(),
		HeightCap:     s.HeightCap.Get(),
		PlotWidth:     s.PlotWidth.Get(),
		GapWidth:      s.GapWidth.Get(),
		MinPlotHeight: s.MinPlotHeight.Get(),
		Buckets:       s.Buckets.Get(),
		Stats:         s.Stats.Load(),
		DrawMode:      s.DrawMode(),
		Guide:         s.Guide(),
	}
}
