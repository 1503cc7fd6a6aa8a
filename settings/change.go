package settings

import "fmt"

// Change is one key-bound nudge of a tunable.
type Change int

const (
	HeightCapDecrease Change = iota
	HeightCapIncrease
	PlotWidthDecrease
	PlotWidthIncrease
	GapWidthDecrease
	GapWidthIncrease
	SavgolWindowDecrease
	SavgolWindowIncrease
	InterpDecrease
	InterpIncrease
	BufferSizeDecrease
	BufferSizeIncrease
	FPSDecrease
	FPSIncrease
	PollRateDecrease
	PollRateIncrease
	StatsToggle
	DrawModeToggle

	changeCount
)

const (
	heightCapStep       = 1.5
	savgolRelativeStep  = 0.01
	savgolFixedStep     = 2
	savgolPercentFactor = 100
)

type changeEntry struct {
	name     string
	apply    func(*Settings)
	describe func(*Settings) string
}

var changes = [changeCount]changeEntry{
	HeightCapDecrease:    {"height-cap-decrease", func(s *Settings) { s.HeightCap.Mul(1 / heightCapStep) }, describeHeightCap},
	HeightCapIncrease:    {"height-cap-increase", func(s *Settings) { s.HeightCap.Mul(heightCapStep) }, describeHeightCap},
	PlotWidthDecrease:    {"plot-width-decrease", func(s *Settings) { s.PlotWidth.Add(-1) }, describePlotWidth},
	PlotWidthIncrease:    {"plot-width-increase", func(s *Settings) { s.PlotWidth.Add(1) }, describePlotWidth},
	GapWidthDecrease:     {"gap-width-decrease", func(s *Settings) { s.GapWidth.Add(-1) }, describeGapWidth},
	GapWidthIncrease:     {"gap-width-increase", func(s *Settings) { s.GapWidth.Add(1) }, describeGapWidth},
	SavgolWindowDecrease: {"savgol-window-decrease", func(s *Settings) { s.nudgeSavgol(-1) }, describeSavgol},
	SavgolWindowIncrease: {"savgol-window-increase", func(s *Settings) { s.nudgeSavgol(1) }, describeSavgol},
	InterpDecrease:       {"interp-decrease", func(s *Settings) { s.Interp.Add(-1) }, describeInterp},
	InterpIncrease:       {"interp-increase", func(s *Settings) { s.Interp.Add(1) }, describeInterp},
	BufferSizeDecrease:   {"buffer-size-decrease", func(s *Settings) { s.BufferSize.Halve() }, describeBufferSize},
	BufferSizeIncrease:   {"buffer-size-increase", func(s *Settings) { s.BufferSize.Double() }, describeBufferSize},
	FPSDecrease:          {"fps-decrease", func(s *Settings) { s.FPS.Add(-1) }, describeFPS},
	FPSIncrease:          {"fps-increase", func(s *Settings) { s.FPS.Add(1) }, describeFPS},
	PollRateDecrease:     {"poll-rate-decrease", func(s *Settings) { s.PollRate.Add(-1) }, describePollRate},
	PollRateIncrease:     {"poll-rate-increase", func(s *Settings) { s.PollRate.Add(1) }, describePollRate},
	StatsToggle:          {"stats-toggle", func(s *Settings) { toggle(&s.Stats) }, describeStats},
	DrawModeToggle:       {"draw-mode-toggle", (*Settings).toggleDrawMode, describeDrawMode},
}

func (c Change) valid() bool {
	return c >= 0 && c < changeCount
}

func (c Change) String() string {
	if !c.valid() {
		return fmt.Sprintf("Change(%d)", int(c))
	}
	return changes[c].name
}

// Apply performs c. It reports false for an unknown change.
func (s *Settings) Apply(c Change) bool {
	if !c.valid() {
		return false
	}
	changes[c].apply(s)
	return true
}

// Describe returns a short label with the value c touches, for display after
// the change is applied.
func (s *Settings) Describe(c Change) string {
	if !c.valid() {
		return ""
	}
	return changes[c].describe(s)
}

// nudgeSavgol steps the fixed window when one is set, otherwise the relative
// window.
func (s *Settings) nudgeSavgol(dir int) {
	if s.SavgolFixed.Get() > 0 {
		s.SavgolFixed.Add(dir * savgolFixedStep)
		return
	}
	s.SavgolWindow.Add(float64(dir) * savgolRelativeStep)
}

func (s *Settings) toggleDrawMode() {
	if s.DrawMode() == DrawBars {
		s.SetDrawMode(DrawPoints)
		return
	}
	s.SetDrawMode(DrawBars)
}

type boolValue interface {
	Load() bool
	CompareAndSwap(old, new bool) bool
}

func toggle(b boolValue) {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return
		}
	}
}

func describeHeightCap(s *Settings) string {
	return fmt.Sprintf("Height Cap %d", int(s.HeightCap.Get()))
}

func describePlotWidth(s *Settings) string {
	return fmt.Sprintf("Plot Width %d", s.PlotWidth.Get())
}

func describeGapWidth(s *Settings) string {
	return fmt.Sprintf("Gap Width %d", s.GapWidth.Get())
}

func describeSavgol(s *Settings) string {
	if v := s.SavgolFixed.Get(); v > 0 {
		return fmt.Sprintf("Savgol Window Size %d", v)
	}
	return fmt.Sprintf("Savgol Window Size %.0f%%", s.SavgolWindow.Get()*savgolPercentFactor)
}

func describeInterp(s *Settings) string {
	return fmt.Sprintf("Interpolation %dx", s.Interp.Get())
}

func describeBufferSize(s *Settings) string {
	return fmt.Sprintf("Audio Buffer Size %d", s.BufferSize.Get())
}

func describeFPS(s *Settings) string {
	return fmt.Sprintf("FPS %d", s.FPS.Get())
}

func describePollRate(s *Settings) string {
	return fmt.Sprintf("Poll Rate %dms", s.PollRate.Get())
}

func describeStats(s *Settings) string {
	if s.Stats.Load() {
		return "Stats On"
	}
	return "Stats Off"
}

func describeDrawMode(s *Settings) string {
	return "Draw Mode " + s.DrawMode().String()
}
