package settings

// ChartGuide shapes the frequency axis as two quadratic Bezier segments.
//
// The first segment runs from StartFreq to MidFreq over the first MidPos
// fraction of the buckets, pulled by StartFreq*StartCtrl. The second runs
// from MidFreq to EndFreq, pulled by MidFreq*EndCtrl.
type ChartGuide struct {
	StartFreq float64
	StartCtrl float64
	MidFreq   float64
	MidPos    float64
	EndCtrl   float64
	EndFreq   float64
}

// DefaultGuide gives speech and music bands most of the width.
func DefaultGuide() ChartGuide {
	return ChartGuide{
		StartFreq: 0,
		StartCtrl: 1,
		MidFreq:   1000,
		MidPos:    0.66,
		EndCtrl:   1,
		EndFreq:   12000,
	}
}

// Clamp holds every value to [0, nyquist] and MidPos to [0, 1].
func (g ChartGuide) Clamp(nyquist float64) ChartGuide {
	fit := func(v, hi float64) float64 {
		switch {
		case v != v, v < 0:
			return 0
		case v > hi:
			return hi
		}
		return v
	}

	g.StartFreq = fit(g.StartFreq, nyquist)
	g.StartCtrl = fit(g.StartCtrl, nyquist)
	g.MidFreq = fit(g.MidFreq, nyquist)
	g.MidPos = fit(g.MidPos, 1)
	g.EndCtrl = fit(g.EndCtrl, nyquist)
	g.EndFreq = fit(g.EndFreq, nyquist)
	return g
}
