package settings

import (
	"math"
	"math/bits"
	"sync/atomic"
)

// Int is a bounded integer tunable. Every write is clamped to [Min, Max].
// The zero value holds zero with a zero range; use init before sharing.
type Int struct {
	min, max int
	val      atomic.Int64
}

func (i *Int) init(min, max, def int) {
	if max < min {
		max = min
	}
	i.min, i.max = min, max
	i.Set(def)
}

func (i *Int) clamp(v int) int {
	switch {
	case v < i.min:
		return i.min
	case v > i.max:
		return i.max
	}
	return v
}

// Get returns the current value.
func (i *Int) Get() int { return int(i.val.Load()) }

// Min returns the lower bound.
func (i *Int) Min() int { return i.min }

// Max returns the upper bound.
func (i *Int) Max() int { return i.max }

// Set stores v clamped to the bounds and returns what was stored.
func (i *Int) Set(v int) int {
	v = i.clamp(v)
	i.val.Store(int64(v))
	return v
}

// Add nudges the value by delta, clamped.
func (i *Int) Add(delta int) int {
	for {
		old := i.val.Load()
		v := i.clamp(int(old) + delta)
		if i.val.CompareAndSwap(old, int64(v)) {
			return v
		}
	}
}

// Float is a bounded floating point tunable.
type Float struct {
	min, max float64
	val      atomic.Uint64
}

func (f *Float) init(min, max, def float64) {
	if max < min {
		max = min
	}
	f.min, f.max = min, max
	f.Set(def)
}

func (f *Float) clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < f.min:
		return f.min
	case v > f.max:
		return f.max
	}
	return v
}

// Get returns the current value.
func (f *Float) Get() float64 { return math.Float64frombits(f.val.Load()) }

// Min returns the lower bound.
func (f *Float) Min() float64 { return f.min }

// Max returns the upper bound.
func (f *Float) Max() float64 { return f.max }

// Set stores v clamped to the bounds and returns what was stored.
func (f *Float) Set(v float64) float64 {
	v = f.clamp(v)
	f.val.Store(math.Float64bits(v))
	return v
}

// Add nudges the value by delta, clamped.
func (f *Float) Add(delta float64) float64 {
	return f.update(func(v float64) float64 { return v + delta })
}

// Mul scales the value by factor, clamped.
func (f *Float) Mul(factor float64) float64 {
	return f.update(func(v float64) float64 { return v * factor })
}

func (f *Float) update(fn func(float64) float64) float64 {
	for {
		old := f.val.Load()
		v := f.clamp(fn(math.Float64frombits(old)))
		if f.val.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}

// Pow2 is an Int that only ever holds powers of two.
type Pow2 struct {
	Int
}

func (p *Pow2) init(min, max, def int) {
	if min < 1 {
		min = 1
	}
	p.Int.init(CeilPow2(min), FloorPow2(max), 0)
	p.Set(def)
}

func (p *Pow2) round(v int) int {
	v = FloorPow2(p.clamp(v))
	if v < p.min {
		v = p.min
	}
	return v
}

// Set clamps v to the bounds, rounds it down to a power of two and stores it.
func (p *Pow2) Set(v int) int {
	v = p.round(v)
	p.val.Store(int64(v))
	return v
}

// Add nudges the value by delta, clamped and rounded down to a power of two.
func (p *Pow2) Add(delta int) int {
	for {
		old := p.val.Load()
		v := p.round(int(old) + delta)
		if p.val.CompareAndSwap(old, int64(v)) {
			return v
		}
	}
}

// Double moves to the next power of two, clamped.
func (p *Pow2) Double() int { return p.scale(true) }

// Halve moves to the previous power of two, clamped.
func (p *Pow2) Halve() int { return p.scale(false) }

func (p *Pow2) scale(up bool) int {
	for {
		old := p.val.Load()
		v := int(old) / 2
		if up {
			v = int(old) * 2
		}
		v = p.round(v)
		if p.val.CompareAndSwap(old, int64(v)) {
			return v
		}
	}
}

// IsPow2 reports whether v is a positive power of two.
func IsPow2(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// FloorPow2 returns the largest power of two not above v, or 1 for v < 1.
func FloorPow2(v int) int {
	if v < 1 {
		return 1
	}
	return 1 << (bits.Len(uint(v)) - 1)
}

// CeilPow2 returns the smallest power of two not below v, or 1 for v < 1.
func CeilPow2(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}
