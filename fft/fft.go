// Package fft provides the spectral transform: a size-keyed real FFT plan
// and magnitude extraction.
package fft

import (
	"math/cmplx"

	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/noriah/recidia/dsp/window"
)

// Engine names a transform implementation.
type Engine string

const (
	EngineGonum Engine = "gonum"
	EngineGoDSP Engine = "go-dsp"
)

// ParseEngine checks an engine name. Empty means gonum.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case "", EngineGonum:
		return EngineGonum, nil
	case EngineGoDSP:
		return EngineGoDSP, nil
	}
	return "", errors.Errorf("unknown fft engine %q", name)
}

// Transformer computes the non-redundant half of a real FFT.
type Transformer interface {
	Coefficients(dst []complex128, seq []float64) []complex128
}

var _ Transformer = (*fourier.FFT)(nil)

// goDSP adapts github.com/mjibson/go-dsp, which allocates its result.
type goDSP struct{}

func (goDSP) Coefficients(dst []complex128, seq []float64) []complex128 {
	out := dspfft.FFTReal(seq)
	return append(dst[:0], out[:len(seq)/2+1]...)
}

// Plan holds a transform for one input size. Sizes cannot change; build a
// new plan instead.
type Plan struct {
	size   int
	input  []float64
	output []complex128
	window window.Function
	fft    Transformer
}

// NewPlan builds a plan for size samples. wnd may be nil.
func NewPlan(size int, engine Engine, wnd window.Function) *Plan {
	p := &Plan{
		size:   size,
		input:  make([]float64, size),
		output: make([]complex128, size/2+1),
		window: wnd,
	}

	switch engine {
	case EngineGoDSP:
		p.fft = goDSP{}
	default:
		p.fft = fourier.NewFFT(size)
	}

	return p
}

// Input is the sample buffer the next Execute reads.
func (p *Plan) Input() []float64 {
	return p.input
}

// Bins is the length of the magnitude spectrum: size/2 - 1.
func (p *Plan) Bins() int {
	return Bins(p.size)
}

// Execute windows the input, if a window is set, and runs the transform.
func (p *Plan) Execute() {
	if p.window != nil {
		p.window(p.input)
	}
	p.output = p.fft.Coefficients(p.output, p.input)
}

// Magnitudes writes |X[i]|/size for bins 1..size/2-1 into dst[i-1]. The DC
// bin is dropped. dst must hold Bins() values; the filled slice is returned.
func (p *Plan) Magnitudes(dst []float64) []float64 {
	return Magnitudes(dst, p.output, p.size)
}

// Bins returns the magnitude spectrum length for an input size.
func Bins(size int) int {
	if size < 4 {
		return 0
	}
	return size/2 - 1
}

// Magnitudes normalizes coefficients of a size-sample transform.
func Magnitudes(dst []float64, coeffs []complex128, size int) []float64 {
	n := Bins(size)
	if n > len(dst) {
		n = len(dst)
	}
	if n > len(coeffs)-1 {
		n = len(coeffs) - 1
	}
	if n < 0 {
		n = 0
	}

	scale := 1 / float64(size)
	for i := 1; i <= n; i++ {
		dst[i-1] = cmplx.Abs(coeffs[i]) * scale
	}

	return dst[:n]
}
