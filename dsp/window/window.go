// Package window provides Window Functions for signal analysis, by name.
//
// See https://wikipedia.org/wiki/Window_function
package window

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	gwindow "gonum.org/v1/gonum/dsp/window"
)

// Function applies a window to buf in place.
type Function func(buf []float64)

func wrap(fn func([]float64) []float64) Function {
	return func(buf []float64) { fn(buf) }
}

var functions = map[string]Function{
	"hann":             wrap(gwindow.Hann),
	"hamming":          wrap(gwindow.Hamming),
	"blackman":         wrap(gwindow.Blackman),
	"blackman-harris":  wrap(gwindow.BlackmanHarris),
	"blackman-nuttall": wrap(gwindow.BlackmanNuttall),
	"nuttall":          wrap(gwindow.Nuttall),
	"flat-top":         wrap(gwindow.FlatTop),
	"bartlett-hann":    wrap(gwindow.BartlettHann),
	"lanczos":          wrap(gwindow.Lanczos),
	"sine":             wrap(gwindow.Sine),
	"triangular":       wrap(gwindow.Triangular),
}

// Lookup returns the named window. "none", "rectangular" and the empty name
// give nil, meaning the samples are used as they are.
func Lookup(name string) (Function, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "none", "rectangular":
		return nil, nil
	}

	fn, ok := functions[name]
	if !ok {
		return nil, errors.Errorf("unknown window %q; known: %s", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names lists the known windows.
func Names() []string {
	names := make([]string, 0, len(functions)+1)
	names = append(names, "none")
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}
