package recidia

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/noriah/recidia/processor"
	"github.com/noriah/recidia/settings"
)

type frameSource struct {
	frame *processor.Frame
}

func (f *frameSource) Latest() *processor.Frame {
	return f.frame
}

func TestRawOutputScales(t *testing.T) {
	var (
		buf bytes.Buffer
		raw = NewRawOutput(settings.New(settings.DefaultConfig()), &frameSource{}, &buf)
	)

	frame := &processor.Frame{Values: []float64{0, 25, 50}}
	if err := raw.Write(frame); err != nil {
		t.Fatal(err)
	}

	// one peak: mean 50, no deviation
	if got := buf.String(); got != "0.000 50.000 100.000\n" {
		t.Errorf("line = %q", got)
	}

	// the same frame is not printed twice
	if err := raw.Write(frame); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("printed %d lines; want 1", n)
	}
}

func TestRawOutputQuietFrames(t *testing.T) {
	var (
		buf bytes.Buffer
		raw = NewRawOutput(settings.New(settings.DefaultConfig()), &frameSource{}, &buf)
	)

	raw.Write(&processor.Frame{Values: []float64{200}})
	for i := 0; i < zeroFrames; i++ {
		raw.Write(&processor.Frame{Values: []float64{0.0001}})
	}

	if raw.window.Len() != 0 {
		t.Errorf("window holds %d peaks after silence", raw.window.Len())
	}

	// below the threshold values are printed unscaled against 1
	buf.Reset()
	raw.Write(&processor.Frame{Values: []float64{0.0005}})
	if got := buf.String(); got != "0.050\n" {
		t.Errorf("line = %q", got)
	}

	buf.Reset()
	raw.Write(&processor.Frame{})
	if buf.Len() != 0 {
		t.Errorf("empty frame printed %q", buf.String())
	}
}

func TestRawOutputRun(t *testing.T) {
	var (
		buf bytes.Buffer
		src = &frameSource{frame: &processor.Frame{Values: []float64{1, 2}}}
		raw = NewRawOutput(settings.New(settings.DefaultConfig()), src, &buf)
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := raw.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "50.000 100.000\n" {
		t.Errorf("output = %q", got)
	}
}
