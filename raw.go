package recidia

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/noriah/recidia/processor"
	"github.com/noriah/recidia/settings"
	"github.com/noriah/recidia/util"
)

const (
	// ScalingWindow in seconds
	ScalingWindow = 1.5
	// PeakThreshold is the threshold to not scale if the peak is less.
	PeakThreshold = 0.001
	// zeroFrames of silence in a row empty the scaling window.
	zeroFrames = 5
)

// FrameSource is anything that publishes frames.
type FrameSource interface {
	Latest() *processor.Frame
}

// RawOutput prints every new frame as one line of numbers, scaled so recent
// peaks sit near 100.
type RawOutput struct {
	settings *settings.Settings
	source   FrameSource
	out      *bufio.Writer

	window    *util.MovingWindow
	trackZero int
	last      *processor.Frame
	line      []byte
}

// NewRawOutput writes frames from src to w.
func NewRawOutput(s *settings.Settings, src FrameSource, w io.Writer) *RawOutput {
	size := int(ScalingWindow * float64(s.FPS.Max()))

	return &RawOutput{
		settings: s,
		source:   src,
		out:      bufio.NewWriter(w),
		window:   util.NewMovingWindow(size),
	}
}

// Run writes at the FPS setting until ctx is done or a write fails.
func (r *RawOutput) Run(ctx context.Context) error {
	fps := r.settings.FPS.Get()
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := r.Write(r.source.Latest()); err != nil {
			return err
		}

		if now := r.settings.FPS.Get(); now != fps {
			fps = now
			ticker.Reset(time.Second / time.Duration(fps))
		}
	}
}

// Write prints frame unless it is empty or was already printed.
func (r *RawOutput) Write(frame *processor.Frame) error {
	if frame == nil || frame == r.last || len(frame.Values) == 0 {
		return nil
	}
	r.last = frame

	scale := 100.0 / r.scale(frame.Values)

	r.line = r.line[:0]
	for i, v := range frame.Values {
		if i > 0 {
			r.line = append(r.line, ' ')
		}
		r.line = strconv.AppendFloat(r.line, v*scale, 'f', 3, 64)
	}
	r.line = append(r.line, '\n')

	if _, err := r.out.Write(r.line); err != nil {
		return errors.Wrap(err, "failed to write frame")
	}
	return errors.Wrap(r.out.Flush(), "failed to flush frame")
}

// scale tracks the frame peak and returns mean+2sd of recent peaks, at
// least 1.
func (r *RawOutput) scale(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	if peak >= PeakThreshold {
		r.trackZero = 0
		r.window.Update(peak)
	} else if r.trackZero++; r.trackZero == zeroFrames {
		r.window.Reset()
	}

	mean, sd := r.window.Stats()
	if t := mean + 2*sd; t > 1 {
		return t
	}
	return 1
}
