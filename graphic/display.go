// Package graphic draws published frames in the terminal and turns key
// presses into setting changes.
package graphic

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"github.com/noriah/recidia/internal/log"
	"github.com/noriah/recidia/processor"
	"github.com/noriah/recidia/settings"
)

// noteDuration is how long a setting change stays on screen.
const noteDuration = 2 * time.Second

// Source gives the newest frame to draw.
type Source interface {
	Latest() *processor.Frame
}

type note struct {
	text  string
	until time.Time
}

// Display handles drawing our visualizer.
type Display struct {
	settings *settings.Settings
	source   Source
	styles   Styles
	canvas   canvas

	note atomic.Pointer[note]

	restore func()

	// draw loop only
	frames   int
	lastDraw time.Time
	latency  time.Duration
	fps      float64
}

// New sets up a display for src. Init must be called before Start.
func New(s *settings.Settings, src Source, styles Styles) *Display {
	return &Display{
		settings: s,
		source:   src,
		styles:   styles,
		canvas:   termboxCanvas{},
	}
}

// Init takes over the terminal.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}
	d.restore = restore

	if err := termbox.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to init termbox")
	}

	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.HideCursor()

	width, _ := termbox.Size()
	d.settings.SetSurfaceWidth(width)

	return nil
}

// Close will stop display and clean up the terminal.
func (d *Display) Close() error {
	termbox.Interrupt()
	termbox.Close()

	if d.restore != nil {
		d.restore()
	}

	return nil
}

// Start starts the input poller. The returned context is cancelled when the
// user quits.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go d.eventPoller(dispCtx, dispCancel)
	return dispCtx
}

func (d *Display) eventPoller(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		ev := termbox.PollEvent()

		select {
		case <-ctx.Done():
			return
		default:
		}

		if ev.Type == termbox.EventResize {
			d.settings.SetSurfaceWidth(ev.Width)
			continue
		}

		if !d.handle(actionFor(ev)) {
			if ev.Type == termbox.EventError {
				log.Errorf("terminal input: %v", ev.Err)
			}
			return
		}
	}
}

// handle applies a and reports whether to keep going.
func (d *Display) handle(a action) bool {
	switch {
	case a.quit:
		return false

	case a.ok:
		d.settings.Apply(a.change)
		d.show(d.settings.Describe(a.change))

	case a.scroll != 0:
		d.settings.HeightCap.Mul(a.scroll)
		d.show(d.settings.Describe(settings.HeightCapIncrease))
	}

	return true
}

// show puts text in the middle of the screen for a moment.
func (d *Display) show(text string) {
	d.note.Store(&note{text: text, until: time.Now().Add(noteDuration)})
}

// Run draws at the configured frame rate until ctx is done.
func (d *Display) Run(ctx context.Context) {
	fps := d.settings.FPS.Get()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if f := d.settings.FPS.Get(); f != fps {
				fps = f
				ticker.Reset(time.Second / time.Duration(fps))
			}

			width, height := termbox.Size()

			termbox.Clear(d.styles.Foreground, d.styles.Background)
			d.draw(now, width, height)

			if err := termbox.Flush(); err != nil {
				log.Warnf("failed to flush terminal: %v", err)
			}
		}
	}
}

// draw lays out one screen.
func (d *Display) draw(now time.Time, width, height int) {
	d.settings.SetSurfaceWidth(width)

	frame := d.source.Latest()

	drawPlots(d.canvas, frame.Values, geometryOf(d.settings, width, height), d.styles)

	if n := d.note.Load(); n != nil && now.Before(n.until) {
		drawCentered(d.canvas, width, height/2, n.text, d.styles)
	}

	d.frames++

	if d.settings.Stats.Load() {
		d.updateStats(now, frame)

		drawText(d.canvas, 0, 0, fmt.Sprintf("Latency: %.1fms", d.latency.Seconds()*1000), d.styles)
		drawText(d.canvas, 0, 1, fmt.Sprintf("FPS: %.1f", d.fps), d.styles)
		drawText(d.canvas, 0, 2, fmt.Sprintf("Plots: %d", len(frame.Values)), d.styles)
	}

	d.lastDraw = now
}

// updateStats refreshes the numbers about ten times a second.
func (d *Display) updateStats(now time.Time, frame *processor.Frame) {
	every := d.settings.FPS.Get() / 10
	if every < 1 {
		every = 1
	}

	if d.frames%every != 0 || d.lastDraw.IsZero() {
		return
	}

	if !frame.Time.IsZero() {
		d.latency = now.Sub(frame.Time)
	}

	if gap := now.Sub(d.lastDraw); gap > 0 {
		d.fps = 1 / gap.Seconds()
	}
}
