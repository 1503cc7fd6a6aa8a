package main

import (
	"github.com/integrii/flaggy"

	"github.com/noriah/recidia/config"
)

// flags are the command line overrides. Zero values leave the settings file
// alone.
type flags struct {
	// configPath is the settings file, empty searches the default places
	configPath string
	// backend is the backend name from list-backends
	backend string
	// device is the device name from list-devices
	device string
	// wavFile plays a file through the wavfile backend
	wavFile string
	// sampleRate is the rate at which samples are read
	sampleRate float64
	// channels is the number of interleaved channels the source sends
	channels int
	// bufferSize is the starting number of samples per transform
	bufferSize int
	// buckets is the starting bucket count, used as is when headless
	buckets int
	// fps is the starting draw rate
	fps int
	// pollRate is the starting pipeline interval, in milliseconds
	pollRate int
	// interp is the starting interpolation factor
	interp int
	// engine is the fft implementation
	engine string
	// window is the window function applied before the transform
	window string
	// drawMode is bars or points
	drawMode string
	// headless skips the terminal renderer
	headless bool
	// raw prints frames to stdout, implies headless
	raw bool
	// stats shows latency and frame rate
	stats bool
	// signed uses a plain signed smoothing convolution
	signed bool
	// websocket is the address to serve frames on
	websocket string
	// logLevel is debug, info, warn or error
	logLevel string
	// logFile receives the log while drawing
	logFile string
	// foreground and background are termbox colours
	foreground int
	background int
}

func (f *flags) bind(parser *flaggy.Parser) {
	parser.String(&f.configPath, "c", "config", "settings file")
	parser.String(&f.backend, "b", "backend", "backend name")
	parser.String(&f.device, "d", "device", "device name")
	parser.String(&f.wavFile, "wf", "wav", "play a wav file instead of capturing")
	parser.Float64(&f.sampleRate, "r", "rate", "sample rate")
	parser.Int(&f.channels, "ch", "channels", "channels the source sends, mixed to mono")
	parser.Int(&f.bufferSize, "n", "samples", "audio buffer size, a power of two")
	parser.Int(&f.buckets, "k", "buckets", "bucket count when headless")
	parser.Int(&f.fps, "f", "fps", "frame rate")
	parser.Int(&f.pollRate, "p", "poll", "pipeline poll interval in milliseconds")
	parser.Int(&f.interp, "i", "interp", "frames averaged over time (0 turns it off)")
	parser.String(&f.engine, "e", "engine", "fft engine (gonum, go-dsp)")
	parser.String(&f.window, "w", "window", "fft window function (none, hann, hamming, ...)")
	parser.String(&f.drawMode, "dm", "draw", "draw mode (bars, points)")
	parser.Bool(&f.headless, "hl", "headless", "run without drawing")
	parser.Bool(&f.raw, "rw", "raw", "print frames to stdout, implies headless")
	parser.Bool(&f.stats, "s", "stats", "show latency and frame rate")
	parser.Bool(&f.signed, "sg", "signed", "use a signed smoothing convolution")
	parser.String(&f.websocket, "ws", "websocket", "serve frames on this address")
	parser.String(&f.logLevel, "l", "log-level", "log level (debug, info, warn, error)")
	parser.String(&f.logFile, "lf", "log-file", "write the log to this file")
	parser.Int(&f.foreground, "fg", "foreground", "foreground color within the 256-color range [0, 255]")
	parser.Int(&f.background, "bg", "background", "background color within the 256-color range [0, 255]")
}

// apply writes every flag that was given over cfg.
func (f *flags) apply(cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setInt := func(dst *float64, v int) {
		if v != 0 {
			*dst = float64(v)
		}
	}

	setString(&cfg.Input.Backend, f.backend)
	setString(&cfg.Input.Device, f.device)

	if f.wavFile != "" {
		cfg.Input.Backend = "wavfile"
		cfg.Input.Device = f.wavFile
	}

	if f.sampleRate > 0 {
		cfg.Input.SampleRate = f.sampleRate
	}
	if f.channels > 0 {
		cfg.Input.Channels = f.channels
	}

	setInt(&cfg.Settings.BufferSize.Default, f.bufferSize)
	setInt(&cfg.Settings.Buckets.Default, f.buckets)
	setInt(&cfg.Settings.FPS.Default, f.fps)
	setInt(&cfg.Settings.PollRate.Default, f.pollRate)
	setInt(&cfg.Settings.Interp.Default, f.interp)

	setString(&cfg.FFT.Engine, f.engine)
	setString(&cfg.FFT.Window, f.window)
	setString(&cfg.Settings.DrawMode, f.drawMode)
	setString(&cfg.WebSocket.Address, f.websocket)
	setString(&cfg.LogLevel, f.logLevel)
	setString(&cfg.LogFile, f.logFile)

	if f.headless {
		cfg.Display.Headless = true
	}
	if f.raw {
		cfg.Display.Headless = true
		cfg.Display.Raw = true
	}
	if f.stats {
		cfg.Settings.Stats = true
	}
	if f.signed {
		cfg.Settings.Savgol.PositiveOnly = false
	}
	if f.foreground != 0 {
		cfg.Display.Foreground = f.foreground
	}
	if f.background != 0 {
		cfg.Display.Background = f.background
	}
}
