// Package config loads the settings file: the range and starting value of
// every tunable, the chart guide, and what to capture from and draw to.
//
// Values are layered: built-in defaults, then the YAML file, then RECIDIA_*
// environment variables. The CLI applies its flags last.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/noriah/recidia/dsp/window"
	"github.com/noriah/recidia/fft"
	"github.com/noriah/recidia/internal/log"
	"github.com/noriah/recidia/settings"
)

// FileName is the settings file looked for when no path is given.
const FileName = "recidia.yaml"

// EnvPrefix starts every environment override.
const EnvPrefix = "RECIDIA_"

// Config is the whole settings file.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // debug, info, warn, error
	LogFile   string          `yaml:"log_file"`  // empty logs to stderr, or nowhere while drawing
	Input     InputConfig     `yaml:"input"`
	FFT       FFTConfig       `yaml:"fft"`
	Settings  SettingsConfig  `yaml:"settings"`
	Guide     GuideConfig     `yaml:"chart_guide"`
	Display   DisplayConfig   `yaml:"display"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// InputConfig picks the capture source.
type InputConfig struct {
	Backend    string  `yaml:"backend"`     // from list-backends, empty picks one
	Device     string  `yaml:"device"`      // from list-devices, empty uses the default
	SampleRate float64 `yaml:"sample_rate"` // Hz, ignored for sources with their own rate
	Channels   int     `yaml:"channels"`    // interleaved channels, mixed to mono
}

// FFTConfig picks the transform.
type FFTConfig struct {
	Engine string `yaml:"engine"` // gonum or go-dsp
	Window string `yaml:"window"` // none, hann, hamming, ...
}

// Tunable is the range and starting value of one setting.
type Tunable struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
}

func tunable(l settings.Limit) Tunable {
	return Tunable{Min: l.Min, Max: l.Max, Default: l.Default}
}

func (t Tunable) limit() settings.Limit {
	return settings.Limit{Min: t.Min, Max: t.Max, Default: t.Default}
}

// SavgolConfig is the Savitzky-Golay filter.
type SavgolConfig struct {
	Window       Tunable `yaml:"window"` // fraction of the bucket count
	Fixed        Tunable `yaml:"fixed"`  // buckets, 0 uses window
	Order        Tunable `yaml:"order"`
	PositiveOnly bool    `yaml:"positive_only"`
}

// SettingsConfig holds the live tunables.
type SettingsConfig struct {
	BufferSize    Tunable      `yaml:"buffer_size"`
	Interp        Tunable      `yaml:"interp"`
	Savgol        SavgolConfig `yaml:"savgol"`
	PollRate      Tunable      `yaml:"poll_rate"`
	FPS           Tunable      `yaml:"fps"`
	HeightCap     Tunable      `yaml:"height_cap"`
	PlotWidth     Tunable      `yaml:"plot_width"`
	GapWidth      Tunable      `yaml:"gap_width"`
	MinPlotHeight Tunable      `yaml:"min_plot_height"`
	Buckets       Tunable      `yaml:"buckets"`
	DrawMode      string       `yaml:"draw_mode"`
	Stats         bool         `yaml:"stats"`
}

// GuideConfig is the frequency chart guide.
type GuideConfig struct {
	StartFreq float64 `yaml:"start_freq"`
	StartCtrl float64 `yaml:"start_ctrl"`
	MidFreq   float64 `yaml:"mid_freq"`
	MidPos    float64 `yaml:"mid_pos"`
	EndCtrl   float64 `yaml:"end_ctrl"`
	EndFreq   float64 `yaml:"end_freq"`
}

// DisplayConfig is the terminal renderer.
type DisplayConfig struct {
	Headless   bool `yaml:"headless"`   // run without the terminal renderer
	Raw        bool `yaml:"raw"`        // print frames to stdout when headless
	Foreground int  `yaml:"foreground"` // termbox colour, 0 is the terminal default
	Background int  `yaml:"background"`
}

// WebSocketConfig is the network consumer. An empty address turns it off.
type WebSocketConfig struct {
	Address  string        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var (
		l = settings.DefaultLimits()
		g = settings.DefaultGuide()
	)

	return &Config{
		LogLevel: "info",
		Input: InputConfig{
			SampleRate: 44100,
			Channels:   2,
		},
		FFT: FFTConfig{
			Engine: string(fft.EngineGonum),
			Window: "none",
		},
		Settings: SettingsConfig{
			BufferSize: tunable(l.BufferSize),
			Interp:     tunable(l.Interp),
			Savgol: SavgolConfig{
				Window:       tunable(l.SavgolWindow),
				Fixed:        tunable(l.SavgolFixed),
				Order:        tunable(l.SavgolOrder),
				PositiveOnly: true,
			},
			PollRate:      tunable(l.PollRate),
			FPS:           tunable(l.FPS),
			HeightCap:     tunable(l.HeightCap),
			PlotWidth:     tunable(l.PlotWidth),
			GapWidth:      tunable(l.GapWidth),
			MinPlotHeight: tunable(l.MinPlotHeight),
			Buckets:       tunable(l.Buckets),
			DrawMode:      settings.DrawBars.String(),
		},
		Guide: GuideConfig(g),
		WebSocket: WebSocketConfig{
			Interval: time.Second / 60,
		},
	}
}

// Candidates lists where the settings file is looked for, in order.
func Candidates() []string {
	out := []string{FileName}

	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		out = append(out, filepath.Join(dir, "recidia", FileName))
	}

	return out
}

// Load reads the settings file at path over the defaults. An empty path
// tries Candidates and falls back to the defaults when none exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range Candidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}

		log.Debugf("config: loaded %s", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

type envVar struct {
	name string
	set  func(cfg *Config, v string) error
}

func envFloat(dst *float64) func(*Config, string) error {
	return func(_ *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			*dst = f
		}
		return err
	}
}

func envBool(dst *bool) func(*Config, string) error {
	return func(_ *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			*dst = b
		}
		return err
	}
}

func envString(dst *string) func(*Config, string) error {
	return func(_ *Config, v string) error {
		*dst = v
		return nil
	}
}

func (cfg *Config) envVars() []envVar {
	return []envVar{
		{"LOG_LEVEL", envString(&cfg.LogLevel)},
		{"LOG_FILE", envString(&cfg.LogFile)},
		{"BACKEND", envString(&cfg.Input.Backend)},
		{"DEVICE", envString(&cfg.Input.Device)},
		{"SAMPLE_RATE", envFloat(&cfg.Input.SampleRate)},
		{"FFT_ENGINE", envString(&cfg.FFT.Engine)},
		{"FFT_WINDOW", envString(&cfg.FFT.Window)},
		{"BUFFER_SIZE", envFloat(&cfg.Settings.BufferSize.Default)},
		{"BUCKETS", envFloat(&cfg.Settings.Buckets.Default)},
		{"INTERP", envFloat(&cfg.Settings.Interp.Default)},
		{"POLL_RATE", envFloat(&cfg.Settings.PollRate.Default)},
		{"FPS", envFloat(&cfg.Settings.FPS.Default)},
		{"POSITIVE_ONLY", envBool(&cfg.Settings.Savgol.PositiveOnly)},
		{"HEADLESS", envBool(&cfg.Display.Headless)},
		{"RAW", envBool(&cfg.Display.Raw)},
		{"WEBSOCKET_ADDR", envString(&cfg.WebSocket.Address)},
	}
}

// applyEnvOverrides reads RECIDIA_* variables. Values that do not parse are
// logged and skipped.
func (cfg *Config) applyEnvOverrides() {
	for _, env := range cfg.envVars() {
		name := EnvPrefix + env.name

		val, ok := os.LookupEnv(name)
		if !ok {
			continue
		}

		if err := env.set(cfg, val); err != nil {
			log.Warnf("config: ignoring %s=%q: %v", name, val, err)
			continue
		}

		log.Debugf("config: %s overridden from env", name)
	}
}

// Validate rejects settings that cannot be run. Defaults outside their
// range are not errors; they are clamped when the settings are built.
func (cfg *Config) Validate() error {
	if _, ok := log.ParseLevel(cfg.LogLevel); !ok {
		return errors.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if cfg.Input.SampleRate <= 0 {
		return errors.Errorf("input.sample_rate must be positive, got %v", cfg.Input.SampleRate)
	}

	if cfg.Input.Channels < 1 {
		return errors.Errorf("input.channels must be at least 1, got %d", cfg.Input.Channels)
	}

	if _, err := fft.ParseEngine(cfg.FFT.Engine); err != nil {
		return errors.Wrap(err, "fft.engine")
	}

	if _, err := window.Lookup(cfg.FFT.Window); err != nil {
		return errors.Wrap(err, "fft.window")
	}

	s := cfg.Settings

	ranges := []struct {
		name string
		t    Tunable
	}{
		{"buffer_size", s.BufferSize},
		{"interp", s.Interp},
		{"savgol.window", s.Savgol.Window},
		{"savgol.fixed", s.Savgol.Fixed},
		{"savgol.order", s.Savgol.Order},
		{"poll_rate", s.PollRate},
		{"fps", s.FPS},
		{"height_cap", s.HeightCap},
		{"plot_width", s.PlotWidth},
		{"gap_width", s.GapWidth},
		{"min_plot_height", s.MinPlotHeight},
		{"buckets", s.Buckets},
	}

	for _, r := range ranges {
		if r.t.Max < r.t.Min {
			return errors.Errorf("settings.%s: max %v below min %v", r.name, r.t.Max, r.t.Min)
		}
	}

	for _, v := range []float64{s.BufferSize.Min, s.BufferSize.Max} {
		if v < 1024 || v != float64(int(v)) || !settings.IsPow2(int(v)) {
			return errors.Errorf("settings.buffer_size: bounds must be powers of two from 1024, got %v", v)
		}
	}

	if s.PollRate.Min < 1 || s.FPS.Min < 1 {
		return errors.New("settings.poll_rate and settings.fps must stay at least 1")
	}

	if s.PlotWidth.Min < 1 {
		return errors.New("settings.plot_width must stay at least 1")
	}

	if s.Savgol.Window.Min < 0 || s.Savgol.Window.Max > 1 {
		return errors.New("settings.savgol.window must stay within [0, 1]")
	}

	if _, err := settings.ParseDrawMode(s.DrawMode); err != nil {
		return errors.Wrap(err, "settings.draw_mode")
	}

	if cfg.WebSocket.Address != "" && cfg.WebSocket.Interval <= 0 {
		return errors.New("websocket.interval must be positive")
	}

	return nil
}

// SettingsConfig converts the file into the settings store's initial state.
// sampleRate replaces the configured rate when above zero, for sources that
// carry their own.
func (cfg *Config) SettingsConfig(sampleRate float64) settings.Config {
	if sampleRate <= 0 {
		sampleRate = cfg.Input.SampleRate
	}

	s := cfg.Settings

	// Validate has already checked the mode
	mode, _ := settings.ParseDrawMode(s.DrawMode)

	return settings.Config{
		SampleRate: sampleRate,
		Limits: settings.Limits{
			BufferSize:    s.BufferSize.limit(),
			Interp:        s.Interp.limit(),
			SavgolWindow:  s.Savgol.Window.limit(),
			SavgolFixed:   s.Savgol.Fixed.limit(),
			SavgolOrder:   s.Savgol.Order.limit(),
			PollRate:      s.PollRate.limit(),
			FPS:           s.FPS.limit(),
			HeightCap:     s.HeightCap.limit(),
			PlotWidth:     s.PlotWidth.limit(),
			GapWidth:      s.GapWidth.limit(),
			MinPlotHeight: s.MinPlotHeight.limit(),
			Buckets:       s.Buckets.limit(),
		},
		Guide:        settings.ChartGuide(cfg.Guide),
		PositiveOnly: s.Savgol.PositiveOnly,
		DrawMode:     mode,
		Stats:        s.Stats,
	}
}

// Engine returns the configured transform.
func (cfg *Config) Engine() fft.Engine {
	e, _ := fft.ParseEngine(cfg.FFT.Engine)
	return e
}

// Window returns the configured window function, nil for none.
func (cfg *Config) Window() window.Function {
	w, _ := window.Lookup(cfg.FFT.Window)
	return w
}

// Level returns the configured log level.
func (cfg *Config) Level() log.Level {
	l, _ := log.ParseLevel(cfg.LogLevel)
	return l
}
