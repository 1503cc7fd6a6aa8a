package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/noriah/recidia/fft"
	"github.com/noriah/recidia/settings"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.BufferSize.Default != 4096 {
		t.Errorf("buffer default = %v", cfg.Settings.BufferSize.Default)
	}
}

func TestLoadMissingPath(t *testing.T) {
	if cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error, got %+v", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
input:
  backend: wavfile
  device: tone.wav
fft:
  engine: go-dsp
  window: hann
settings:
  buffer_size: {max: 8192, default: 2048}
  interp: {default: 8}
  savgol:
    positive_only: false
  stats: true
  draw_mode: points
chart_guide:
  mid_freq: 2000
websocket:
  address: 127.0.0.1:9000
  interval: 50ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Input.Backend != "wavfile" || cfg.Input.Device != "tone.wav" {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Engine() != fft.EngineGoDSP {
		t.Errorf("engine = %v", cfg.Engine())
	}
	if cfg.Window() == nil {
		t.Error("window not set")
	}

	bs := cfg.Settings.BufferSize
	if bs.Min != 1024 || bs.Max != 8192 || bs.Default != 2048 {
		t.Errorf("buffer_size = %+v", bs)
	}
	if cfg.Settings.Interp.Max != 32 || cfg.Settings.Interp.Default != 8 {
		t.Errorf("interp = %+v", cfg.Settings.Interp)
	}
	if cfg.Guide.MidFreq != 2000 || cfg.Guide.EndFreq != 12000 {
		t.Errorf("guide = %+v", cfg.Guide)
	}
	if cfg.WebSocket.Interval != 50*time.Millisecond {
		t.Errorf("interval = %v", cfg.WebSocket.Interval)
	}

	sc := cfg.SettingsConfig(0)
	if sc.SampleRate != 44100 {
		t.Errorf("sample rate = %v", sc.SampleRate)
	}
	if sc.PositiveOnly || !sc.Stats || sc.DrawMode != settings.DrawPoints {
		t.Errorf("settings config = %+v", sc)
	}

	s := settings.New(sc)
	if s.BufferSize.Get() != 2048 || s.BufferSize.Max() != 8192 {
		t.Errorf("buffer size = %d of %d", s.BufferSize.Get(), s.BufferSize.Max())
	}
	if s.Guide().MidFreq != 2000 {
		t.Errorf("guide = %+v", s.Guide())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RECIDIA_BACKEND", "stdin")
	t.Setenv("RECIDIA_SAMPLE_RATE", "48000")
	t.Setenv("RECIDIA_HEADLESS", "true")
	t.Setenv("RECIDIA_BUCKETS", "not a number")

	cfg, err := Load(writeTempConfig(t, "input: {backend: parec}\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Input.Backend != "stdin" {
		t.Errorf("backend = %q", cfg.Input.Backend)
	}
	if cfg.Input.SampleRate != 48000 {
		t.Errorf("sample rate = %v", cfg.Input.SampleRate)
	}
	if !cfg.Display.Headless {
		t.Error("headless not set")
	}
	if cfg.Settings.Buckets.Default != 64 {
		t.Errorf("bad env changed buckets to %v", cfg.Settings.Buckets.Default)
	}
	if got := cfg.SettingsConfig(22050).SampleRate; got != 22050 {
		t.Errorf("device rate not used: %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"sample rate", func(c *Config) { c.Input.SampleRate = 0 }},
		{"channels", func(c *Config) { c.Input.Channels = 0 }},
		{"engine", func(c *Config) { c.FFT.Engine = "fftw" }},
		{"window", func(c *Config) { c.FFT.Window = "kaiser" }},
		{"max below min", func(c *Config) { c.Settings.Interp.Max = -1 }},
		{"buffer not pow2", func(c *Config) { c.Settings.BufferSize.Max = 5000 }},
		{"buffer too small", func(c *Config) { c.Settings.BufferSize.Min = 512 }},
		{"poll rate", func(c *Config) { c.Settings.PollRate.Min = 0 }},
		{"plot width", func(c *Config) { c.Settings.PlotWidth.Min = 0 }},
		{"savgol window", func(c *Config) { c.Settings.Savgol.Window.Max = 2 }},
		{"draw mode", func(c *Config) { c.Settings.DrawMode = "lines" }},
		{"websocket interval", func(c *Config) { c.WebSocket.Address = ":9000"; c.WebSocket.Interval = 0 }},
	}

	for _, test := range tests {
		cfg := Default()
		test.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}

	// out of range defaults are clamped later, not rejected
	cfg := Default()
	cfg.Settings.FPS.Default = 1000
	if err := cfg.Validate(); err != nil {
		t.Errorf("out of range default rejected: %v", err)
	}
	if fps := settings.New(cfg.SettingsConfig(0)).FPS.Get(); fps != 240 {
		t.Errorf("fps = %d; want 240", fps)
	}
}

func TestCandidates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	got := Candidates()
	want := []string{FileName, filepath.Join("/tmp/xdg", "recidia", FileName)}

	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Candidates() = %v; want %v", got, want)
	}
}
