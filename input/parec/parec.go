// Package parec captures from PulseAudio sources through the parec tool.
//
// Two backends are registered: "parec" lists every source, and
// "parec-monitor" lists only sink monitors so that what is playing can be
// visualized. The default monitor is the one of the default sink.
package parec

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/lawl/pulseaudio"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/input/common/execread"
	"github.com/pkg/errors"
)

const monitorSuffix = ".monitor"

func init() {
	input.RegisterBackend("parec", Backend{})
	input.RegisterBackend("parec-monitor", Backend{Monitors: true})
}

// Backend is the parec backend.
type Backend struct {
	// Monitors limits device listing to sink monitors.
	Monitors bool
}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	s, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sources")
	}

	names := make([]string, len(s))
	for i, source := range s {
		names[i] = source.Name
	}

	return FilterDevices(names, p.Monitors), nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		// no server to ask; let parec pick
		return PulseDevice("default"), nil
	}
	defer c.Close()

	info, err := c.ServerInfo()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get server info")
	}

	if p.Monitors {
		return PulseDevice(info.DefaultSink + monitorSuffix), nil
	}
	return PulseDevice(info.DefaultSource), nil
}

func (p Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// PulseDevice is a PulseAudio source name.
type PulseDevice string

// IsMonitor reports whether the source is a sink monitor.
func (d PulseDevice) IsMonitor() bool {
	return strings.HasSuffix(string(d), monitorSuffix)
}

// InputArgs are the ffmpeg arguments that open this source.
func (d PulseDevice) InputArgs() []string {
	return []string{"-f", "pulse", "-i", string(d)}
}

func (d PulseDevice) String() string {
	return string(d)
}

// FilterDevices turns source names into devices, keeping only monitors when
// monitors is set.
func FilterDevices(names []string, monitors bool) []input.Device {
	devices := make([]input.Device, 0, len(names))
	for _, name := range names {
		dv := PulseDevice(name)
		if monitors && !dv.IsMonitor() {
			continue
		}
		devices = append(devices, dv)
	}
	return devices
}

// NewSession starts parec on the configured device.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.Channels < 1 || cfg.Channels > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	path, err := exec.LookPath("parec")
	if err != nil {
		return nil, errors.Wrap(err, "parec not found")
	}

	return execread.NewSession([]string{
		path,
		"--format=s16le",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		fmt.Sprintf("--channels=%d", cfg.Channels),
		"--latency-msec=10",
		"-d", dv.String(),
	}, cfg), nil
}
