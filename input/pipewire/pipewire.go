// Package pipewire records from PipeWire nodes through pw-cat.
package pipewire

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/input/common/execread"
	"github.com/pkg/errors"
)

// autoTarget lets the session manager pick the node.
const autoTarget = "auto"

func init() {
	input.RegisterBackend("pipewire", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Devices() ([]input.Device, error) {
	dump, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	names, err := parseNodes(dump)
	if err != nil {
		return nil, err
	}

	devices := make([]input.Device, len(names))
	for i, name := range names {
		devices[i] = AudioDevice(name)
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice(autoTarget), nil
}

func (p Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// AudioDevice is a PipeWire node name.
type AudioDevice string

func (d AudioDevice) String() string {
	return string(d)
}

// NewSession starts pw-cat recording from the configured node.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.Channels < 1 || cfg.Channels > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	path, err := exec.LookPath("pw-cat")
	if err != nil {
		return nil, errors.Wrap(err, "pw-cat not found")
	}

	raw, err := needRawArg(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check need of pipewire '--raw' arg")
	}

	return execread.NewSession(recordArgs(path, dv, cfg, raw), cfg), nil
}

func recordArgs(path string, dv AudioDevice, cfg input.SessionConfig, raw bool) []string {
	args := []string{
		path,
		"--record",
		"--format", "s16",
		"--rate", fmt.Sprintf("%.0f", cfg.SampleRate),
		"--channels", fmt.Sprint(cfg.Channels),
		"--target", dv.String(),
		"--latency", "10ms",
		"--media-category", "Capture",
		"--media-role", "DSP",
	}

	// pw-cat 1.4.0 only writes raw samples to stdout with --raw
	if raw {
		args = append(args, "--raw")
	}

	return append(args, "-")
}

func needRawArg(path string) (bool, error) {
	out, err := exec.Command(path, "--help").Output()
	if err != nil {
		return false, err
	}
	return strings.Contains(string(out), "--raw"), nil
}
