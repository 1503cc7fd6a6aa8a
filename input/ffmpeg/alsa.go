package ffmpeg

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/noriah/recidia/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

// ALSA reads capture devices from /proc/asound/pcm.
type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	var devices []input.Device

	var scanner = bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "capture") {
			continue
		}

		prefix := strings.Split(line, ":")[0]

		d, err := ParseALSADevice(prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse device %q", prefix)
		}

		devices = append(devices, d)
	}

	return devices, scanner.Err()
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// ALSADevice is an ALSA device string such as hw:0,1.
type ALSADevice string

// ParseALSADevice parses the "00-01" card-device prefix of /proc/asound/pcm.
func ParseALSADevice(hwString string) (ALSADevice, error) {
	nparts := strings.Split(strings.TrimSpace(hwString), "-")
	if len(nparts) == 0 || len(nparts) > 2 || nparts[0] == "" {
		return "", errors.New("mismatch alsa format")
	}

	alsadv := "hw"
	for i, part := range nparts {
		// Trim prefixed zeros.
		part = strings.TrimLeft(part, "0")
		if part == "" {
			part = "0"
		}

		switch i {
		case 0:
			alsadv += ":" + part
		case 1:
			alsadv += "," + part
		}
	}

	return ALSADevice(alsadv), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}
