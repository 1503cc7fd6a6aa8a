package input

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// Backend opens capture sessions on its devices.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

// DeviceOpener is a backend whose devices are opened by name rather than
// picked from a list, such as files.
type DeviceOpener interface {
	OpenDevice(name string) (Device, error)
}

// RateDevice is a device with a fixed sample rate, such as a file.
type RateDevice interface {
	SampleRate() float64
}

// DeviceRate returns the fixed rate of d, if it has one.
func DeviceRate(d Device) (float64, bool) {
	if rd, ok := d.(RateDevice); ok && rd.SampleRate() > 0 {
		return rd.SampleRate(), true
	}
	return 0, false
}

// NamedBackend is a registered backend.
type NamedBackend struct {
	Name string
	Backend
}

// Backends holds every registered backend in registration order.
var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// GetAllBackendNames returns the registered names.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks a backend that is likely to work on this system.
func DefaultBackend() string {
	if runtime.GOOS == "linux" {
		if path, _ := exec.LookPath("pw-cat"); path != "" && HasBackend("pipewire") {
			return "pipewire"
		}
		if path, _ := exec.LookPath("parec"); path != "" && HasBackend("parec") {
			return "parec"
		}
	}

	if HasBackend("portaudio") {
		return "portaudio"
	}

	if path, _ := exec.LookPath("ffmpeg"); path != "" {
		switch {
		case runtime.GOOS == "linux" && HasBackend("ffmpeg-alsa"):
			return "ffmpeg-alsa"
		case HasBackend("ffmpeg-pulse"):
			return "ffmpeg-pulse"
		}
	}

	return ""
}

// FindBackend returns the backend registered as name, or nil.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend.Backend
		}
	}
	return nil
}

// HasBackend reports whether name is registered.
func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

// InitBackend finds and initializes a backend.
func InitBackend(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend()
	}

	backend := FindBackend(name)
	if backend == nil {
		return nil, errors.Errorf("backend not found: %q; check list-backends", name)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice returns the named device, or the default when name is empty.
func GetDevice(backend Backend, name string) (Device, error) {
	if name == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	if opener, ok := backend.(DeviceOpener); ok {
		return opener.OpenDevice(name)
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == name {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", name)
}
