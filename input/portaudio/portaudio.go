// Package portaudio captures from PortAudio input devices.
package portaudio

import (
	"context"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/noriah/recidia/input"
	"github.com/pkg/errors"
)

// framesPerBuffer keeps callbacks short so the ring stays close to live.
const framesPerBuffer = 64

// GlobalBackend is the registered backend.
var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	initOnce sync.Once
	initErr  error
}

func (b *Backend) Init() error {
	b.initOnce.Do(func() {
		b.initErr = portaudio.Initialize()
	})
	return b.initErr
}

func (b *Backend) Close() error {
	return portaudio.Terminate()
}

func (b *Backend) Devices() ([]input.Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	var inputs []input.Device
	for _, device := range devices {
		if device.MaxInputChannels > 0 {
			inputs = append(inputs, Device{device})
		}
	}

	return inputs, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "no default input device found")
	}

	return Device{device}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from Portaudio.
type Session struct {
	device   Device
	rate     float64
	channels int
}

// NewSession validates the device and channel count.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("device is on unknown type %T", cfg.Device)
	}

	channels := cfg.Channels
	if channels > dv.MaxInputChannels {
		channels = dv.MaxInputChannels
	}
	if channels < 1 {
		return nil, errors.Errorf("device %q has no input channels", dv.Name)
	}

	return &Session{
		device:   dv,
		rate:     cfg.SampleRate,
		channels: channels,
	}, nil
}

// Start opens the stream and mixes every callback buffer into dst until ctx
// is done.
func (s *Session) Start(ctx context.Context, dst *input.Ring) error {
	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   s.device.DeviceInfo,
			Channels: s.channels,
			Latency:  s.device.DefaultLowInputLatency,
		},
		SampleRate:      s.rate,
		FramesPerBuffer: framesPerBuffer,
	}

	channels := s.channels
	stream, err := portaudio.OpenStream(param, func(in []int16) {
		dst.WriteFrames(in, channels)
	})
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}

	<-ctx.Done()

	return errors.Wrap(stream.Stop(), "failed to stop stream")
}
