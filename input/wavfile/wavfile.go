// Package wavfile plays a WAV file into the capture ring at the file's own
// sample rate, as if it came from a live device.
package wavfile

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/input/common/timer"
	"github.com/pkg/errors"
)

// chunkFrames is how many frames are decoded per tick.
const chunkFrames = 512

func init() {
	input.RegisterBackend("wavfile", Backend{})
	input.RegisterBackend("wavfile-loop", Backend{Loop: true})
}

// Backend reads WAV files. Devices are file paths.
type Backend struct {
	// Loop restarts the file at its end instead of ending the session.
	Loop bool
}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

// Devices lists the WAV files in the working directory.
func (b Backend) Devices() ([]input.Device, error) {
	matches, err := filepath.Glob("*.wav")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wav files")
	}

	devices := make([]input.Device, 0, len(matches))
	for _, m := range matches {
		if d, err := b.OpenDevice(m); err == nil {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("wavfile needs a file path as the device")
}

// OpenDevice reads the header of the file at path.
func (b Backend) OpenDevice(path string) (input.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open wav file")
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.Errorf("%q is not a valid wav file", path)
	}

	return File{
		Path:     path,
		Rate:     float64(d.SampleRate),
		Channels: int(d.NumChans),
		BitDepth: int(d.BitDepth),
	}, nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	f, ok := cfg.Device.(File)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}
	return &Session{file: f, loop: b.Loop}, nil
}

// File is a WAV file and its format.
type File struct {
	Path     string
	Rate     float64
	Channels int
	BitDepth int
}

func (f File) String() string {
	return f.Path
}

// SampleRate is the rate the file was recorded at.
func (f File) SampleRate() float64 {
	return f.Rate
}

// Session plays one file.
type Session struct {
	file File
	loop bool
}

func (s *Session) Start(ctx context.Context, dst *input.Ring) error {
	for {
		done, err := s.play(ctx, dst)
		if err != nil || done || !s.loop {
			return err
		}
	}
}

// play streams the file once. It reports done when ctx ended the playback.
func (s *Session) play(ctx context.Context, dst *input.Ring) (bool, error) {
	f, err := os.Open(s.file.Path)
	if err != nil {
		return false, errors.Wrap(err, "failed to open wav file")
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if err := d.FwdToPCM(); err != nil {
		return false, errors.Wrap(err, "failed to find pcm data")
	}

	var (
		channels = s.file.Channels
		depth    = s.file.BitDepth
		samples  = make([]int16, chunkFrames*channels)
		buf      = &audio.IntBuffer{
			Data: make([]int, chunkFrames*channels),
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  int(s.file.Rate),
			},
			SourceBitDepth: depth,
		}
	)

	err = timer.Process(ctx, s.file.Rate, chunkFrames, func() (bool, error) {
		n, err := d.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return false, errors.Wrap(err, "failed to decode pcm")
		}
		if n == 0 {
			return false, nil
		}

		for i, v := range buf.Data[:n] {
			samples[i] = To16(v, depth)
		}
		dst.WriteFrames(samples[:n], channels)

		return true, nil
	})

	return ctx.Err() != nil, err
}

// To16 rescales a decoded PCM value of the given bit depth to 16 bits.
// 8-bit WAV data is unsigned and is re-centered.
func To16(v, depth int) int16 {
	switch {
	case depth == 8:
		return int16((v - 128) << 8)
	case depth > 16:
		return int16(v >> uint(depth-16))
	case depth < 16 && depth > 0:
		return int16(v << uint(16-depth))
	}
	return int16(v)
}
