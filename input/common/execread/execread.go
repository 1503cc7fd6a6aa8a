// Package execread reads signed 16-bit little-endian PCM from a process or
// stream into an input.Ring.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/noriah/recidia/input"
	"github.com/pkg/errors"
)

// chunkFrames is how many frames are read per syscall.
const chunkFrames = 256

// Session is a session that reads s16le audio from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// DisconnectedStderr stops cmd.Stderr from pointing to os.Stderr.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig
}

// NewSession creates a new execread session. It never returns an error.
func NewSession(argv []string, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv: argv,
		cfg:  cfg,
	}
}

// Start runs the command and feeds its stdout into dst.
func (s *Session) Start(ctx context.Context, dst *input.Ring) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	err = ReadStream(ctx, o, s.cfg, dst)
	if ctx.Err() != nil {
		// killed by the context; the exit status is noise
		cmd.Wait()
		return nil
	}

	if werr := cmd.Wait(); err == nil && werr != nil {
		err = errors.Wrap(werr, s.argv[0]+" exited")
	}

	return err
}

// ReadStream decodes interleaved s16le frames from r into dst until EOF or
// ctx is done. When r is an *os.File that stalls for longer than a few
// chunk durations, silence is written so the spectrum falls flat instead of
// freezing.
func ReadStream(ctx context.Context, r io.Reader, cfg input.SessionConfig, dst *input.Ring) error {
	channels := cfg.Channels
	if channels < 1 {
		channels = 1
	}

	var (
		raw     = make([]byte, chunkFrames*channels*2)
		samples = make([]int16, chunkFrames*channels)
		silence = make([]int16, chunkFrames)
	)

	f, deadlines := r.(*os.File)

	var timeout time.Duration
	if cfg.SampleRate > 0 {
		timeout = 6 * time.Duration(float64(chunkFrames)/cfg.SampleRate*float64(time.Second))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if deadlines && timeout > 0 {
			if err := f.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				// pipes on some platforms do not support deadlines
				deadlines = false
			}
		}

		_, err := io.ReadFull(r, raw)
		switch {
		case err == nil:
			Decode(samples, raw)
			dst.WriteFrames(samples, channels)

		case errors.Is(err, os.ErrDeadlineExceeded):
			dst.Write(silence)

		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil

		default:
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to read samples")
		}
	}
}

// Decode converts little-endian byte pairs into samples. It decodes
// min(len(dst), len(raw)/2) samples and returns that count.
func Decode(dst []int16, raw []byte) int {
	n := len(raw) / 2
	if n > len(dst) {
		n = len(dst)
	}

	for i := 0; i < n; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return n
}
