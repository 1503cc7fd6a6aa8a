// Package ffmpeg captures through an ffmpeg child process that converts any
// of its input formats to s16le on stdout.
package ffmpeg

import (
	"fmt"
	"os/exec"

	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/input/common/execread"
	"github.com/pkg/errors"
)

// Source is a device ffmpeg knows how to open.
type Source interface {
	InputArgs() []string
}

// Args builds the ffmpeg command line for src.
func Args(src Source, cfg input.SessionConfig) []string {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, src.InputArgs()...)
	args = append(args,
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", fmt.Sprintf("%d", cfg.Channels),
		"-f", "s16le",
		"-",
	)
	return args
}

// NewSession starts ffmpeg reading from src.
func NewSession(src Source, cfg input.SessionConfig) (*execread.Session, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.Wrap(err, "ffmpeg not found")
	}

	return execread.NewSession(Args(src, cfg), cfg), nil
}
