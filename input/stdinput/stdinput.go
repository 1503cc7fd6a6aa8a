// Package stdinput reads raw s16le frames from standard input, for example
// `parec --format=s16le | recidia -b stdin`.
package stdinput

import (
	"context"
	"os"

	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/input/common/execread"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdInputDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdInputDevice{}, nil
}

func (b StdinBackend) Start(cfg input.SessionConfig) (input.Session, error) {
	return Session{cfg: cfg}, nil
}

type StdInputDevice struct{}

func (d StdInputDevice) String() string {
	return "stdin"
}

// Session reads standard input until EOF.
type Session struct {
	cfg input.SessionConfig
}

func (s Session) Start(ctx context.Context, dst *input.Ring) error {
	return execread.ReadStream(ctx, os.Stdin, s.cfg, dst)
}
