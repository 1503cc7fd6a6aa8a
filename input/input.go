// Package input defines capture backends and the sample ring they fill.
package input

import (
	"context"
	"fmt"
)

// Device is a capture source a backend can open.
type Device interface {
	fmt.Stringer
}

// SessionConfig is the configuration for an input session.
type SessionConfig struct {
	Device     Device  // device to capture from
	SampleRate float64 // frames per second
	Channels   int     // channels per frame, averaged down to mono
}

// Session is a running capture.
type Session interface {
	// Start writes captured samples into dst until ctx is done or the source
	// runs out. It returns nil on a clean end.
	Start(ctx context.Context, dst *Ring) error
}

// Mix averages one interleaved frame into a single sample.
func Mix(frame []int16) int16 {
	switch len(frame) {
	case 0:
		return 0
	case 1:
		return frame[0]
	}

	var sum int32
	for _, s := range frame {
		sum += int32(s)
	}
	return int16(sum / int32(len(frame)))
}
