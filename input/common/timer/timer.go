// Package timer paces a non-realtime source, such as a file, so that it
// produces samples at the rate a live device would.
package timer

import (
	"context"
	"time"
)

// Process calls fill once per tick, where a tick is the time chunk frames
// take at rate frames per second. fill should write chunk frames and
// return false when the source is exhausted.
//
// Process returns when ctx is done, when fill returns false, or when fill
// returns an error.
func Process(ctx context.Context, rate float64, chunk int, fill func() (bool, error)) error {
	if rate <= 0 || chunk <= 0 {
		return nil
	}

	tick := time.Duration(float64(chunk) / rate * float64(time.Second))
	if tick <= 0 {
		tick = time.Millisecond
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		more, err := fill()
		if err != nil || !more {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
