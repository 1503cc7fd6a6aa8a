// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/recidia/input/ffmpeg"
	_ "github.com/noriah/recidia/input/parec"
	_ "github.com/noriah/recidia/input/pipewire"
	_ "github.com/noriah/recidia/input/portaudio"
	_ "github.com/noriah/recidia/input/stdinput"
	_ "github.com/noriah/recidia/input/wavfile"
)
