package ffmpeg

import (
	"strings"
	"testing"

	"github.com/noriah/recidia/input"
)

func TestParseALSADevice(t *testing.T) {
	tests := []struct {
		in   string
		want ALSADevice
		ok   bool
	}{
		{"00-00", "hw:0,0", true},
		{"01-07", "hw:1,7", true},
		{"10", "hw:10", true},
		{"", "", false},
		{"1-2-3", "", false},
	}

	for _, test := range tests {
		got, err := ParseALSADevice(test.in)
		if (err == nil) != test.ok || got != test.want {
			t.Errorf("ParseALSADevice(%q) = %q, %v; want %q", test.in, got, err, test.want)
		}
	}
}

func TestArgs(t *testing.T) {
	args := Args(ALSADevice("hw:0,0"), input.SessionConfig{SampleRate: 48000, Channels: 2})
	got := strings.Join(args, " ")
	want := "ffmpeg -hide_banner -loglevel panic -f alsa -i hw:0,0 -ar 48000 -ac 2 -f s16le -"
	if got != want {
		t.Errorf("args = %q; want %q", got, want)
	}
}
