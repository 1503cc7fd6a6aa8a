package graphic

import (
	"github.com/nsf/termbox-go"

	"github.com/noriah/recidia/settings"
)

// scrollStep is the height cap factor of one mouse wheel notch.
const scrollStep = 1.25

var keyMap = map[rune]settings.Change{
	't': settings.HeightCapDecrease,
	'g': settings.HeightCapIncrease,
	'e': settings.PlotWidthDecrease,
	'r': settings.PlotWidthIncrease,
	'd': settings.GapWidthDecrease,
	'f': settings.GapWidthIncrease,
	'q': settings.SavgolWindowDecrease,
	'w': settings.SavgolWindowIncrease,
	'a': settings.InterpDecrease,
	's': settings.InterpIncrease,
	'z': settings.BufferSizeDecrease,
	'x': settings.BufferSizeIncrease,
	'h': settings.FPSDecrease,
	'y': settings.FPSIncrease,
	'j': settings.PollRateDecrease,
	'u': settings.PollRateIncrease,
	'i': settings.StatsToggle,
	'm': settings.DrawModeToggle,
}

// ChangeForKey returns the setting change bound to r.
func ChangeForKey(r rune) (settings.Change, bool) {
	c, ok := keyMap[r]
	return c, ok
}

// action is what one input event asks for.
type action struct {
	quit   bool
	change settings.Change
	ok     bool // change is set
	scroll float64
}

func actionFor(ev termbox.Event) action {
	switch ev.Type {
	case termbox.EventKey:
		switch ev.Key {
		case termbox.KeyEsc, termbox.KeyCtrlC:
			return action{quit: true}
		}

		if c, ok := ChangeForKey(ev.Ch); ok {
			return action{change: c, ok: true}
		}

	case termbox.EventMouse:
		switch ev.Key {
		case termbox.MouseWheelUp:
			return action{scroll: 1 / scrollStep}
		case termbox.MouseWheelDown:
			return action{scroll: scrollStep}
		}

	case termbox.EventInterrupt, termbox.EventError:
		return action{quit: true}
	}

	return action{}
}
