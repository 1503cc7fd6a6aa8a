package graphic

import (
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/noriah/recidia/settings"
)

const (
	// NumSlices is the number of vertical steps in one cell.
	NumSlices = 8

	// BarRune is the full-cell block.
	BarRune rune = '█'
)

// barRunes holds the partial blocks, indexed by slices filled.
var barRunes = [NumSlices]rune{
	' ',
	'▁',
	'▂',
	'▃',
	'▄',
	'▅',
	'▆',
	'▇',
}

// Styles are the colours of the plots and text.
type Styles struct {
	Foreground termbox.Attribute
	Background termbox.Attribute
}

// canvas is where cells go. The display uses termbox; tests use a grid.
type canvas interface {
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
}

type termboxCanvas struct{}

func (termboxCanvas) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

// geometry is everything about the surface a frame is drawn with.
type geometry struct {
	width     int
	height    int
	plotWidth int
	gapWidth  int
	minSlices int
	heightCap float64
	mode      settings.DrawMode
}

func geometryOf(s *settings.Settings, width, height int) geometry {
	return geometry{
		width:     width,
		height:    height,
		plotWidth: s.PlotWidth.Get(),
		gapWidth:  s.GapWidth.Get(),
		minSlices: s.MinPlotHeight.Get(),
		heightCap: s.HeightCap.Get(),
		mode:      s.DrawMode(),
	}
}

// plotSlices scales v against heightCap into [minSlices, ceiling] slices.
func plotSlices(v, heightCap float64, ceiling, minSlices int) int {
	if heightCap <= 0 {
		heightCap = 1
	}

	n := 0
	switch h := v * float64(ceiling) / heightCap; {
	case h != h:
	case h >= float64(ceiling):
		n = ceiling
	case h > 0:
		n = int(h)
	}

	if n < minSlices {
		n = minSlices
	}
	if n > ceiling {
		n = ceiling
	}

	return n
}

// drawPlots draws one plot per value from the left edge, bottom up.
func drawPlots(c canvas, values []float64, g geometry, st Styles) {
	if g.height < 1 || g.plotWidth < 1 {
		return
	}

	var (
		ceiling = g.height * NumSlices
		slot    = g.plotWidth + g.gapWidth
		bottom  = g.height - 1
	)

	for i, v := range values {
		x0 := i * slot
		if x0 >= g.width {
			break
		}

		var (
			n    = plotSlices(v, g.heightCap, ceiling, g.minSlices)
			full = n / NumSlices
			part = n % NumSlices
		)

		for x := x0; x < x0+g.plotWidth && x < g.width; x++ {
			if g.mode == settings.DrawPoints {
				if n == 0 {
					continue
				}

				ch := BarRune
				if part > 0 {
					ch = barRunes[part]
				}
				c.SetCell(x, bottom-(n-1)/NumSlices, ch, st.Foreground, st.Background)
				continue
			}

			for row := 0; row < full; row++ {
				c.SetCell(x, bottom-row, BarRune, st.Foreground, st.Background)
			}

			if part > 0 {
				c.SetCell(x, bottom-full, barRunes[part], st.Foreground, st.Background)
			}
		}
	}
}

// drawText writes s from (x, y), advancing by each rune's cell width. It
// returns the column after the text.
func drawText(c canvas, x, y int, s string, st Styles) int {
	for _, r := range s {
		c.SetCell(x, y, r, st.Foreground|termbox.AttrBold, st.Background)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// drawCentered writes s in the middle of row y.
func drawCentered(c canvas, width, y int, s string, st Styles) {
	x := (width - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	drawText(c, x, y, s, st)
}
