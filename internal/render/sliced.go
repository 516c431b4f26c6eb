package render

import (
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

// Sliced scales by 3/2. Positions are tracked in half pixels so the
// horizontal run lengths come out as 1,2,1,2,... without a division per
// pixel.
const (
	slicedWidth  = core.ScreenWidth * 3 / 2  // 240
	slicedHeight = core.ScreenHeight * 3 / 2 // 216
	slicedTop    = (display.Height - slicedHeight) / 2
	slicedLeft   = (display.Width - slicedWidth) / 2
)

type sliced struct{}

func slicedRow(line int) int { return slicedTop + line*3/2 }

func (sliced) Render(fb *display.Frame, px *core.Scanline, line int) display.Rows {
	y := slicedRow(line)
	if !onPanel(y) {
		return display.NoRows
	}
	w := newRowWriter(fb, y)
	w.pad(slicedLeft)
	acc := 0  // end of the current source pixel, in half panel pixels
	prev := 0 // panel columns emitted so far
	for _, c := range px {
		acc += 3
		next := acc >> 1
		w.shade(c, next-prev)
		prev = next
	}
	w.finish()
	return display.Rows{First: y, Last: y}
}
