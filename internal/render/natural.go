package render

import (
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

const (
	naturalTop  = (display.Height - core.ScreenHeight) / 2 // 48
	naturalLeft = (display.Width - core.ScreenWidth) / 2   // 120
)

type natural struct{}

func (natural) Render(fb *display.Frame, px *core.Scanline, line int) display.Rows {
	y := naturalTop + line
	if !onPanel(y) {
		return display.NoRows
	}
	integerRow(fb, y, px, naturalLeft, 1)
	return display.Rows{First: y, Last: y}
}
