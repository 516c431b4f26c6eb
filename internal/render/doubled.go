package render

import (
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

// Only the central 120 source lines fit when doubled.
const (
	doubledFirstLine = 12
	doubledLastLine  = doubledFirstLine + display.Height/2 - 1 // 131
)

type doubled struct{}

func (doubled) Render(fb *display.Frame, px *core.Scanline, line int) display.Rows {
	if line < doubledFirstLine || line > doubledLastLine {
		return display.NoRows
	}
	y := 2 * (line - doubledFirstLine)
	integerRow(fb, y, px, doubledLeft, 2)
	integerRow(fb, y+1, px, doubledLeft, 2)
	return display.Rows{First: y, Last: y + 1}
}
