package render

import (
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

const (
	doubledLeft = (display.Width - 2*core.ScreenWidth) / 2 // 40

	// fittedStride drops one doubled line in six: 288 -> 240.
	fittedStride = 6
)

type fitted struct{}

// fittedRow maps a doubled line candidate to its panel row, or -1 when the
// candidate falls on the dropped stride.
func fittedRow(cand int) int {
	if cand%fittedStride == fittedStride-1 {
		return -1
	}
	return cand - cand/fittedStride
}

func (fitted) Render(fb *display.Frame, px *core.Scanline, line int) display.Rows {
	rows := display.NoRows
	for cand := 2 * line; cand <= 2*line+1; cand++ {
		y := fittedRow(cand)
		if y < 0 || !onPanel(y) {
			continue
		}
		integerRow(fb, y, px, doubledLeft, 2)
		rows = rows.Add(y)
	}
	return rows
}
