package term

import "github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"

// Each braille cell shows a 2x4 block of panel pixels.
const (
	cellW = 2
	cellH = 4
	cols  = display.Width / cellW
	lines = display.Height / cellH
)

// dots maps a pixel offset inside a cell to its braille dot bit.
var dots = [cellH][cellW]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleScreen caches one string per text line and rebuilds only the
// lines covering dirty panel rows.
type brailleScreen struct {
	text [lines]string
}

func (s *brailleScreen) update(f *display.Frame, rows display.Rows) {
	if rows.Empty() {
		return
	}
	for ln := rows.First / cellH; ln <= rows.Last/cellH && ln < lines; ln++ {
		s.text[ln] = brailleLine(f, ln)
	}
}

func (s *brailleScreen) String() string {
	n := 0
	for _, l := range s.text {
		n += len(l) + 1
	}
	b := make([]byte, 0, n)
	for _, l := range s.text {
		b = append(b, l...)
		b = append(b, '\n')
	}
	return string(b)
}

func brailleLine(f *display.Frame, ln int) string {
	out := make([]rune, cols)
	for c := 0; c < cols; c++ {
		r := rune(0x2800)
		for dy := 0; dy < cellH; dy++ {
			for dx := 0; dx < cellW; dx++ {
				if f.Bit(c*cellW+dx, ln*cellH+dy) {
					r |= dots[dy][dx]
				}
			}
		}
		out[c] = r
	}
	return string(out)
}
