// Package render turns 160-pixel, 4-shade scanlines into rows of the 1-bit
// panel framebuffer using ordered dithering and one of four scaling modes.
package render

import (
	"fmt"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

// Mode selects how source lines are placed on the panel.
type Mode int

const (
	// Natural draws the source 1:1 in the middle of the panel.
	Natural Mode = iota
	// Fitted doubles both axes and drops every sixth doubled line so 288
	// lines fit into 240.
	Fitted
	// Sliced scales both axes by 1.5.
	Sliced
	// Doubled doubles both axes and crops the source to lines 12..131.
	Doubled
)

var modeNames = [...]string{"natural", "fitted", "sliced", "doubled"}

// Modes lists every scaling mode in cycling order.
var Modes = []Mode{Natural, Fitted, Sliced, Doubled}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode { return Mode((int(m) + 1) % len(modeNames)) }

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Mode(i), nil
		}
	}
	return Natural, fmt.Errorf("unknown scaling mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid scaling mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Renderer writes one source scanline into the framebuffer and returns the
// exact span of rows it rewrote. Rows that would fall outside the panel are
// dropped.
type Renderer interface {
	Render(fb *display.Frame, px *core.Scanline, line int) display.Rows
}

// New returns the renderer for m. Unknown modes fall back to Natural.
func New(m Mode) Renderer {
	switch m {
	case Fitted:
		return fitted{}
	case Doubled:
		return doubled{}
	case Sliced:
		return sliced{}
	default:
		return natural{}
	}
}

func onPanel(y int) bool { return y >= 0 && y < display.Height }

// integerRow writes row y with every source pixel repeated rep times,
// starting left pixels in.
func integerRow(fb *display.Frame, y int, px *core.Scanline, left, rep int) {
	w := newRowWriter(fb, y)
	w.pad(left)
	for _, c := range px {
		w.shade(c, rep)
	}
	w.finish()
}
