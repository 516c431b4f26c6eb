package emu

import (
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/input"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/render"
)

// Config contains settings that affect how a cartridge is driven.
type Config struct {
	SaveDir   string // where .sav files live; empty means next to the ROM
	Mode      render.Mode
	Interlace bool // render every other source line per frame

	RTCIntervalMs  int // wall-clock ms per RTC tick
	SaveIntervalMs int // wall-clock ms between save-RAM flushes

	Crank input.CrankConfig
}

// Defaults fills zero intervals and crank settings.
func (c *Config) Defaults() {
	if c.RTCIntervalMs <= 0 {
		c.RTCIntervalMs = 1000
	}
	if c.SaveIntervalMs <= 0 {
		c.SaveIntervalMs = 3000
	}
	c.Crank.Defaults()
}
