// Package testcard is a diagnostic emulation core. It validates the
// cartridge like a real core would, then instead of running CPU code it
// emits a fixed test card: the four shades and the cartridge title laid out
// as background tiles, a live joypad readout and a clock bar driven by the
// cartridge RTC. Battery RAM is exercised through a boot counter kept in
// the first two bytes.
package testcard

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/ppu"
)

const (
	cardHeight = 128 // scrollable area; the rest is the status bar
	padRow     = 128
	clockRow   = 136
)

var shades = color.Palette{
	color.Gray{Y: 0xFF},
	color.Gray{Y: 0xAA},
	color.Gray{Y: 0x55},
	color.Gray{Y: 0x00},
}

// padOrder is the left-to-right order of the joypad readout.
var padOrder = [8]uint8{
	core.JoypLeft, core.JoypUp, core.JoypDown, core.JoypRight,
	core.JoypSelect, core.JoypStart, core.JoypB, core.JoypA,
}

type Engine struct {
	host core.Host
	hdr  *cart.Header
	mbc  cart.Mapper
	rtc  *cart.RTC

	vram    ppu.VRAM
	line    core.Scanline
	joy     uint8
	scrollX int
	scrollY int
	frames  int
	boots   int
	booted  bool
}

// New returns an engine ready for Init. It matches core.Factory.
func New() core.Engine { return &Engine{joy: core.JoypReleased} }

func (e *Engine) Init(host core.Host) error {
	raw := make([]byte, cart.HeaderSize)
	for i := range raw {
		raw[i] = host.ReadROM(uint32(i))
	}
	h, err := cart.ParseHeader(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnsupportedCartridge, err)
	}
	mbc, err := cart.NewMapper(h, host, e.fault)
	switch {
	case errors.Is(err, cart.ErrBadChecksum):
		return fmt.Errorf("%w: %v", core.ErrChecksum, err)
	case err != nil:
		return fmt.Errorf("%w: %v", core.ErrUnsupportedCartridge, err)
	}
	e.host, e.hdr, e.mbc = host, h, mbc
	e.rtc = &cart.RTC{}
	if c, ok := mbc.(cart.Clocked); ok && c.Clock() != nil {
		e.rtc = c.Clock()
	}
	e.drawCard()
	return nil
}

func (e *Engine) SaveSize() int {
	if e.hdr == nil {
		return 0
	}
	return e.hdr.SaveSize()
}

func (e *Engine) SetJoypad(state uint8) { e.joy = state }

func (e *Engine) RunFrame() {
	if e.host == nil {
		return
	}
	if !e.booted {
		e.booted = true
		e.countBoot()
		e.drawCard()
	}
	held := ^e.joy
	bg := ppu.BG{MapBase: ppu.Map9800, TileData8000: true, BGP: ppu.IdentityBGP}
	if held&core.JoypB != 0 {
		bg.BGP = ^ppu.IdentityBGP
	}
	if held&core.JoypRight != 0 {
		e.scrollX++
	}
	if held&core.JoypLeft != 0 {
		e.scrollX--
	}
	if held&core.JoypDown != 0 {
		e.scrollY++
	}
	if held&core.JoypUp != 0 {
		e.scrollY--
	}
	for ly := 0; ly < core.ScreenHeight; ly++ {
		switch {
		case ly < cardHeight:
			bg.SCX, bg.SCY = byte(e.scrollX), byte(e.scrollY)
			bg.Scanline(&e.vram, ly, &e.line)
		case ly < clockRow:
			e.padLine(held)
		default:
			e.clockLine()
		}
		e.host.Scanline(&e.line, ly)
	}
	e.frames++
}

func (e *Engine) TickRTC() {
	if e.rtc != nil {
		e.rtc.Tick()
	}
}

func (e *Engine) Reset() {
	e.scrollX, e.scrollY, e.frames = 0, 0, 0
}

func (e *Engine) Close() {
	e.host, e.mbc = nil, nil
}

// Boots is the number of times this cartridge's save has been started.
func (e *Engine) Boots() int { return e.boots }

func (e *Engine) fault(write bool, addr uint16) {
	kind := core.ErrInvalidRead
	if write {
		kind = core.ErrInvalidWrite
	}
	e.host.Error(kind, addr)
}

// countBoot increments the little-endian counter at 0xA000. Erased RAM
// reads as 0xFFFF and counts as zero.
func (e *Engine) countBoot() {
	if e.hdr.SaveSize() < 2 {
		return
	}
	e.mbc.Write(0x0000, 0x0A)
	n := int(e.mbc.Read(0xA000)) | int(e.mbc.Read(0xA001))<<8
	if n == 0xFFFF {
		n = 0
	}
	n++
	e.mbc.Write(0xA000, byte(n))
	e.mbc.Write(0xA001, byte(n>>8))
	e.mbc.Write(0x0000, 0x00)
	e.boots = n
}

// drawCard paints four shade bars and a label box with the title.
func (e *Engine) drawCard() {
	img := image.NewPaletted(image.Rect(0, 0, core.ScreenWidth, cardHeight), shades)
	for y := 0; y < cardHeight; y++ {
		for x := 0; x < core.ScreenWidth; x++ {
			img.SetColorIndex(x, y, uint8(x/(core.ScreenWidth/4)))
		}
	}
	for y := 40; y < 88; y++ {
		for x := 8; x < core.ScreenWidth-8; x++ {
			img.SetColorIndex(x, y, 0)
		}
	}
	title := e.hdr.Title
	if title == "" {
		title = "UNTITLED"
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(shades[3]),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(14, 58),
	}
	d.DrawString(title)
	d.Dot = fixed.P(14, 78)
	d.DrawString(fmt.Sprintf("%s  BOOT %d", e.hdr.Controller, e.boots))
	e.loadTiles(img)
}

// loadTiles cuts the card into 8x8 tiles, sharing tile numbers between
// identical blocks. Tile 0 is blank and fills the rest of the map.
func (e *Engine) loadTiles(img *image.Paletted) {
	e.vram = ppu.VRAM{}
	var blank [8][8]uint8
	ids := map[[16]byte]byte{ppu.EncodeTile(&blank): 0}
	for row := 0; row < cardHeight/8; row++ {
		for col := 0; col < core.ScreenWidth/8; col++ {
			var px [8][8]uint8
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					px[y][x] = img.ColorIndexAt(col*8+x, row*8+y)
				}
			}
			enc := ppu.EncodeTile(&px)
			n, ok := ids[enc]
			if !ok {
				if len(ids) > 0xFF {
					continue
				}
				n = byte(len(ids))
				ids[enc] = n
				e.vram.SetTile(n, &px)
			}
			e.vram.SetMap(ppu.Map9800, col, row, n)
		}
	}
}

// padLine shows one 20 pixel cell per joypad line, dark while held.
func (e *Engine) padLine(held uint8) {
	for x := range e.line {
		c := uint8(1)
		if held&padOrder[x/20] != 0 {
			c = 3
		}
		if x%20 == 0 {
			c = 0
		}
		e.line[x] = c
	}
}

// clockLine fills in proportion to the RTC seconds register.
func (e *Engine) clockLine() {
	fill := (int(e.rtc.Sec) + 1) * core.ScreenWidth / 60
	for x := range e.line {
		if x < fill {
			e.line[x] = 3
		} else {
			e.line[x] = 0
		}
	}
}
