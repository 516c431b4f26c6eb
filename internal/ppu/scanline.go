// Package ppu is the background layer of the Game Boy picture unit: tile
// data and a 32x32 tile map in VRAM, scrolled by SCX/SCY and shaded
// through the BGP palette, fetched eight pixels at a time.
package ppu

import "github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"

const (
	Map9800 uint16 = 0x9800
	Map9C00 uint16 = 0x9C00

	IdentityBGP byte = 0xE4 // 3,2,1,0: color index n shows shade n
)

// VRAM is the 8KiB video memory.
type VRAM [0x2000]byte

func (v *VRAM) Read(addr uint16) byte { return v[(addr-0x8000)&0x1FFF] }

func (v *VRAM) Write(addr uint16, b byte) { v[(addr-0x8000)&0x1FFF] = b }

// SetTile encodes an 8x8 block of color indices as tile n in the 0x8000
// area, two bitplanes per row.
func (v *VRAM) SetTile(n byte, px *[8][8]uint8) {
	t := EncodeTile(px)
	copy(v[int(n)*16:], t[:])
}

// SetMap points map entry (col, row) at tile n.
func (v *VRAM) SetMap(base uint16, col, row int, n byte) {
	v.Write(base+uint16(row&31)*32+uint16(col&31), n)
}

func EncodeTile(px *[8][8]uint8) [16]byte {
	var t [16]byte
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			bit := byte(0x80) >> uint(x)
			if px[y][x]&1 != 0 {
				t[y*2] |= bit
			}
			if px[y][x]&2 != 0 {
				t[y*2+1] |= bit
			}
		}
	}
	return t
}

// BG holds the registers that select and position the background.
type BG struct {
	MapBase      uint16 // Map9800 or Map9C00
	TileData8000 bool   // false selects 0x8800 signed addressing
	SCX, SCY     byte
	BGP          byte
}

// Scanline renders the 160 background pixels of line ly into out.
func (bg BG) Scanline(mem VRAMReader, ly int, out *core.Scanline) {
	ci := bg.indices(mem, byte(ly))
	for x, c := range ci {
		out[x] = (bg.BGP >> (c * 2)) & 3
	}
}

// indices returns the colour indices of line ly before the palette.
func (bg BG) indices(mem VRAMReader, ly byte) [core.ScreenWidth]byte {
	var out [core.ScreenWidth]byte
	y := ly + bg.SCY
	f := newFetcher(mem, bg, y>>3, bg.SCX>>3, y&7)

	var s shifter
	s.load(f.next())
	for i := byte(0); i < bg.SCX&7; i++ {
		s.shift()
	}
	for x := range out {
		if s.len() == 0 {
			s.load(f.next())
		}
		out[x], _ = s.shift()
	}
	return out
}
