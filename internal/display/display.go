// Package display describes the fixed 400x240 monochrome panel the emulator
// renders into. Pixels are packed one bit each, most significant bit first,
// row-major with a fixed stride. A set bit is a white pixel.
package display

import (
	"image"
	"image/color"
)

const (
	Width    = 400
	Height   = 240
	RowBytes = 52 // 400 visible bits plus 16 bits of padding
)

// Frame is the shared panel framebuffer. It is never resized; renderers only
// rewrite whole rows.
type Frame struct {
	Pix []byte
}

func NewFrame() *Frame {
	return &Frame{Pix: make([]byte, RowBytes*Height)}
}

// Row returns the bytes backing row y.
func (f *Frame) Row(y int) []byte {
	return f.Pix[y*RowBytes : (y+1)*RowBytes]
}

// Clear blanks every row to black.
func (f *Frame) Clear() {
	for i := range f.Pix {
		f.Pix[i] = 0
	}
}

// Bit reports whether the pixel at (x, y) is white.
func (f *Frame) Bit(x, y int) bool {
	b := f.Pix[y*RowBytes+x>>3]
	return b&(0x80>>uint(x&7)) != 0
}

// Image copies the frame into an 8-bit grayscale image.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.Bit(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

// RGBA expands rows [first, last] into dst, which must hold Width*Height*4
// bytes. Other rows of dst are left untouched.
func (f *Frame) RGBA(dst []byte, first, last int) {
	for y := first; y <= last; y++ {
		row := f.Row(y)
		o := y * Width * 4
		for x := 0; x < Width; x++ {
			v := byte(0x00)
			if row[x>>3]&(0x80>>uint(x&7)) != 0 {
				v = 0xFF
			}
			dst[o], dst[o+1], dst[o+2], dst[o+3] = v, v, v, 0xFF
			o += 4
		}
	}
}
