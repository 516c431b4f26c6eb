package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Scaled returns the frame as a grayscale image enlarged scale times with
// nearest-neighbour sampling, so every panel pixel stays a crisp square.
func (f *Frame) Scaled(scale int) image.Image {
	src := f.Image()
	if scale <= 1 {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG stores a scaled snapshot of the frame at path.
func (f *Frame) WritePNG(path string, scale int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.Scaled(scale)); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
