package render

import (
	"encoding/binary"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

const wordBits = 32

// rowWriter packs bits left to right into 32-bit words and stores each full
// word big-endian, so the panel sees the leftmost pixel in the top bit of
// the first byte whatever the host byte order is.
type rowWriter struct {
	row  []byte
	off  int
	word uint32
	n    int
	x    int // panel column of the next bit
	y    int
}

func newRowWriter(fb *display.Frame, y int) rowWriter {
	return rowWriter{row: fb.Row(y), y: y}
}

func (w *rowWriter) put(bit uint32) {
	w.word = w.word<<1 | bit&1
	w.n++
	w.x++
	if w.n == wordBits {
		w.flushWord()
	}
}

// pad emits n black pixels.
func (w *rowWriter) pad(n int) {
	for i := 0; i < n; i++ {
		w.put(0)
	}
}

// shade emits n pixels of shade c, dithered at their panel positions.
func (w *rowWriter) shade(c uint8, n int) {
	for i := 0; i < n; i++ {
		w.put(ditherBit(c, w.x, w.y))
	}
}

func (w *rowWriter) flushWord() {
	binary.BigEndian.PutUint32(w.row[w.off:], w.word)
	w.off += 4
	w.word, w.n = 0, 0
}

// finish pads the rest of the row and writes any partial word.
func (w *rowWriter) finish() {
	for w.off < len(w.row) {
		w.put(0)
	}
}
