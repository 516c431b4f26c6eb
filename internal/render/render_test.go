package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/core"
	"github.com/FabianRolfMatthiasNoll/gbpanel/internal/display"
)

func flat(c uint8) *core.Scanline {
	var px core.Scanline
	for i := range px {
		px[i] = c
	}
	return &px
}

// sentinelFrame returns a frame filled with a byte no renderer produces on
// its own in the padding columns.
func sentinelFrame() *display.Frame {
	fb := display.NewFrame()
	for i := range fb.Pix {
		fb.Pix[i] = 0xA5
	}
	return fb
}

// contentColumns returns the half-open panel column range a mode draws into.
func contentColumns(m Mode) (int, int) {
	switch m {
	case Fitted, Doubled:
		return doubledLeft, doubledLeft + 2*core.ScreenWidth
	case Sliced:
		return slicedLeft, slicedLeft + slicedWidth
	default:
		return naturalLeft, naturalLeft + core.ScreenWidth
	}
}

func TestFlatShadeMatchesDitherRow(t *testing.T) {
	for _, m := range Modes {
		r := New(m)
		lo, hi := contentColumns(m)
		for c := uint8(0); c < 4; c++ {
			for line := 0; line < core.ScreenHeight; line++ {
				fb := sentinelFrame()
				rows := r.Render(fb, flat(c), line)
				for y := rows.First; y <= rows.Last; y++ {
					for x := 0; x < display.Width; x++ {
						want := x >= lo && x < hi && ditherBit(c, x, y) == 1
						if got := fb.Bit(x, y); got != want {
							t.Fatalf("%s shade %d line %d: pixel (%d,%d) got %v want %v", m, c, line, x, y, got, want)
						}
					}
				}
			}
		}
	}
}

func TestReportedRowsEqualWrittenRows(t *testing.T) {
	for _, m := range Modes {
		r := New(m)
		for line := 0; line < core.ScreenHeight; line++ {
			fb := sentinelFrame()
			orig := append([]byte(nil), fb.Pix...)
			rows := r.Render(fb, flat(uint8(line&3)), line)
			for y := 0; y < display.Height; y++ {
				changed := !bytes.Equal(fb.Row(y), orig[y*display.RowBytes:(y+1)*display.RowBytes])
				if changed != rows.Contains(y) {
					t.Fatalf("%s line %d: row %d changed=%v but span %+v", m, line, y, changed, rows)
				}
			}
		}
	}
}

func TestNaturalPlacement(t *testing.T) {
	r := New(Natural)
	fb := display.NewFrame()
	for line := 0; line < core.ScreenHeight; line++ {
		rows := r.Render(fb, flat(0), line)
		if rows.First != 48+line || rows.Last != 48+line {
			t.Fatalf("line %d got %+v want row %d", line, rows, 48+line)
		}
	}
	if rows := r.Render(fb, flat(0), 200); !rows.Empty() {
		t.Fatalf("line past the panel should be dropped, got %+v", rows)
	}
}

func TestFittedDropsOneInSix(t *testing.T) {
	r := New(Fitted)
	fb := display.NewFrame()
	seen := make(map[int]int)
	written := 0
	for line := 0; line < core.ScreenHeight; line++ {
		rows := r.Render(fb, flat(1), line)
		if rows.Len() < 1 || rows.Len() > 2 {
			t.Fatalf("line %d touched %d rows", line, rows.Len())
		}
		for y := rows.First; y <= rows.Last; y++ {
			seen[y]++
		}
		written += rows.Len()
	}
	if dropped := 2*core.ScreenHeight - written; dropped != 48 {
		t.Fatalf("dropped candidates got %d want 48", dropped)
	}
	if len(seen) != display.Height {
		t.Fatalf("distinct rows got %d want %d", len(seen), display.Height)
	}
	for y, n := range seen {
		if n != 1 {
			t.Fatalf("row %d written %d times", y, n)
		}
	}
}

func TestFittedDroppedCandidateIsNoOp(t *testing.T) {
	// Line 2 maps to candidates 4 and 5; candidate 5 is dropped.
	fb := sentinelFrame()
	rows := New(Fitted).Render(fb, flat(3), 2)
	if rows.First != 4 || rows.Last != 4 {
		t.Fatalf("line 2 got %+v want {4 4}", rows)
	}
	if fittedRow(5) != -1 || fittedRow(6) != 5 || fittedRow(287) != -1 || fittedRow(286) != 239 {
		t.Fatalf("fittedRow mapping wrong")
	}
	for i, b := range fb.Row(5) {
		if b != 0xA5 {
			t.Fatalf("row 5 byte %d modified to %#02x", i, b)
		}
	}
}

func TestDoubledBand(t *testing.T) {
	r := New(Doubled)
	for line := 0; line < core.ScreenHeight; line++ {
		fb := sentinelFrame()
		rows := r.Render(fb, flat(2), line)
		if line < 12 || line > 131 {
			if !rows.Empty() {
				t.Fatalf("line %d outside band produced %+v", line, rows)
			}
			continue
		}
		if rows.Len() != 2 || rows.First != 2*(line-12) {
			t.Fatalf("line %d got %+v", line, rows)
		}
		if rows.First < 0 || rows.Last >= display.Height {
			t.Fatalf("line %d escaped the panel: %+v", line, rows)
		}
	}
}

func TestSlicedRowsAndRuns(t *testing.T) {
	r := New(Sliced)
	for line := 0; line < core.ScreenHeight; line++ {
		fb := display.NewFrame()
		rows := r.Render(fb, flat(0), line)
		if want := 12 + line*3/2; rows.First != want || rows.Last != want {
			t.Fatalf("line %d got %+v want row %d", line, rows, want)
		}
	}

	// Alternate white and black source pixels; runs must be 1,2,1,2...
	var px core.Scanline
	for i := range px {
		px[i] = uint8(3 * (i & 1))
	}
	fb := display.NewFrame()
	rows := r.Render(fb, &px, 0)
	y := rows.First
	x := slicedLeft
	for i := 0; i < core.ScreenWidth; i++ {
		run := 1 + i&1
		for j := 0; j < run; j++ {
			if got, want := fb.Bit(x, y), i&1 == 0; got != want {
				t.Fatalf("source pixel %d at column %d got %v want %v", i, x, got, want)
			}
			x++
		}
	}
	if x != slicedLeft+slicedWidth {
		t.Fatalf("covered up to %d want %d", x, slicedLeft+slicedWidth)
	}
}

func TestRowWriterByteOrder(t *testing.T) {
	fb := display.NewFrame()
	w := newRowWriter(fb, 0)
	for _, b := range []uint32{1, 0, 0, 0, 0, 0, 0, 1, 1, 1} {
		w.put(b)
	}
	w.finish()
	row := fb.Row(0)
	if row[0] != 0x81 || row[1] != 0xC0 {
		t.Fatalf("packed bytes got %#02x %#02x want 0x81 0xc0", row[0], row[1])
	}
	for i := 2; i < len(row); i++ {
		if row[i] != 0 {
			t.Fatalf("byte %d not padded: %#02x", i, row[i])
		}
	}
}

func TestDitherPatterns(t *testing.T) {
	// Rows of 4 pixels, leftmost first; 1 is white.
	want := [4][4]string{
		{"1111", "1111", "1111", "1111"},
		{"0101", "1111", "0101", "1111"},
		{"1010", "0101", "1010", "0101"},
		{"0000", "0000", "0000", "0000"},
	}
	for c := range want {
		for y, row := range want[c] {
			got := ""
			for x := 0; x < 4; x++ {
				got += fmt.Sprint(ditherBit(uint8(c), x, y))
			}
			if got != row {
				t.Errorf("shade %d row %d got %s want %s", c, y, got, row)
			}
		}
	}
}

func TestShadeIndexIsMasked(t *testing.T) {
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if ditherBit(7, x, y) != ditherBit(3, x, y) {
				t.Fatalf("shade 7 not masked to 3 at (%d,%d)", x, y)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(" " + m.String() + " ")
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("stretched"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	var order []Mode
	for m, i := Natural, 0; i < 5; m, i = m.Next(), i+1 {
		order = append(order, m)
	}
	want := []Mode{Natural, Fitted, Sliced, Doubled, Natural}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Next cycles %v want %v", order, want)
		}
	}
	var m Mode
	if err := m.UnmarshalText([]byte("Doubled")); err != nil || m != Doubled {
		t.Fatalf("UnmarshalText got %v, %v", m, err)
	}
}
