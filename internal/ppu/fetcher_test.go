package ppu

import "testing"

type mockVRAM map[uint16]byte

func (m mockVRAM) Read(addr uint16) byte { return m[addr] }

func TestShifterHoldsTwoRows(t *testing.T) {
	var s shifter
	if _, ok := s.shift(); ok {
		t.Fatal("shift from empty should fail")
	}
	a := [8]byte{0, 1, 2, 3, 0, 1, 2, 3}
	b := [8]byte{3, 3, 3, 3, 2, 2, 2, 2}
	if !s.load(a) || !s.load(b) {
		t.Fatal("two rows should fit")
	}
	if s.load(a) {
		t.Fatal("third row accepted")
	}
	for i := 0; i < 16; i++ {
		want := a[i%8]
		if i >= 8 {
			want = b[i-8]
		}
		got, ok := s.shift()
		if !ok || got != want {
			t.Fatalf("px %d got %d, %v want %d", i, got, ok, want)
		}
	}
	if s.len() != 0 {
		t.Fatalf("len after drain got %d", s.len())
	}
}

func TestDecodeRowInvertsEncodeTile(t *testing.T) {
	tile := EncodeTile(checker())
	for y := 0; y < 8; y++ {
		got := decodeRow(tile[y*2], tile[y*2+1])
		for x, c := range got {
			if want := uint8((x + y) & 3); c != want {
				t.Fatalf("row %d px %d got %d want %d", y, x, c, want)
			}
		}
	}
}

func TestFetcherUnsignedTiles(t *testing.T) {
	mem := mockVRAM{0x9800: 0, 0x8000: 0x55, 0x8001: 0x33}
	f := newFetcher(mem, BG{MapBase: Map9800, TileData8000: true}, 0, 0, 0)
	want := [8]byte{0, 1, 2, 3, 0, 1, 2, 3}
	if got := f.next(); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	if f.col != 1 {
		t.Fatalf("column after fetch got %d want 1", f.col)
	}
}

func TestFetcherSignedTiles(t *testing.T) {
	// Tile 0xFF is -1 from 0x9000; row 5 sits 10 bytes in.
	mem := mockVRAM{0x9C00: 0xFF, 0x8FF0 + 10: 0xFF, 0x8FF0 + 11: 0x0F}
	f := newFetcher(mem, BG{MapBase: Map9C00}, 0, 0, 5)
	want := [8]byte{1, 1, 1, 1, 3, 3, 3, 3}
	if got := f.next(); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	if a := tileRowAddr(0x7F, false, 0); a != 0x97F0 {
		t.Fatalf("tile 0x7f at %#04x want 0x97f0", a)
	}
}

func TestFetcherWrapsMapRow(t *testing.T) {
	mem := mockVRAM{0x9800 + 3*32 + 31: 2, 0x9800 + 3*32: 1}
	mem[0x8020] = 0xFF // tile 2, row 0: index 1
	mem[0x8011] = 0xFF // tile 1, row 0: index 2
	f := newFetcher(mem, BG{MapBase: Map9800, TileData8000: true}, 3, 31, 0)
	if got := f.next(); got[0] != 1 {
		t.Fatalf("column 31 got %v", got)
	}
	if got := f.next(); got[0] != 2 {
		t.Fatalf("wrapped column got %v want tile 1", got)
	}
}
